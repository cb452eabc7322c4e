// Package scaffold creates skeleton content files from embedded
// templates so new skills, artifacts, and documentation pages start
// from a consistent shape.
package scaffold

import (
	"bytes"
	"embed"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/bluemouse/aiconfig/pkg/frontmatter"
	"github.com/pkg/errors"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// ArtifactType selects a Copilot artifact skeleton.
type ArtifactType string

// Copilot artifact skeletons.
const (
	ArtifactPrompt       ArtifactType = "prompt"
	ArtifactInstructions ArtifactType = "instructions"
	ArtifactAgent        ArtifactType = "agent"
)

type skillMeta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type docMeta struct {
	Title   string   `yaml:"title"`
	Author  string   `yaml:"author"`
	Tags    []string `yaml:"tags"`
	Summary string   `yaml:"summary"`
	Date    string   `yaml:"date"`
}

type promptMeta struct {
	Mode        string `yaml:"mode"`
	Description string `yaml:"description"`
}

type instructionsMeta struct {
	Description string `yaml:"description"`
	ApplyTo     string `yaml:"applyTo"`
}

type agentMeta struct {
	Description string `yaml:"description"`
}

// SkillOptions configures NewSkill.
type SkillOptions struct {
	Name        string
	Description string
	Dir         string
}

// DocOptions configures NewDoc.
type DocOptions struct {
	Title   string
	Author  string
	Tags    []string
	Summary string
	Dir     string

	// Now overrides the date stamp, for tests.
	Now time.Time
}

// ArtifactOptions configures NewArtifact.
type ArtifactOptions struct {
	Type        ArtifactType
	Name        string
	Description string
	Dir         string
}

// NewSkill writes <dir>/<name>/SKILL.md and returns its path.
func NewSkill(opts SkillOptions) (string, error) {
	if opts.Name == "" {
		return "", errors.New("skill name is required")
	}

	description := opts.Description
	if description == "" {
		description = "Describe when the assistant should use this skill"
	}

	body, err := renderTemplate("skill.md.tmpl", map[string]string{
		"Title": displayTitle(opts.Name),
	})
	if err != nil {
		return "", err
	}

	content, err := frontmatter.Serialize(skillMeta{
		Name:        opts.Name,
		Description: description,
	}, body)
	if err != nil {
		return "", err
	}

	path := filepath.Join(opts.Dir, opts.Name, "SKILL.md")
	return path, writeNew(path, content)
}

// NewDoc writes <dir>/<slug>.md with dated front matter and returns
// its path.
func NewDoc(opts DocOptions) (string, error) {
	if opts.Title == "" {
		return "", errors.New("doc title is required")
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	author := opts.Author
	if author == "" {
		author = "unknown"
	}
	tags := opts.Tags
	if len(tags) == 0 {
		tags = []string{"docs"}
	}
	summary := opts.Summary
	if summary == "" {
		summary = "Summarize this page in one sentence"
	}

	body, err := renderTemplate("doc.md.tmpl", map[string]string{
		"Title":   opts.Title,
		"Summary": summary,
	})
	if err != nil {
		return "", err
	}

	content, err := frontmatter.Serialize(docMeta{
		Title:   opts.Title,
		Author:  author,
		Tags:    tags,
		Summary: summary,
		Date:    now.Format("2006-01-02"),
	}, body)
	if err != nil {
		return "", err
	}

	path := filepath.Join(opts.Dir, slugify(opts.Title)+".md")
	return path, writeNew(path, content)
}

// NewArtifact writes a Copilot artifact skeleton with the conventional
// filename suffix and returns its path.
func NewArtifact(opts ArtifactOptions) (string, error) {
	if opts.Name == "" {
		return "", errors.New("artifact name is required")
	}

	description := opts.Description
	if description == "" {
		description = displayTitle(opts.Name)
	}

	var meta interface{}
	var suffix string
	switch opts.Type {
	case ArtifactPrompt:
		meta = promptMeta{Mode: "agent", Description: description}
		suffix = ".prompt.md"
	case ArtifactInstructions:
		meta = instructionsMeta{Description: description, ApplyTo: "**"}
		suffix = ".instructions.md"
	case ArtifactAgent:
		meta = agentMeta{Description: description}
		suffix = ".agent.md"
	default:
		return "", errors.Errorf("unknown artifact type: %s", opts.Type)
	}

	body, err := renderTemplate(string(opts.Type)+".md.tmpl", map[string]string{
		"Title": displayTitle(opts.Name),
	})
	if err != nil {
		return "", err
	}

	content, err := frontmatter.Serialize(meta, body)
	if err != nil {
		return "", err
	}

	path := filepath.Join(opts.Dir, opts.Name+suffix)
	return path, writeNew(path, content)
}

func renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse template %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "failed to render template %s", name)
	}
	return buf.String(), nil
}

// writeNew writes content to path, creating parent directories. It
// refuses to replace an existing file.
func writeNew(path string, content []byte) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to stat %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create parent directory")
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

func displayTitle(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
