// Package lint checks authored configuration content against the
// repository's authoring conventions: well-formed YAML front matter and
// the required fields for each artifact kind.
package lint

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/bluemouse/aiconfig/pkg/frontmatter"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Severity of a finding.
type Severity string

// Finding severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ArtifactKind classifies a file by its naming convention.
type ArtifactKind string

// Artifact kinds recognized by the linter.
const (
	ArtifactSkill        ArtifactKind = "skill"
	ArtifactAgent        ArtifactKind = "agent"
	ArtifactInstructions ArtifactKind = "instructions"
	ArtifactPrompt       ArtifactKind = "prompt"
	ArtifactRule         ArtifactKind = "rule"
	ArtifactDoc          ArtifactKind = "doc"
	ArtifactUnknown      ArtifactKind = "unknown"
)

// Finding is a single lint result.
type Finding struct {
	Path     string
	Kind     ArtifactKind
	Rule     string
	Severity Severity
	Message  string
}

var kebabCaseRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// docRequiredFields are the front matter fields every documentation page
// must carry.
var docRequiredFields = []string{"title", "author", "tags", "summary", "date"}

// DetectKind classifies a file from its name. Plain .md files are only
// documentation pages when their front matter says so, which requires
// reading the file; callers pass the parsed document.
func DetectKind(path string, doc *frontmatter.Document) ArtifactKind {
	base := filepath.Base(path)
	switch {
	case base == "SKILL.md":
		return ArtifactSkill
	case strings.HasSuffix(base, ".agent.md"):
		return ArtifactAgent
	case strings.HasSuffix(base, ".instructions.md"):
		return ArtifactInstructions
	case strings.HasSuffix(base, ".prompt.md"):
		return ArtifactPrompt
	case strings.HasSuffix(base, ".mdc"):
		return ArtifactRule
	case strings.HasSuffix(base, ".md") && doc != nil && doc.Has("title"):
		return ArtifactDoc
	}
	return ArtifactUnknown
}

// LintFile lints a single file and returns its findings. Unknown files
// yield no findings.
func LintFile(path string) ([]Finding, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	doc, parseErr := frontmatter.Parse(content)
	if parseErr != nil {
		return []Finding{{
			Path:     path,
			Kind:     DetectKind(path, nil),
			Rule:     "frontmatter",
			Severity: SeverityError,
			Message:  parseErr.Error(),
		}}, nil
	}

	kind := DetectKind(path, doc)
	if kind == ArtifactUnknown {
		return nil, nil
	}

	var findings []Finding
	add := func(rule string, severity Severity, format string, args ...interface{}) {
		findings = append(findings, Finding{
			Path:     path,
			Kind:     kind,
			Rule:     rule,
			Severity: severity,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	for _, warning := range doc.Warnings {
		add("frontmatter", SeverityError, "%s", warning)
	}

	switch kind {
	case ArtifactSkill:
		lintSkill(path, doc, add)
	case ArtifactRule:
		lintRule(doc, add)
	case ArtifactInstructions:
		lintGlobs(doc.StringSlice("applyTo"), "applyTo", add)
		if doc.String("description") == "" {
			add("description", SeverityWarning, "description is missing; the filename stem will be used on conversion")
		}
	case ArtifactAgent, ArtifactPrompt:
		if doc.String("description") == "" {
			add("description", SeverityWarning, "description is missing; the filename stem will be used on conversion")
		}
		tag := "chatagent"
		if kind == ArtifactPrompt {
			tag = "prompt"
		}
		if _, blockWarnings := frontmatter.ExtractFencedBlock(doc.Body, tag); len(blockWarnings) > 0 {
			for _, warning := range blockWarnings {
				add("fence", SeverityError, "%s", warning)
			}
		}
	case ArtifactDoc:
		lintDoc(doc, add)
	}

	return findings, nil
}

func lintSkill(path string, doc *frontmatter.Document, add func(string, Severity, string, ...interface{})) {
	if len(doc.Meta) == 0 {
		add("frontmatter", SeverityError, "missing frontmatter")
		return
	}

	name := doc.String("name")
	if name == "" {
		add("name", SeverityError, "name is required in frontmatter")
	} else {
		if !kebabCaseRe.MatchString(name) {
			add("name", SeverityError, "name %q is not kebab-case", name)
		}
		if dirName := filepath.Base(filepath.Dir(path)); dirName != "." && dirName != name {
			add("name", SeverityError, "name %q does not match skill directory %q", name, dirName)
		}
	}

	if doc.String("description") == "" {
		add("description", SeverityError, "description is required in frontmatter")
	}
}

func lintRule(doc *frontmatter.Document, add func(string, Severity, string, ...interface{})) {
	if doc.String("description") == "" {
		add("description", SeverityError, "description is required")
	}

	if raw, ok := doc.Meta["alwaysApply"]; ok {
		if _, isBool := raw.(bool); !isBool {
			add("alwaysApply", SeverityError, "alwaysApply must be a boolean")
		}
	}

	lintGlobs(doc.StringSlice("globs"), "globs", add)
}

func lintGlobs(globs []string, rule string, add func(string, Severity, string, ...interface{})) {
	for _, glob := range globs {
		if !doublestar.ValidatePattern(glob) {
			add(rule, SeverityError, "invalid glob pattern %q", glob)
		}
	}
}

func lintDoc(doc *frontmatter.Document, add func(string, Severity, string, ...interface{})) {
	for _, field := range docRequiredFields {
		if !doc.Has(field) {
			add(field, SeverityError, "required field %q is missing", field)
		}
	}

	if doc.Has("date") {
		date := doc.String("date")
		if date == "" {
			// yaml parses unquoted dates as timestamps; accept them
			if _, isTime := doc.Meta["date"].(time.Time); !isTime {
				add("date", SeverityError, "date must be a YYYY-MM-DD string")
			}
		} else if _, err := time.Parse("2006-01-02", date); err != nil {
			add("date", SeverityError, "date %q is not in YYYY-MM-DD form", date)
		}
	}

	if doc.Has("tags") && len(doc.StringSlice("tags")) == 0 {
		add("tags", SeverityError, "tags must be a non-empty list")
	}
}

// LintPaths lints files and directory trees. Directories are walked
// recursively; only recognized artifact kinds produce findings.
func LintPaths(paths []string) ([]Finding, error) {
	var findings []Finding

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stat %s", path)
		}

		if !info.IsDir() {
			fileFindings, err := LintFile(path)
			if err != nil {
				return nil, err
			}
			findings = append(findings, fileFindings...)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == ".git" || d.Name() == "node_modules" {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(d.Name(), ".md") && !strings.HasSuffix(d.Name(), ".mdc") {
				return nil
			}

			fileFindings, err := LintFile(p)
			if err != nil {
				return err
			}
			findings = append(findings, fileFindings...)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Path != findings[j].Path {
			return findings[i].Path < findings[j].Path
		}
		return findings[i].Rule < findings[j].Rule
	})
	return findings, nil
}

// Aggregate folds error-severity findings into a single error, or nil
// when the content is clean.
func Aggregate(findings []Finding) error {
	var result *multierror.Error
	for _, finding := range findings {
		if finding.Severity == SeverityError {
			result = multierror.Append(result, errors.Errorf("%s: %s: %s", finding.Path, finding.Rule, finding.Message))
		}
	}
	return result.ErrorOrNil()
}
