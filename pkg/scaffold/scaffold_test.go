package scaffold

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluemouse/aiconfig/pkg/frontmatter"
)

func TestNewSkill(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := NewSkill(SkillOptions{
		Name:        "commit-helper",
		Description: "Helps write commit messages",
		Dir:         tmpDir,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "commit-helper", "SKILL.md"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	doc, err := frontmatter.Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "commit-helper", doc.String("name"))
	assert.Equal(t, "Helps write commit messages", doc.String("description"))
	assert.Contains(t, doc.Body, "# Commit Helper")
}

func TestNewSkillRefusesOverwrite(t *testing.T) {
	tmpDir := t.TempDir()

	opts := SkillOptions{Name: "once", Description: "Only once", Dir: tmpDir}
	_, err := NewSkill(opts)
	require.NoError(t, err)

	_, err = NewSkill(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestNewSkillRequiresName(t *testing.T) {
	_, err := NewSkill(SkillOptions{Dir: t.TempDir()})
	require.Error(t, err)
}

func TestNewDoc(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := NewDoc(DocOptions{
		Title:   "Authoring Guide",
		Author:  "docs-team",
		Tags:    []string{"authoring", "guide"},
		Summary: "How to write content.",
		Dir:     tmpDir,
		Now:     time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "authoring-guide.md"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	doc, err := frontmatter.Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "Authoring Guide", doc.String("title"))
	assert.Equal(t, "docs-team", doc.String("author"))
	assert.Equal(t, []string{"authoring", "guide"}, doc.StringSlice("tags"))
	assert.Equal(t, "2026-08-30", doc.String("date"))
	assert.Contains(t, doc.Body, "How to write content.")
}

func TestNewDocDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := NewDoc(DocOptions{Title: "Bare Page", Dir: tmpDir})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	doc, err := frontmatter.Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "unknown", doc.String("author"))
	assert.Equal(t, []string{"docs"}, doc.StringSlice("tags"))
	assert.NotEmpty(t, doc.String("date"))
}

func TestNewArtifact(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		artifactType ArtifactType
		filename     string
	}{
		{ArtifactPrompt, "review.prompt.md"},
		{ArtifactInstructions, "review.instructions.md"},
		{ArtifactAgent, "review.agent.md"},
	}

	for _, tt := range tests {
		t.Run(string(tt.artifactType), func(t *testing.T) {
			dir := filepath.Join(tmpDir, string(tt.artifactType))
			path, err := NewArtifact(ArtifactOptions{
				Type: tt.artifactType,
				Name: "review",
				Dir:  dir,
			})
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.filename), path)

			content, err := os.ReadFile(path)
			require.NoError(t, err)

			doc, err := frontmatter.Parse(content)
			require.NoError(t, err)
			assert.Equal(t, "Review", doc.String("description"))
			assert.Contains(t, doc.Body, "# Review")
		})
	}
}

func TestNewArtifactPromptMode(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := NewArtifact(ArtifactOptions{
		Type:        ArtifactPrompt,
		Name:        "triage",
		Description: "Triage incoming issues",
		Dir:         tmpDir,
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	doc, err := frontmatter.Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "agent", doc.String("mode"))
	assert.Equal(t, "Triage incoming issues", doc.String("description"))
}

func TestNewArtifactUnknownType(t *testing.T) {
	_, err := NewArtifact(ArtifactOptions{Type: "rule", Name: "x", Dir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown artifact type")
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "authoring-guide", slugify("Authoring Guide"))
	assert.Equal(t, "v2-release-notes", slugify("  V2: Release Notes!  "))
	assert.Equal(t, "abc", slugify("abc"))
}
