package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLintFileValidSkill(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "commit-helper", "SKILL.md")
	writeFile(t, path, `---
name: commit-helper
description: Helps write commit messages
---

# Commit Helper
`)

	findings, err := LintFile(path)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestLintFileSkillMissingFields(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "commit-helper", "SKILL.md")
	writeFile(t, path, `---
name: commit-helper
---

Body.
`)

	findings, err := LintFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "description", findings[0].Rule)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Equal(t, ArtifactSkill, findings[0].Kind)
}

func TestLintFileSkillNameMismatch(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "some-dir", "SKILL.md")
	writeFile(t, path, `---
name: other-name
description: A skill
---

Body.
`)

	findings, err := LintFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "does not match skill directory")
}

func TestLintFileSkillNameNotKebabCase(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "My_Skill", "SKILL.md")
	writeFile(t, path, `---
name: My_Skill
description: A skill
---

Body.
`)

	findings, err := LintFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "not kebab-case")
}

func TestLintFileSkillNoFrontmatter(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "plain", "SKILL.md")
	writeFile(t, path, "# Just markdown\n")

	findings, err := LintFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "frontmatter", findings[0].Rule)
	assert.Equal(t, "missing frontmatter", findings[0].Message)
}

func TestLintFileRule(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name: "valid",
			content: `---
description: "Go style"
globs:
    - "**/*.go"
alwaysApply: false
---

Use tabs.
`,
		},
		{
			name: "missing description",
			content: `---
globs: []
alwaysApply: true
---

Body.
`,
			expected: []string{"description"},
		},
		{
			name: "bad glob and non-bool alwaysApply",
			content: `---
description: "Bad"
globs:
    - "src/[].go"
alwaysApply: "yes"
---

Body.
`,
			expected: []string{"alwaysApply", "globs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.name+".mdc")
			writeFile(t, path, tt.content)

			findings, err := LintFile(path)
			require.NoError(t, err)
			require.Len(t, findings, len(tt.expected))
			for i, rule := range tt.expected {
				assert.Equal(t, rule, findings[i].Rule)
				assert.Equal(t, ArtifactRule, findings[i].Kind)
			}
		})
	}
}

func TestLintFilePromptMissingDescriptionWarns(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "review.prompt.md")
	writeFile(t, path, `---
mode: agent
---

Review the diff.
`)

	findings, err := LintFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Equal(t, ArtifactPrompt, findings[0].Kind)
}

func TestLintFileAgentUnterminatedBlock(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "helper.agent.md")
	writeFile(t, path, "---\ndescription: A helper agent\n---\n\n```chatagent\nYou are a helper.\n")

	findings, err := LintFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "fence", findings[0].Rule)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "without closing")
}

func TestLintFileInstructionsBadGlob(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "go.instructions.md")
	writeFile(t, path, `---
description: Go conventions
applyTo: "**/*.{go"
---

Body.
`)

	findings, err := LintFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "applyTo", findings[0].Rule)
	assert.Contains(t, findings[0].Message, "invalid glob")
}

func TestLintFileDocPage(t *testing.T) {
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "guide.md")
	writeFile(t, path, `---
title: Authoring Guide
author: docs-team
tags:
    - authoring
summary: How to write content.
date: "2026-08-30"
---

# Guide
`)

	findings, err := LintFile(path)
	require.NoError(t, err)
	assert.Empty(t, findings)

	path = filepath.Join(tmpDir, "bad.md")
	writeFile(t, path, `---
title: Incomplete
tags: []
date: "30/08/2026"
---

Body.
`)

	findings, err = LintFile(path)
	require.NoError(t, err)
	rules := make([]string, 0, len(findings))
	for _, f := range findings {
		rules = append(rules, f.Rule)
	}
	assert.ElementsMatch(t, []string{"author", "summary", "tags", "date"}, rules)
}

func TestLintFileUnknownKindSkipped(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "README.md")
	writeFile(t, path, "# Readme\n\nNo front matter.\n")

	findings, err := LintFile(path)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestLintFileMalformedYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "broken", "SKILL.md")
	writeFile(t, path, "---\nname: [unclosed\n---\n\nBody.\n")

	findings, err := LintFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "frontmatter", findings[0].Rule)
	assert.Equal(t, SeverityError, findings[0].Severity)
}

func TestLintPaths(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "skills", "good-skill", "SKILL.md"), `---
name: good-skill
description: A good skill
---

Body.
`)
	writeFile(t, filepath.Join(tmpDir, "skills", "bad-skill", "SKILL.md"), `---
name: bad-skill
---

Body.
`)
	writeFile(t, filepath.Join(tmpDir, "rules", "style.mdc"), `---
description: "Style"
globs: []
alwaysApply: true
---

Body.
`)
	writeFile(t, filepath.Join(tmpDir, "notes.txt"), "not markdown")

	findings, err := LintPaths([]string{tmpDir})
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, filepath.Join(tmpDir, "skills", "bad-skill", "SKILL.md"), findings[0].Path)

	aggregated := Aggregate(findings)
	require.Error(t, aggregated)
	assert.Contains(t, aggregated.Error(), "bad-skill")
	assert.NoError(t, Aggregate(nil))
}
