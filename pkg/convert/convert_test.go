package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNormalizeProducts(t *testing.T) {
	in := "GitHub Copilot inside Visual Studio Code, VS Code, or VSCode"
	assert.Equal(t, "Cursor AI inside Cursor, Cursor, or Cursor", NormalizeProducts(in))
}

func TestYamlQuote(t *testing.T) {
	assert.Equal(t, `"plain"`, yamlQuote("plain"))
	assert.Equal(t, `"say \"hi\""`, yamlQuote(`say "hi"`))
	assert.Equal(t, `"back\\slash"`, yamlQuote(`back\slash`))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Generate Release Notes", titleCase("generate release notes"))
	assert.Equal(t, "Myprompt", titleCase("myPrompt"))
}

func TestConvertAgent(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := filepath.Join(t.TempDir(), "rules")

	source := writeSource(t, srcDir, "reviewer.agent.md", `---
name: reviewer
description: Code review agent for GitHub Copilot
---

Review changes in VS Code workspaces.
`)

	result := ConvertFile(KindAgents, source, dstDir)
	require.NoError(t, result.Err)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, filepath.Join(dstDir, "reviewer.mdc"), result.Destination)

	out, err := os.ReadFile(result.Destination)
	require.NoError(t, err)
	expected := `---
description: "Code review agent for Cursor AI"
globs: []
alwaysApply: false
---
Review changes in Cursor workspaces.
`
	assert.Equal(t, expected, string(out))
}

func TestConvertAgentChatagentBlock(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	source := writeSource(t, srcDir, "planner.agent.md", "Preamble text\n\n```chatagent\n---\ndescription: Planning agent\n---\n\nPlan the work.\n```\n")

	result := ConvertFile(KindAgents, source, dstDir)
	require.NoError(t, result.Err)

	out, err := os.ReadFile(result.Destination)
	require.NoError(t, err)
	assert.Contains(t, string(out), `description: "Planning agent"`)
	assert.Contains(t, string(out), "Plan the work.")
	assert.NotContains(t, string(out), "Preamble")
}

func TestConvertAgentDescriptionFallbacks(t *testing.T) {
	t.Run("falls back to name", func(t *testing.T) {
		srcDir := t.TempDir()
		source := writeSource(t, srcDir, "helper.agent.md", "---\nname: helper\n---\n\nBody.\n")
		result := ConvertFile(KindAgents, source, t.TempDir())
		require.NoError(t, result.Err)

		out, _ := os.ReadFile(result.Destination)
		assert.Contains(t, string(out), `description: "helper"`)
	})

	t.Run("falls back to filename stem", func(t *testing.T) {
		srcDir := t.TempDir()
		source := writeSource(t, srcDir, "bare.agent.md", "Body only, no frontmatter.\n")
		result := ConvertFile(KindAgents, source, t.TempDir())
		require.NoError(t, result.Err)

		out, _ := os.ReadFile(result.Destination)
		assert.Contains(t, string(out), `description: "bare"`)
	})
}

func TestConvertInstructions(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	source := writeSource(t, srcDir, "go-style.instructions.md", `---
description: Go style rules
applyTo: "**/*.go, **/*.mod"
---

Use gofmt.
`)

	result := ConvertFile(KindInstructions, source, dstDir)
	require.NoError(t, result.Err)
	assert.Equal(t, filepath.Join(dstDir, "go-style.mdc"), result.Destination)

	out, err := os.ReadFile(result.Destination)
	require.NoError(t, err)
	expected := `---
description: "Go style rules"
globs:
  - "**/*.go"
  - "**/*.mod"
alwaysApply: false
---
Use gofmt.
`
	assert.Equal(t, expected, string(out))
}

func TestConvertInstructionsAlwaysApply(t *testing.T) {
	tests := []struct {
		name        string
		applyTo     string
		alwaysApply bool
	}{
		{name: "star", applyTo: `applyTo: "*"`, alwaysApply: true},
		{name: "double star", applyTo: `applyTo: "**"`, alwaysApply: true},
		{name: "scoped glob", applyTo: `applyTo: "src/**"`, alwaysApply: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srcDir := t.TempDir()
			source := writeSource(t, srcDir, "r.instructions.md", "---\ndescription: d\n"+tt.applyTo+"\n---\n\nBody.\n")
			result := ConvertFile(KindInstructions, source, t.TempDir())
			require.NoError(t, result.Err)

			out, _ := os.ReadFile(result.Destination)
			if tt.alwaysApply {
				assert.Contains(t, string(out), "alwaysApply: true")
			} else {
				assert.Contains(t, string(out), "alwaysApply: false")
			}
		})
	}
}

func TestConvertInstructionsApplyToList(t *testing.T) {
	srcDir := t.TempDir()
	source := writeSource(t, srcDir, "list.instructions.md", `---
description: List form
applyTo:
  - "**/*.ts"
  - "**/*.tsx"
---

Body.
`)
	result := ConvertFile(KindInstructions, source, t.TempDir())
	require.NoError(t, result.Err)

	out, _ := os.ReadFile(result.Destination)
	assert.Contains(t, string(out), "  - \"**/*.ts\"\n  - \"**/*.tsx\"\n")
}

func TestConvertPrompt(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	source := writeSource(t, srcDir, "release-notes.prompt.md", `---
description: Draft release notes with GitHub Copilot
---

List the merged pull requests.
`)

	result := ConvertFile(KindPrompts, source, dstDir)
	require.NoError(t, result.Err)
	assert.Equal(t, filepath.Join(dstDir, "release-notes.md"), result.Destination)

	out, err := os.ReadFile(result.Destination)
	require.NoError(t, err)
	expected := `# Release Notes
Draft release notes with Cursor AI

Use any text after the command as additional context.

List the merged pull requests.
`
	assert.Equal(t, expected, string(out))
}

func TestConvertPromptNonStringDescription(t *testing.T) {
	srcDir := t.TempDir()
	source := writeSource(t, srcDir, "odd.prompt.md", "---\ndescription: [a, b]\n---\n\nBody.\n")

	result := ConvertFile(KindPrompts, source, t.TempDir())
	require.NoError(t, result.Err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "not a string")
}

func TestConvertFileRejectsWrongSuffix(t *testing.T) {
	srcDir := t.TempDir()
	source := writeSource(t, srcDir, "plain.md", "content\n")

	result := ConvertFile(KindAgents, source, t.TempDir())
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), ".agent.md")
}

func TestConvertFileUnterminatedFrontmatterWarns(t *testing.T) {
	srcDir := t.TempDir()
	source := writeSource(t, srcDir, "broken.instructions.md", "---\ndescription: never closed\n")

	result := ConvertFile(KindInstructions, source, t.TempDir())
	require.NoError(t, result.Err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "without closing '---'")
}

func TestConvertDir(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	writeSource(t, srcDir, "a.prompt.md", "---\ndescription: A\n---\n\nBody A.\n")
	writeSource(t, srcDir, "b.prompt.md", "---\ndescription: B\n---\n\nBody B.\n")
	writeSource(t, srcDir, "ignored.md", "not a prompt\n")

	results, err := ConvertDir(KindPrompts, srcDir, dstDir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	summary := Summarize(results)
	assert.Equal(t, 2, summary.Converted)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, "Summary: converted=2, failed=0, warnings=0", summary.String())

	assert.FileExists(t, filepath.Join(dstDir, "a.md"))
	assert.FileExists(t, filepath.Join(dstDir, "b.md"))
}

func TestConvertDirMissingSource(t *testing.T) {
	results, err := ConvertDir(KindAgents, filepath.Join(t.TempDir(), "missing"), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, results)
}
