// Package convert rewrites Copilot configuration artifacts into their
// Cursor equivalents: .agent.md and .instructions.md files become .mdc
// rules, and .prompt.md files become command markdown files.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/bluemouse/aiconfig/pkg/frontmatter"
	"github.com/pkg/errors"
)

// Kind identifies a convertible artifact family.
type Kind string

// Artifact kinds.
const (
	KindAgents       Kind = "agents"
	KindInstructions Kind = "instructions"
	KindPrompts      Kind = "prompts"
)

// Kinds lists all convertible kinds in a stable order.
var Kinds = []Kind{KindAgents, KindInstructions, KindPrompts}

// SourceSuffix returns the filename suffix of source files of this kind.
func (k Kind) SourceSuffix() string {
	switch k {
	case KindAgents:
		return ".agent.md"
	case KindInstructions:
		return ".instructions.md"
	case KindPrompts:
		return ".prompt.md"
	}
	return ""
}

// OutputSuffix returns the filename suffix of converted files.
func (k Kind) OutputSuffix() string {
	switch k {
	case KindAgents, KindInstructions:
		return ".mdc"
	case KindPrompts:
		return ".md"
	}
	return ""
}

// Result holds the outcome of a single file conversion.
type Result struct {
	Source      string
	Destination string
	Warnings    []string
	Err         error
}

// Summary aggregates results over a conversion run.
type Summary struct {
	Converted int
	Failed    int
	Warnings  int
}

// Summarize folds results into a summary.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
		} else {
			s.Converted++
		}
		s.Warnings += len(r.Warnings)
	}
	return s
}

// String renders the summary in the report footer format.
func (s Summary) String() string {
	return fmt.Sprintf("Summary: converted=%d, failed=%d, warnings=%d", s.Converted, s.Failed, s.Warnings)
}

// productReplacer normalizes product references for Cursor output.
// Longest names first so "Visual Studio Code" is not caught by "VS Code".
var productReplacer = strings.NewReplacer(
	"GitHub Copilot", "Cursor AI",
	"Visual Studio Code", "Cursor",
	"VS Code", "Cursor",
	"VSCode", "Cursor",
)

// NormalizeProducts rewrites Copilot/VS Code product references.
func NormalizeProducts(text string) string {
	return productReplacer.Replace(text)
}

// yamlQuote double-quotes a string for YAML output, escaping backslashes
// and embedded quotes.
func yamlQuote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}

// buildRuleContent constructs a Cursor .mdc rule document.
func buildRuleContent(description string, globs []string, alwaysApply bool, body string) string {
	description = NormalizeProducts(description)
	body = NormalizeProducts(body)

	lines := []string{"---"}
	lines = append(lines, "description: "+yamlQuote(description))

	if len(globs) > 0 {
		lines = append(lines, "globs:")
		for _, glob := range globs {
			lines = append(lines, "  - "+yamlQuote(glob))
		}
	} else {
		lines = append(lines, "globs: []")
	}

	lines = append(lines, fmt.Sprintf("alwaysApply: %t", alwaysApply))
	lines = append(lines, "---")

	body = strings.Trim(body, "\n")
	if body != "" {
		return strings.Join(lines, "\n") + "\n" + body + "\n"
	}
	return strings.Join(lines, "\n") + "\n"
}

// buildCommandContent constructs a Cursor command document from a prompt.
func buildCommandContent(description, body, stem string) string {
	body = NormalizeProducts(body)
	description = NormalizeProducts(description)

	title := titleCase(strings.NewReplacer("-", " ", "_", " ").Replace(stem))

	parts := []string{"# " + title}
	if description != "" {
		parts = append(parts, description)
	}
	parts = append(parts, "", "Use any text after the command as additional context.", "")
	if body != "" {
		parts = append(parts, body)
	}

	return strings.TrimRight(strings.Join(parts, "\n"), "\n") + "\n"
}

// titleCase uppercases the first letter of each word and lowercases the
// rest, matching the original report titles.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// stem returns the filename without its kind suffix.
func stem(path string, kind Kind) string {
	return strings.TrimSuffix(filepath.Base(path), kind.SourceSuffix())
}

// ConvertFile converts a single source file of the given kind, writing
// the converted document into destDir.
func ConvertFile(kind Kind, sourcePath, destDir string) Result {
	result := Result{Source: sourcePath}

	if !strings.HasSuffix(filepath.Base(sourcePath), kind.SourceSuffix()) {
		result.Err = errors.Errorf("input must be a %s file", kind.SourceSuffix())
		return result
	}

	content, err := os.ReadFile(sourcePath)
	if err != nil {
		result.Err = err
		return result
	}

	var output string
	switch kind {
	case KindAgents:
		output, result.Warnings, err = convertAgent(string(content), stem(sourcePath, kind))
	case KindInstructions:
		output, result.Warnings, err = convertInstructions(string(content), stem(sourcePath, kind))
	case KindPrompts:
		output, result.Warnings, err = convertPrompt(string(content), stem(sourcePath, kind))
	default:
		err = errors.Errorf("unknown kind %q", kind)
	}
	if err != nil {
		result.Err = err
		return result
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		result.Err = err
		return result
	}

	destPath := filepath.Join(destDir, stem(sourcePath, kind)+kind.OutputSuffix())
	if err := os.WriteFile(destPath, []byte(output), 0o644); err != nil {
		result.Destination = destPath
		result.Err = err
		return result
	}

	result.Destination = destPath
	return result
}

func convertAgent(text, fileStem string) (string, []string, error) {
	var warnings []string

	inner, blockWarnings := frontmatter.ExtractFencedBlock(text, "chatagent")
	warnings = append(warnings, blockWarnings...)

	doc, err := frontmatter.Parse([]byte(inner))
	if err != nil {
		return "", warnings, err
	}
	warnings = append(warnings, doc.Warnings...)

	description := doc.String("description")
	if strings.TrimSpace(description) == "" {
		description = doc.String("name")
	}
	if strings.TrimSpace(description) == "" {
		description = fileStem
	}

	return buildRuleContent(description, nil, false, doc.Body), warnings, nil
}

func convertInstructions(text, fileStem string) (string, []string, error) {
	doc, err := frontmatter.Parse([]byte(text))
	if err != nil {
		return "", nil, err
	}
	warnings := doc.Warnings

	description := doc.String("description")
	if strings.TrimSpace(description) == "" {
		description = fileStem
	}

	globs := doc.StringSlice("applyTo")
	alwaysApply := false
	for _, glob := range globs {
		if glob == "*" || glob == "**" {
			alwaysApply = true
			break
		}
	}

	return buildRuleContent(description, globs, alwaysApply, doc.Body), warnings, nil
}

func convertPrompt(text, fileStem string) (string, []string, error) {
	var warnings []string

	inner, blockWarnings := frontmatter.ExtractFencedBlock(text, "prompt")
	warnings = append(warnings, blockWarnings...)

	doc, err := frontmatter.Parse([]byte(inner))
	if err != nil {
		return "", warnings, err
	}
	warnings = append(warnings, doc.Warnings...)

	var description string
	if raw, ok := doc.Meta["description"]; ok {
		if s, isString := raw.(string); isString {
			description = s
		} else {
			warnings = append(warnings, "description is not a string; using filename instead")
		}
	}

	return buildCommandContent(description, doc.Body, fileStem), warnings, nil
}

// CollectSources returns the sorted source files of the given kind in dir.
func CollectSources(kind Kind, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var sources []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), kind.SourceSuffix()) {
			sources = append(sources, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(sources)
	return sources, nil
}

// ConvertDir converts every source file of the given kind found in
// srcDir. A failing file does not stop the remaining conversions.
func ConvertDir(kind Kind, srcDir, destDir string) ([]Result, error) {
	sources, err := CollectSources(kind, srcDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan %s", srcDir)
	}

	results := make([]Result, 0, len(sources))
	for _, source := range sources {
		results = append(results, ConvertFile(kind, source, destDir))
	}
	return results, nil
}
