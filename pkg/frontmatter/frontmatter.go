// Package frontmatter parses and serializes the YAML front matter shared
// by every artifact kind aiconfig handles (skills, Copilot agent,
// instruction and prompt files, Cursor rules, documentation pages).
package frontmatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

// Document is a parsed Markdown document with optional front matter.
type Document struct {
	Meta     map[string]interface{}
	Body     string
	Warnings []string
}

// Parse extracts front matter and body from a Markdown document. A
// document without front matter yields an empty Meta and the full text
// as Body. An opening fence without a closing one is a warning, not an
// error; only malformed YAML inside a complete fence is an error.
func Parse(content []byte) (*Document, error) {
	doc := &Document{Meta: map[string]interface{}{}}

	text := string(content)
	if !strings.HasPrefix(text, "---") {
		doc.Body = text
		return doc, nil
	}

	if !hasClosingFence(text) {
		doc.Warnings = append(doc.Warnings, "frontmatter start found without closing '---'")
		doc.Body = text
		return doc, nil
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData, err := meta.TryGet(pctx)
	if err != nil {
		return nil, errors.Wrap(err, "malformed YAML frontmatter")
	}
	if metaData != nil {
		doc.Meta = metaData
	}

	doc.Body = extractBody(text)
	return doc, nil
}

func hasClosingFence(text string) bool {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return true
		}
	}
	return false
}

// extractBody removes the front matter block and returns the body with
// leading newlines trimmed.
func extractBody(text string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return text
}

// String returns the value for key as a string, or "" when absent or of
// another type.
func (d *Document) String(key string) string {
	s, _ := d.Meta[key].(string)
	return s
}

// Bool returns the value for key as a bool, or false when absent or of
// another type.
func (d *Document) Bool(key string) bool {
	b, _ := d.Meta[key].(bool)
	return b
}

// StringSlice returns the value for key as a list of strings. Scalar
// strings are split on commas; YAML lists are stringified element-wise.
// Empty items are dropped. The applyTo field appears in both shapes in
// published instruction files.
func (d *Document) StringSlice(key string) []string {
	value, ok := d.Meta[key]
	if !ok || value == nil {
		return nil
	}

	var items []string
	switch v := value.(type) {
	case []interface{}:
		for _, item := range v {
			items = append(items, strings.TrimSpace(fmt.Sprint(item)))
		}
	case string:
		for _, part := range strings.Split(v, ",") {
			items = append(items, strings.TrimSpace(part))
		}
	default:
		items = append(items, strings.TrimSpace(fmt.Sprint(v)))
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Has reports whether the key is present in the front matter.
func (d *Document) Has(key string) bool {
	_, ok := d.Meta[key]
	return ok
}

// Serialize renders meta as a YAML front matter block followed by body.
// meta is marshaled with yaml.v3, so struct field order is preserved.
func Serialize(metaValue interface{}, body string) ([]byte, error) {
	encoded, err := yaml.Marshal(metaValue)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal frontmatter")
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(encoded)
	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(strings.TrimLeft(body, "\n"))
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

// ExtractFencedBlock returns the interior of the first fenced code block
// opened with the given tag (e.g. "chatagent" or "prompt"). When no such
// block exists the input is returned unchanged. An unterminated block
// yields a warning and the unchanged input.
func ExtractFencedBlock(text, tag string) (string, []string) {
	var warnings []string
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```"+tag) {
			start = i
			break
		}
	}
	if start == -1 {
		return text, warnings
	}

	end := -1
	for i := start + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "```" {
			end = i
			break
		}
	}
	if end == -1 {
		warnings = append(warnings, fmt.Sprintf("%s block start found without closing ```", tag))
		return text, warnings
	}

	return strings.Join(lines[start+1:end], "\n"), warnings
}
