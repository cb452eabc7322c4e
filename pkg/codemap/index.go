package codemap

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var declRe = regexp.MustCompile(
	`\b(class|struct|enum)\s+([A-Za-z_][A-Za-z0-9_]*)|` +
		`\b([A-Za-z_][A-Za-z0-9_:<>]*)\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

var headerExts = map[string]struct{}{
	".h": {}, ".hh": {}, ".hpp": {}, ".hxx": {},
}

var sourceExts = map[string]struct{}{
	".c": {}, ".cc": {}, ".cpp": {}, ".cxx": {},
}

// locationClass buckets a file for the API index: headers under
// include/ are treated as public, other headers internal.
func locationClass(path, root string) string {
	rel := relPath(path, root)
	ext := strings.ToLower(filepath.Ext(path))

	if _, ok := headerExts[ext]; ok {
		if strings.HasPrefix(rel, "include/") {
			return "public-headers"
		}
		return "internal-headers"
	}
	if _, ok := sourceExts[ext]; ok {
		return "sources"
	}
	return "other"
}

var indexGroups = []struct {
	title string
	key   string
}{
	{"Public API (Headers under include/)", "public-headers"},
	{"Internal Headers", "internal-headers"},
	{"Sources", "sources"},
	{"Other", "other"},
}

// BuildIndex scans the selected translation units for type and
// function-looking declarations and renders the grouped API index.
// Entries outside the root are skipped.
func BuildIndex(targets []CompileCommand, root string) string {
	// group -> file -> symbol set
	found := map[string]map[string]map[string]struct{}{}

	for _, cmd := range targets {
		if !isUnder(cmd.File, root) {
			continue
		}
		content, err := os.ReadFile(cmd.File)
		if err != nil {
			continue
		}

		group := locationClass(cmd.File, root)
		fileKey := relPath(cmd.File, root)
		for _, line := range strings.Split(string(content), "\n") {
			m := declRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			item := m[2]
			if item == "" {
				item = m[4]
			}
			if item == "" {
				continue
			}

			if found[group] == nil {
				found[group] = map[string]map[string]struct{}{}
			}
			if found[group][fileKey] == nil {
				found[group][fileKey] = map[string]struct{}{}
			}
			found[group][fileKey][item] = struct{}{}
		}
	}

	lines := []string{
		"## API Index (Generated)",
		"",
		"_Note: generated without libclang; results are approximate._",
		"",
	}

	for _, group := range indexGroups {
		files := found[group.key]
		if len(files) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("### %s", group.title), "")

		fileKeys := make([]string, 0, len(files))
		for fileKey := range files {
			fileKeys = append(fileKeys, fileKey)
		}
		sort.Strings(fileKeys)

		for _, fileKey := range fileKeys {
			lines = append(lines, fmt.Sprintf("#### %s", fileKey), "")
			items := make([]string, 0, len(files[fileKey]))
			for item := range files[fileKey] {
				items = append(items, item)
			}
			sort.Strings(items)
			for _, item := range items {
				lines = append(lines, fmt.Sprintf("- %s", item))
			}
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, "\n") + "\n"
}
