package codemap

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bluemouse/aiconfig/pkg/mermaid"
)

var includeRe = regexp.MustCompile(`^\s*#\s*include\s*([<"])([^>"]+)[>"]`)

// Edge is a directed include edge from a source component to an
// included header.
type Edge struct {
	From string
	To   string
}

// IncludesOptions configures the include graph scan.
type IncludesOptions struct {
	Root           string
	ComponentDepth int
	IncludeSystem  bool
	LabelCounts    bool
}

// ScanIncludes extracts include edges from the selected translation
// units. Files are scanned concurrently; the merged result is
// deterministic regardless of scheduling.
func ScanIncludes(ctx context.Context, targets []CompileCommand, opts IncludesOptions) (map[Edge]int, error) {
	depth := opts.ComponentDepth
	if depth <= 0 {
		depth = 2
	}

	perTarget := make([]map[Edge]int, len(targets))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())

	for i, cmd := range targets {
		i, cmd := i, cmd
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			content, err := os.ReadFile(cmd.File)
			if err != nil {
				// Databases routinely reference generated files that are
				// absent in a clean tree.
				return nil
			}

			edges := map[Edge]int{}
			source := componentKey(cmd.File, opts.Root, depth)
			for _, line := range strings.Split(string(content), "\n") {
				m := includeRe.FindStringSubmatch(line)
				if m == nil {
					continue
				}
				bracket, header := m[1], strings.TrimSpace(m[2])
				if bracket == "<" && !opts.IncludeSystem {
					continue
				}
				edges[Edge{From: source, To: header}]++
			}
			perTarget[i] = edges
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	merged := map[Edge]int{}
	for _, edges := range perTarget {
		for edge, count := range edges {
			merged[edge] += count
		}
	}
	return merged, nil
}

// RenderIncludes produces the include graph section with a Mermaid
// flowchart, edges ordered deterministically.
func RenderIncludes(edges map[Edge]int, labelCounts bool) string {
	chart := mermaid.NewFlowchart("").WithEdgeCounts(labelCounts)

	keys := make([]Edge, 0, len(edges))
	for edge := range edges {
		keys = append(keys, edge)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].From != keys[j].From {
			return keys[i].From < keys[j].From
		}
		return keys[i].To < keys[j].To
	})
	for _, edge := range keys {
		chart.AddEdge(edge.From, edge.To, edges[edge])
	}

	header := "## Include / Component Graph (Generated)\n\n" +
		"_Note: generated without libclang; results may be approximate._\n\n"
	return header + chart.Render()
}

// componentKey groups a file by the first depth segments of its
// root-relative path.
func componentKey(path, root string, depth int) string {
	rel := relPath(path, root)
	var parts []string
	for _, part := range strings.Split(rel, "/") {
		if part != "" && part != "." {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "."
	}
	if depth < 1 {
		depth = 1
	}
	if len(parts) > depth {
		parts = parts[:depth]
	}
	return strings.Join(parts, "/")
}

func relPath(path, root string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
