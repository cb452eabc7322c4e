// Package mermaid renders dependency graphs as fenced Mermaid flowchart
// blocks for embedding in generated Markdown reports.
package mermaid

import (
	"fmt"
	"sort"
	"strings"
)

// Edge is a directed edge with an optional multiplicity count.
type Edge struct {
	From  string
	To    string
	Count int
}

// Flowchart accumulates nodes and edges for a left-to-right flowchart.
type Flowchart struct {
	title       string
	labelCounts bool
	nodes       map[string]struct{}
	edges       []Edge
}

// NewFlowchart creates an empty flowchart. The title is emitted as a
// Mermaid comment when non-empty.
func NewFlowchart(title string) *Flowchart {
	return &Flowchart{
		title: title,
		nodes: map[string]struct{}{},
	}
}

// WithEdgeCounts enables labeling edges with their multiplicity when
// greater than one.
func (f *Flowchart) WithEdgeCounts(enabled bool) *Flowchart {
	f.labelCounts = enabled
	return f
}

// AddNode registers a node without requiring an edge.
func (f *Flowchart) AddNode(name string) {
	f.nodes[name] = struct{}{}
}

// AddEdge registers a directed edge; both endpoints become nodes.
func (f *Flowchart) AddEdge(from, to string, count int) {
	f.nodes[from] = struct{}{}
	f.nodes[to] = struct{}{}
	f.edges = append(f.edges, Edge{From: from, To: to, Count: count})
}

// Empty reports whether the flowchart has no nodes.
func (f *Flowchart) Empty() bool {
	return len(f.nodes) == 0
}

// Render produces the fenced Mermaid block. Node ids are stable n<i>
// indexes assigned over the sorted node names, so output is
// deterministic regardless of insertion order.
func (f *Flowchart) Render() string {
	names := make([]string, 0, len(f.nodes))
	for name := range f.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	ids := make(map[string]string, len(names))
	for i, name := range names {
		ids[name] = fmt.Sprintf("n%d", i)
	}

	lines := []string{"```mermaid", "flowchart LR"}
	if f.title != "" {
		lines = append(lines, fmt.Sprintf("  %%%% %s", f.title))
	}

	for _, name := range names {
		lines = append(lines, fmt.Sprintf("  %s[%q]", ids[name], name))
	}

	edges := make([]Edge, len(f.edges))
	copy(edges, f.edges)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})

	for _, edge := range edges {
		if f.labelCounts && edge.Count > 1 {
			lines = append(lines, fmt.Sprintf("  %s -->|%d| %s", ids[edge.From], edge.Count, ids[edge.To]))
		} else {
			lines = append(lines, fmt.Sprintf("  %s --> %s", ids[edge.From], ids[edge.To]))
		}
	}

	lines = append(lines, "```")
	return strings.Join(lines, "\n") + "\n"
}
