package mermaid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderDeterministic(t *testing.T) {
	f := NewFlowchart("CMake targets")
	f.AddEdge("zlib", "core", 1)
	f.AddEdge("app", "core", 1)
	f.AddEdge("app", "zlib", 1)

	expected := "```mermaid\n" +
		"flowchart LR\n" +
		"  %% CMake targets\n" +
		"  n0[\"app\"]\n" +
		"  n1[\"core\"]\n" +
		"  n2[\"zlib\"]\n" +
		"  n0 --> n1\n" +
		"  n0 --> n2\n" +
		"  n2 --> n1\n" +
		"```\n"
	assert.Equal(t, expected, f.Render())
}

func TestRenderEdgeCounts(t *testing.T) {
	f := NewFlowchart("").WithEdgeCounts(true)
	f.AddEdge("src/app", "include/core.h", 3)
	f.AddEdge("src/app", "include/util.h", 1)

	out := f.Render()
	assert.Contains(t, out, "-->|3|")
	assert.NotContains(t, out, "-->|1|")
	assert.NotContains(t, out, "%%")
}

func TestEmpty(t *testing.T) {
	f := NewFlowchart("anything")
	assert.True(t, f.Empty())

	f.AddNode("lonely")
	assert.False(t, f.Empty())
	assert.Contains(t, f.Render(), "n0[\"lonely\"]")
}
