package codemap

import (
	"context"
	"encoding/json"
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

func writeCompdb(t *testing.T, root string, entries []map[string]interface{}) string {
	t.Helper()
	content, err := json.Marshal(entries)
	require.NoError(t, err)
	path := filepath.Join(root, "compile_commands.json")
	writeFile(t, path, string(content))
	return path
}

func TestLoadCompileCommands(t *testing.T) {
	root := t.TempDir()
	path := writeCompdb(t, root, []map[string]interface{}{
		{
			"directory": root,
			"file":      "src/main.cpp",
			"arguments": []string{"clang++", "-c", "src/main.cpp"},
		},
		{
			"directory": root,
			"file":      filepath.Join(root, "src", "util.cpp"),
			"command":   `clang++ -c "src/util.cpp" -DNAME=\"demo\"`,
		},
	})

	commands, err := LoadCompileCommands(path)
	require.NoError(t, err)
	require.Len(t, commands, 2)

	assert.Equal(t, filepath.Join(root, "src", "main.cpp"), commands[0].File)
	assert.Equal(t, []string{"clang++", "-c", "src/main.cpp"}, commands[0].Arguments)

	assert.Equal(t, filepath.Join(root, "src", "util.cpp"), commands[1].File)
	assert.Equal(t, []string{"clang++", "-c", "src/util.cpp", `-DNAME="demo"`}, commands[1].Arguments)
}

func TestLoadCompileCommandsMissing(t *testing.T) {
	_, err := LoadCompileCommands(filepath.Join(t.TempDir(), "compile_commands.json"))
	assert.ErrorIs(t, err, ErrDatabaseNotFound)
}

func TestLoadCompileCommandsMalformed(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "compile_commands.json")
	writeFile(t, path, "{not json")

	_, err := LoadCompileCommands(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestSelectTargets(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "b.cpp"), "")
	writeFile(t, filepath.Join(root, "src", "a.cpp"), "")
	writeFile(t, filepath.Join(root, "lib", "c.cpp"), "")

	commands := []CompileCommand{
		{File: filepath.Join(root, "src", "b.cpp")},
		{File: filepath.Join(root, "src", "a.cpp")},
		{File: filepath.Join(root, "lib", "c.cpp")},
	}

	selected, err := SelectTargets(commands, []string{filepath.Join(root, "src")})
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, filepath.Join(root, "src", "a.cpp"), selected[0].File)
	assert.Equal(t, filepath.Join(root, "src", "b.cpp"), selected[1].File)

	selected, err = SelectTargets(commands, []string{filepath.Join(root, "lib", "c.cpp")})
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, filepath.Join(root, "lib", "c.cpp"), selected[0].File)

	_, err = SelectTargets(commands, []string{filepath.Join(root, "does-not-exist")})
	assert.ErrorIs(t, err, ErrNoTranslationUnits)
}

func TestScanIncludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "engine", "main.cpp"), `#include "engine/loop.h"
#include "engine/loop.h"
#include <vector>
int main() { return 0; }
`)
	writeFile(t, filepath.Join(root, "src", "render", "draw.cpp"), `  #  include "render/draw.h"
`)

	targets := []CompileCommand{
		{File: filepath.Join(root, "src", "engine", "main.cpp")},
		{File: filepath.Join(root, "src", "render", "draw.cpp")},
	}

	edges, err := ScanIncludes(context.TODO(), targets, IncludesOptions{Root: root, ComponentDepth: 2})
	require.NoError(t, err)
	assert.Equal(t, map[Edge]int{
		{From: "src/engine", To: "engine/loop.h"}: 2,
		{From: "src/render", To: "render/draw.h"}: 1,
	}, edges)

	edges, err = ScanIncludes(context.TODO(), targets, IncludesOptions{Root: root, ComponentDepth: 2, IncludeSystem: true})
	require.NoError(t, err)
	assert.Equal(t, 1, edges[Edge{From: "src/engine", To: "vector"}])
}

func TestScanIncludesSkipsMissingFiles(t *testing.T) {
	root := t.TempDir()
	targets := []CompileCommand{{File: filepath.Join(root, "gone.cpp")}}

	edges, err := ScanIncludes(context.TODO(), targets, IncludesOptions{Root: root})
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestRenderIncludes(t *testing.T) {
	edges := map[Edge]int{
		{From: "src/engine", To: "engine/loop.h"}: 3,
		{From: "src/engine", To: "core/log.h"}:    1,
	}

	out := RenderIncludes(edges, true)
	assert.Contains(t, out, "## Include / Component Graph (Generated)")
	assert.Contains(t, out, "results may be approximate")
	assert.Contains(t, out, "```mermaid")
	assert.Contains(t, out, `n2["src/engine"]`)
	assert.Contains(t, out, "n2 -->|3| n1")
	assert.Contains(t, out, "n2 --> n0")

	assert.NotContains(t, RenderIncludes(edges, false), "-->|3|")
}

func TestComponentKey(t *testing.T) {
	root := string(filepath.Separator) + "repo"
	assert.Equal(t, "src/engine", componentKey("/repo/src/engine/main.cpp", root, 2))
	assert.Equal(t, "src", componentKey("/repo/src/engine/main.cpp", root, 1))
	assert.Equal(t, "main.cpp", componentKey("/repo/main.cpp", root, 2))
}

func TestLocationClass(t *testing.T) {
	root := string(filepath.Separator) + "repo"
	assert.Equal(t, "public-headers", locationClass("/repo/include/api.hpp", root))
	assert.Equal(t, "internal-headers", locationClass("/repo/src/detail.h", root))
	assert.Equal(t, "sources", locationClass("/repo/src/main.cpp", root))
	assert.Equal(t, "other", locationClass("/repo/README.md", root))
}

func TestBuildIndex(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "include", "api.hpp"), `class Engine { };
struct Config { };
`)
	writeFile(t, filepath.Join(root, "src", "main.cpp"), `int main(int argc, char** argv) {
void helper();
`)
	outside := filepath.Join(t.TempDir(), "ext.cpp")
	writeFile(t, outside, "class Hidden { };\n")

	targets := []CompileCommand{
		{File: filepath.Join(root, "include", "api.hpp")},
		{File: filepath.Join(root, "src", "main.cpp")},
		{File: outside},
	}

	out := BuildIndex(targets, root)
	assert.Contains(t, out, "## API Index (Generated)")
	assert.Contains(t, out, "results are approximate")
	assert.Contains(t, out, "### Public API (Headers under include/)")
	assert.Contains(t, out, "#### include/api.hpp")
	assert.Contains(t, out, "- Engine")
	assert.Contains(t, out, "- Config")
	assert.Contains(t, out, "### Sources")
	assert.Contains(t, out, "- main")
	assert.NotContains(t, out, "Hidden")
	assert.NotContains(t, out, "### Internal Headers")
}

func TestSelectBackend(t *testing.T) {
	assert.Equal(t, "fallback", SelectBackend("auto").Name)
	assert.Equal(t, "fallback", SelectBackend("fallback").Name)

	unknown := SelectBackend("libclang")
	assert.Equal(t, "fallback", unknown.Name)
	assert.Contains(t, unknown.Reason, "unknown backend")
}

func TestDatabasePath(t *testing.T) {
	assert.Equal(t, "/x/db.json", DatabasePath("/x/db.json", "/repo"))
	assert.Equal(t, filepath.Join("/repo", "compile_commands.json"), DatabasePath("", "/repo"))
}
