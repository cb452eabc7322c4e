// Package buildprobe inspects a C/C++ project tree and reports how it
// is built without running a build. It detects CMake (presets, cache
// files, File API replies), Visual Studio solutions, and Xcode projects,
// and renders a Markdown summary for documentation.
package buildprobe

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// DefaultMaxHits bounds how many project files a recursive scan visits.
const DefaultMaxHits = 20

// Dependency and VCS directories excluded from scanning.
var excludedDirs = map[string]struct{}{
	"vcpkg":        {},
	"external":     {},
	"third_party":  {},
	"thirdparty":   {},
	"3rdparty":     {},
	"vendor":       {},
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
}

// CMakeTarget is a target merged from CMake File API replies.
type CMakeTarget struct {
	Name         string
	Type         string
	Artifacts    []string
	Sources      []string
	Dependencies []string
}

// VSProject is a project referenced from a Visual Studio solution.
type VSProject struct {
	Name        string
	Path        string
	GUID        string
	References  []string
	IncludeDirs []string
	Defines     []string
}

// XcodeTarget is a native target parsed from a project.pbxproj.
type XcodeTarget struct {
	Name          string
	BuildSettings map[string]string
	Dependencies  []string
}

// Report is the result of probing a project root.
type Report struct {
	Root string

	CompileCommands   string
	HasRootCMakeLists bool

	CMakePresets          []string
	CMakeBuildDirs        []string
	CMakeFileAPIBuildDirs []string
	CMakeTargets          []CMakeTarget

	VSSolutions []string
	VSProjects  []VSProject

	XcodeProjects []string
	XcodeTargets  []XcodeTarget
}

// Options configures a probe run.
type Options struct {
	Root    string
	MaxHits int
}

// Run probes the project root for known build systems.
func Run(ctx context.Context, opts Options) (*Report, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve root %s", root)
	}
	if info, err := os.Stat(absRoot); err != nil || !info.IsDir() {
		return nil, errors.Errorf("root %s is not a directory", root)
	}

	maxHits := opts.MaxHits
	if maxHits <= 0 {
		maxHits = DefaultMaxHits
	}

	report := &Report{Root: absRoot}
	report.CompileCommands = detectCompileCommands(absRoot)
	detectCMake(ctx, report, maxHits)
	detectVisualStudio(ctx, report, maxHits)
	detectXcode(ctx, report, maxHits)
	return report, nil
}

// isExcluded reports whether any segment of the root-relative path is a
// dependency or VCS directory.
func isExcluded(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if _, ok := excludedDirs[strings.ToLower(part)]; ok {
			return true
		}
	}
	return false
}

// iterFiles collects files matching doublestar patterns under root,
// skipping excluded directories and capping the result at maxHits.
func iterFiles(root string, patterns []string, maxHits int) []string {
	var hits []string
	fsys := os.DirFS(root)

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			continue
		}
		sort.Strings(matches)
		for _, match := range matches {
			if isExcluded(match) {
				continue
			}
			info, err := fs.Stat(fsys, match)
			if err != nil || info.IsDir() {
				continue
			}
			hits = append(hits, filepath.Join(root, filepath.FromSlash(match)))
			if len(hits) >= maxHits {
				return hits
			}
		}
	}
	return hits
}

func detectCompileCommands(root string) string {
	direct := filepath.Join(root, "compile_commands.json")
	if _, err := os.Stat(direct); err == nil {
		return direct
	}

	candidates := iterFiles(root, []string{"**/compile_commands.json"}, 10)
	if len(candidates) > 0 {
		return candidates[0]
	}
	return ""
}

// relPath renders a path root-relative with forward slashes, falling
// back to the path itself when it lies outside the root.
func relPath(path, root string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
