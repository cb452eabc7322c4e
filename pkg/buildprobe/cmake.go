package buildprobe

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bluemouse/aiconfig/pkg/logger"
)

// Build directories are only probed at the root level.
var buildDirPatterns = []string{
	"build",
	"build/*",
	"out/build",
	"out/build/*",
	"cmake-build-*",
}

func detectCMake(ctx context.Context, report *Report, maxHits int) {
	report.CMakePresets = iterFiles(report.Root, []string{"**/CMakePresets.json"}, maxHits)

	if _, err := os.Stat(filepath.Join(report.Root, "CMakeLists.txt")); err == nil {
		report.HasRootCMakeLists = true
	}

	fsys := os.DirFS(report.Root)
	for _, pattern := range buildDirPatterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			continue
		}
		sort.Strings(matches)
		for _, match := range matches {
			dir := filepath.Join(report.Root, filepath.FromSlash(match))
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() || isExcluded(match) {
				continue
			}
			if _, err := os.Stat(filepath.Join(dir, "CMakeCache.txt")); err == nil {
				report.CMakeBuildDirs = append(report.CMakeBuildDirs, dir)
			}
			replyDir := filepath.Join(dir, ".cmake", "api", "v1", "reply")
			if _, err := os.Stat(replyDir); err == nil {
				report.CMakeFileAPIBuildDirs = append(report.CMakeFileAPIBuildDirs, dir)
			}
		}
	}

	// File API replies give the richest structured target data.
	for _, buildDir := range report.CMakeFileAPIBuildDirs {
		report.CMakeTargets = append(report.CMakeTargets, parseCMakeFileAPI(ctx, buildDir)...)
	}
}

type fileAPIIndex struct {
	Objects []struct {
		Kind     string `json:"kind"`
		JSONFile string `json:"jsonFile"`
	} `json:"objects"`
}

type fileAPICodemodel struct {
	Configurations []struct {
		Targets []struct {
			JSONFile string `json:"jsonFile"`
		} `json:"targets"`
	} `json:"configurations"`
}

type fileAPITarget struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Artifacts []struct {
		Path string `json:"path"`
	} `json:"artifacts"`
	Dependencies []struct {
		ID string `json:"id"`
	} `json:"dependencies"`
	Sources []struct {
		Path string `json:"path"`
	} `json:"sources"`
}

// parseCMakeFileAPI reads the newest index reply in an already-configured
// build directory and merges codemodel targets by name.
func parseCMakeFileAPI(ctx context.Context, buildDir string) []CMakeTarget {
	log := logger.G(ctx).WithField("buildDir", buildDir)
	replyDir := filepath.Join(buildDir, ".cmake", "api", "v1", "reply")

	indexFiles, err := filepath.Glob(filepath.Join(replyDir, "index-*.json"))
	if err != nil || len(indexFiles) == 0 {
		return nil
	}

	sort.Slice(indexFiles, func(i, j int) bool {
		return modTime(indexFiles[i]).After(modTime(indexFiles[j]))
	})
	indexPath := indexFiles[0]

	var index fileAPIIndex
	if err := readJSON(indexPath, &index); err != nil {
		log.WithError(err).Warn("failed to parse File API index")
		return nil
	}

	var codemodelRel string
	for _, obj := range index.Objects {
		if obj.Kind == "codemodel" {
			codemodelRel = obj.JSONFile
			break
		}
	}
	if codemodelRel == "" {
		return nil
	}

	var codemodel fileAPICodemodel
	if err := readJSON(filepath.Join(replyDir, codemodelRel), &codemodel); err != nil {
		log.WithError(err).Warn("failed to parse File API codemodel")
		return nil
	}

	targetsByName := map[string]*CMakeTarget{}
	for _, config := range codemodel.Configurations {
		for _, ref := range config.Targets {
			if ref.JSONFile == "" {
				continue
			}

			var tgt fileAPITarget
			if err := readJSON(filepath.Join(replyDir, ref.JSONFile), &tgt); err != nil {
				log.WithError(err).WithField("target", ref.JSONFile).Warn("failed to parse File API target")
				continue
			}
			if tgt.Name == "" {
				continue
			}

			item := targetsByName[tgt.Name]
			if item == nil {
				item = &CMakeTarget{Name: tgt.Name}
				targetsByName[tgt.Name] = item
			}
			if tgt.Type != "" {
				item.Type = tgt.Type
			}

			for _, art := range tgt.Artifacts {
				if art.Path != "" && !contains(item.Artifacts, art.Path) {
					item.Artifacts = append(item.Artifacts, art.Path)
				}
			}
			for _, dep := range tgt.Dependencies {
				// Dependency ids are "name::hash"; keep the name prefix.
				name, _, _ := strings.Cut(dep.ID, "::")
				if name != "" && !contains(item.Dependencies, name) {
					item.Dependencies = append(item.Dependencies, name)
				}
			}
			for _, src := range tgt.Sources {
				if src.Path != "" && !contains(item.Sources, src.Path) {
					item.Sources = append(item.Sources, src.Path)
				}
			}
		}
	}

	out := make([]CMakeTarget, 0, len(targetsByName))
	for _, target := range targetsByName {
		out = append(out, *target)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func readJSON(path string, v interface{}) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(content, v)
}

func modTime(path string) (t time.Time) {
	if info, err := os.Stat(path); err == nil {
		t = info.ModTime()
	}
	return t
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
