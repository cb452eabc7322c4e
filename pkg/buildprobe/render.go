package buildprobe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bluemouse/aiconfig/pkg/mermaid"
)

const cmakeConfigureHint = "Richer CMake target information requires an already-configured build " +
	"directory with CMake File API replies."

// Render produces the Markdown report. Sections appear only for
// detected build systems; diagrams are appended when requested and at
// least one dependency edge exists.
func (r *Report) Render(includeDiagrams bool) string {
	var lines []string

	lines = append(lines, "## Build System Summary (Generated)", "")

	if r.CompileCommands != "" {
		lines = append(lines, fmt.Sprintf("- compile_commands.json: `%s`", relPath(r.CompileCommands, r.Root)))
	} else {
		lines = append(lines, "- compile_commands.json: not found")
	}
	lines = append(lines, "")

	if len(r.CMakePresets) > 0 || len(r.CMakeBuildDirs) > 0 || len(r.CMakeTargets) > 0 {
		lines = append(lines, "### CMake", "")
		for _, preset := range r.CMakePresets {
			lines = append(lines, fmt.Sprintf("- Presets: `%s`", relPath(preset, r.Root)))
		}
		if len(r.CMakeBuildDirs) > 0 {
			lines = append(lines, "- Detected build directories (CMakeCache.txt present):")
			for _, dir := range r.CMakeBuildDirs {
				lines = append(lines, fmt.Sprintf("  - `%s`", relPath(dir, r.Root)))
			}
		}
		if len(r.CMakeFileAPIBuildDirs) > 0 {
			lines = append(lines, "- Build directories with CMake File API reply:")
			for _, dir := range r.CMakeFileAPIBuildDirs {
				lines = append(lines, fmt.Sprintf("  - `%s`", relPath(dir, r.Root)))
			}
		}
		if len(r.CMakeTargets) > 0 {
			lines = append(lines, "", "Targets (from CMake File API):")
			for _, target := range r.CMakeTargets {
				kind := ""
				if target.Type != "" {
					kind = fmt.Sprintf(" (%s)", target.Type)
				}
				lines = append(lines, fmt.Sprintf("- %s%s", target.Name, kind))
			}
		} else {
			lines = append(lines,
				"",
				cmakeConfigureHint,
				"",
				"If the project is not configured yet, instruct the user to run configure, e.g.:",
				"",
				"```sh",
				"cmake -S . -B build",
				"```",
			)
		}
		lines = append(lines, "")
	}

	if len(r.VSSolutions) > 0 || len(r.VSProjects) > 0 {
		lines = append(lines, "### Visual Studio / MSBuild", "")
		for _, sln := range r.VSSolutions {
			lines = append(lines, fmt.Sprintf("- Solution: `%s`", relPath(sln, r.Root)))
		}
		if len(r.VSProjects) > 0 {
			lines = append(lines, "", "Projects:")
			for _, proj := range r.VSProjects {
				lines = append(lines, fmt.Sprintf("- %s: `%s`", proj.Name, relPath(proj.Path, r.Root)))
				lines = appendCapped(lines, "  - Project references:", proj.References)
				lines = appendCapped(lines, "  - Include dirs (aggregated):", proj.IncludeDirs)
				lines = appendCapped(lines, "  - Defines (aggregated):", proj.Defines)
			}
		}
		lines = append(lines, "")
	}

	if len(r.XcodeProjects) > 0 || len(r.XcodeTargets) > 0 {
		lines = append(lines, "### Xcode", "")
		for _, proj := range r.XcodeProjects {
			lines = append(lines, fmt.Sprintf("- Project: `%s`", relPath(proj, r.Root)))
		}
		if len(r.XcodeTargets) > 0 {
			lines = append(lines, "", "Targets:")
			for _, target := range r.XcodeTargets {
				lines = append(lines, fmt.Sprintf("- %s", target.Name))
				if len(target.BuildSettings) > 0 {
					lines = append(lines, "  - Representative build settings:")
					keys := make([]string, 0, len(target.BuildSettings))
					for key := range target.BuildSettings {
						keys = append(keys, key)
					}
					sort.Strings(keys)
					for _, key := range keys {
						lines = append(lines, fmt.Sprintf("    - `%s` = `%s`", key, target.BuildSettings[key]))
					}
				}
			}
		}
		lines = append(lines, "")
	}

	if includeDiagrams {
		lines = append(lines, r.renderDiagrams()...)
	}

	return strings.Join(lines, "\n") + "\n"
}

// appendCapped lists up to 20 values under a heading line.
func appendCapped(lines []string, heading string, values []string) []string {
	if len(values) == 0 {
		return lines
	}
	lines = append(lines, heading)
	capped := values
	if len(capped) > 20 {
		capped = capped[:20]
	}
	for _, value := range capped {
		lines = append(lines, fmt.Sprintf("    - `%s`", value))
	}
	return lines
}

func (r *Report) renderDiagrams() []string {
	cmake := mermaid.NewFlowchart("CMake targets")
	for _, target := range r.CMakeTargets {
		for _, dep := range target.Dependencies {
			cmake.AddEdge(target.Name, dep, 1)
		}
	}

	vs := mermaid.NewFlowchart("VS projects")
	for _, proj := range r.VSProjects {
		for _, ref := range proj.References {
			vs.AddEdge(proj.Name, ref, 1)
		}
	}

	xcode := mermaid.NewFlowchart("Xcode targets")
	for _, target := range r.XcodeTargets {
		for _, dep := range target.Dependencies {
			xcode.AddEdge(target.Name, dep, 1)
		}
	}

	if cmake.Empty() && vs.Empty() && xcode.Empty() {
		return nil
	}

	lines := []string{"### Build Target Dependency Graph (Mermaid)", ""}
	for _, chart := range []*mermaid.Flowchart{cmake, vs, xcode} {
		if !chart.Empty() {
			lines = append(lines, chart.Render())
		}
	}
	return lines
}
