package buildprobe

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	nativeTargetRe = regexp.MustCompile(`(?s)([A-F0-9]{24}) /\* ([^*]+) \*/ = \{\s*isa = PBXNativeTarget;(.*?)\n\s*\};`)
	// Config blocks nest a braced buildSettings map, so these match the
	// block opening only; the settings are pulled from a window after it.
	buildConfigRe = regexp.MustCompile(`([A-F0-9]{24}) /\* [^*]+ \*/ = \{\s*isa = XCBuildConfiguration;`)
	configListRe  = regexp.MustCompile(`(?s)([A-F0-9]{24}) /\* [^*]+ \*/ = \{\s*isa = XCConfigurationList;(.*?)\n\s*\};`)

	targetNameRe    = regexp.MustCompile(`\bname = ([^;]+);`)
	dependenciesRe  = regexp.MustCompile(`(?s)\bdependencies = \((.*?)\);`)
	buildSettingsRe = regexp.MustCompile(`(?s)\bbuildSettings = \{(.*?)\n\s*\};`)
	buildConfigsRe  = regexp.MustCompile(`(?s)\bbuildConfigurations = \((.*?)\);`)
	configListRefRe = regexp.MustCompile(`\bbuildConfigurationList = ([A-F0-9]{24});`)
	objectIDRe      = regexp.MustCompile(`[A-F0-9]{24}`)
	settingLineRe   = regexp.MustCompile(`^\s*([A-Z0-9_]+)\s*=\s*(.+?);\s*$`)
)

// Build settings worth surfacing in documentation.
var settingsAllowlist = map[string]struct{}{
	"HEADER_SEARCH_PATHS":          {},
	"USER_HEADER_SEARCH_PATHS":     {},
	"GCC_PREPROCESSOR_DEFINITIONS": {},
	"CLANG_CXX_LANGUAGE_STANDARD":  {},
	"CLANG_C_LANGUAGE_STANDARD":    {},
	"OTHER_CFLAGS":                 {},
	"OTHER_CPLUSPLUSFLAGS":         {},
	"OTHER_LDFLAGS":                {},
	"PRODUCT_NAME":                 {},
}

func detectXcode(_ context.Context, report *Report, maxHits int) {
	fsys := os.DirFS(report.Root)
	matches, err := doublestar.Glob(fsys, "**/*.xcodeproj")
	if err != nil {
		return
	}
	sort.Strings(matches)

	var dirs []string
	for _, match := range matches {
		dir := filepath.Join(report.Root, filepath.FromSlash(match))
		if info, err := os.Stat(dir); err != nil || !info.IsDir() || isExcluded(match) {
			continue
		}
		dirs = append(dirs, dir)
	}
	if len(dirs) > maxHits {
		dirs = dirs[:maxHits]
	}

	for _, dir := range dirs {
		pbxproj := filepath.Join(dir, "project.pbxproj")
		content, err := os.ReadFile(pbxproj)
		if err != nil {
			continue
		}
		report.XcodeProjects = append(report.XcodeProjects, dir)
		report.XcodeTargets = append(report.XcodeTargets, parsePbxproj(string(content))...)
	}
}

// parsePbxproj extracts native target names, their dependencies, and a
// representative configuration's allowlisted build settings from the
// OpenStep-style project file. Best effort only.
func parsePbxproj(text string) []XcodeTarget {
	type parsedTarget struct {
		target XcodeTarget
		body   string
	}

	targets := map[string]*parsedTarget{}
	var order []string

	for _, m := range nativeTargetRe.FindAllStringSubmatch(text, -1) {
		targetID, label, body := m[1], m[2], m[3]

		name := strings.TrimSpace(label)
		if nameMatch := targetNameRe.FindStringSubmatch(body); nameMatch != nil {
			name = strings.Trim(strings.TrimSpace(nameMatch[1]), `"`)
		}

		parsed := &parsedTarget{target: XcodeTarget{Name: name}, body: body}
		if depsMatch := dependenciesRe.FindStringSubmatch(body); depsMatch != nil {
			parsed.target.Dependencies = objectIDRe.FindAllString(depsMatch[1], -1)
		}

		targets[targetID] = parsed
		order = append(order, targetID)
	}

	configSettings := map[string]map[string]string{}
	for _, loc := range buildConfigRe.FindAllStringSubmatchIndex(text, -1) {
		configID := text[loc[2]:loc[3]]
		settingsMatch := buildSettingsRe.FindStringSubmatch(text[loc[1]:])
		if settingsMatch == nil {
			continue
		}
		if parsed := parseSettingsBlock(settingsMatch[1]); len(parsed) > 0 {
			configSettings[configID] = parsed
		}
	}

	listConfigs := map[string][]string{}
	for _, m := range configListRe.FindAllStringSubmatch(text, -1) {
		listID, body := m[1], m[2]
		configsMatch := buildConfigsRe.FindStringSubmatch(body)
		if configsMatch == nil {
			continue
		}
		if ids := objectIDRe.FindAllString(configsMatch[1], -1); len(ids) > 0 {
			listConfigs[listID] = ids
		}
	}

	// Attach the first configuration's settings as representative.
	for _, parsed := range targets {
		listMatch := configListRefRe.FindStringSubmatch(parsed.body)
		if listMatch == nil {
			continue
		}
		if configIDs := listConfigs[listMatch[1]]; len(configIDs) > 0 {
			parsed.target.BuildSettings = configSettings[configIDs[0]]
		}
	}

	idToName := make(map[string]string, len(targets))
	for id, parsed := range targets {
		idToName[id] = parsed.target.Name
	}

	out := make([]XcodeTarget, 0, len(order))
	for _, id := range order {
		target := targets[id].target
		for i, dep := range target.Dependencies {
			if name, ok := idToName[dep]; ok {
				target.Dependencies[i] = name
			}
		}
		sort.Strings(target.Dependencies)
		out = append(out, target)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func parseSettingsBlock(block string) map[string]string {
	settings := map[string]string{}
	for _, raw := range strings.Split(block, "\n") {
		m := settingLineRe.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		key, value := m[1], strings.TrimSpace(m[2])
		if _, ok := settingsAllowlist[key]; ok {
			settings[key] = value
		}
	}
	return settings
}
