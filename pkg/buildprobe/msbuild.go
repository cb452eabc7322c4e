package buildprobe

import (
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bluemouse/aiconfig/pkg/logger"
)

// Matches: Project("{GUID}") = "Name", "path\proj.vcxproj", "{GUID}"
var slnProjectRe = regexp.MustCompile(`(?m)^Project\("\{[^}]+\}"\)\s*=\s*"([^"]+)",\s*"([^"]+\.vcxproj)",\s*"(\{[^}]+\})"`)

func detectVisualStudio(ctx context.Context, report *Report, maxHits int) {
	slns := iterFiles(report.Root, []string{"**/*.sln"}, maxHits)
	report.VSSolutions = append(report.VSSolutions, slns...)

	for _, sln := range slns {
		report.VSProjects = append(report.VSProjects, parseSolution(ctx, sln)...)
	}
}

func parseSolution(ctx context.Context, slnPath string) []VSProject {
	content, err := os.ReadFile(slnPath)
	if err != nil {
		logger.G(ctx).WithError(err).WithField("path", slnPath).Warn("failed to read solution")
		return nil
	}

	var projects []VSProject
	for _, m := range slnProjectRe.FindAllStringSubmatch(string(content), -1) {
		name, relPath, guid := m[1], m[2], m[3]
		// Solutions store Windows separators regardless of platform.
		projPath := filepath.Join(filepath.Dir(slnPath), filepath.FromSlash(strings.ReplaceAll(relPath, `\`, "/")))
		proj := VSProject{Name: name, Path: projPath, GUID: guid}
		if _, err := os.Stat(projPath); err == nil {
			augmentProject(ctx, &proj)
		}
		projects = append(projects, proj)
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects
}

// augmentProject pulls project references, include directories, and
// preprocessor defines out of a .vcxproj. Values are aggregated across
// all configurations, deduped, and sorted.
func augmentProject(ctx context.Context, project *VSProject) {
	content, err := os.ReadFile(project.Path)
	if err != nil {
		logger.G(ctx).WithError(err).WithField("path", project.Path).Warn("failed to read project")
		return
	}

	decoder := xml.NewDecoder(strings.NewReader(string(content)))
	includeDirs := map[string]struct{}{}
	defines := map[string]struct{}{}
	var current string

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			current = t.Name.Local
			if current == "ProjectReference" {
				for _, attr := range t.Attr {
					if attr.Name.Local == "Include" && attr.Value != "" && !contains(project.References, attr.Value) {
						project.References = append(project.References, attr.Value)
					}
				}
			}
		case xml.EndElement:
			current = ""
		case xml.CharData:
			switch current {
			case "AdditionalIncludeDirectories":
				collectMSBuildList(string(t), includeDirs)
			case "PreprocessorDefinitions":
				collectMSBuildList(string(t), defines)
			}
		}
	}

	project.IncludeDirs = sortedKeys(includeDirs)
	project.Defines = sortedKeys(defines)
}

// collectMSBuildList splits a ';'-separated MSBuild value, dropping
// empty parts and %(...) inheritance placeholders.
func collectMSBuildList(value string, into map[string]struct{}) {
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" || (strings.HasPrefix(part, "%(") && strings.HasSuffix(part, ")")) {
			continue
		}
		into[part] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
