// Package packs installs, lists and removes content packs: GitHub
// repositories carrying skills/, prompts/ and rules/ subtrees that are
// copied into the local or global .aiconfig/packs directory.
package packs

const (
	configDir   = ".aiconfig"
	packsSubdir = "packs"

	skillsSubdir  = "skills"
	promptsSubdir = "prompts"
	rulesSubdir   = "rules"

	skillFileName = "SKILL.md"
)

// InstallResult describes the content installed from a pack.
type InstallResult struct {
	PackName string
	Skills   []string
	Prompts  []string
	Rules    []string
}
