// Package skills discovers skill packages: directories containing a
// SKILL.md file whose YAML frontmatter names and describes the skill for
// an AI coding assistant.
package skills

// Skill represents a discovered skill with its metadata.
type Skill struct {
	Name        string // Unique name from frontmatter (pack-prefixed when from a pack)
	Description string // Brief description from frontmatter
	Directory   string // Full path to the skill directory
	Content     string // SKILL.md body without the frontmatter block
}
