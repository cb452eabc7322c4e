package skills

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bluemouse/aiconfig/pkg/frontmatter"
	"github.com/pkg/errors"
)

// SkillFileName is the canonical per-skill metadata file.
const SkillFileName = "SKILL.md"

const configDir = ".aiconfig"

// Discovery finds skills in configured directories.
type Discovery struct {
	skillDirs []string
	packDirs  []packDirConfig
}

// packDirConfig is a content-pack skills directory with its name prefix.
type packDirConfig struct {
	dir    string
	prefix string
}

// Option configures a Discovery.
type Option func(*Discovery) error

// WithSkillDirs sets custom skill directories.
func WithSkillDirs(dirs ...string) Option {
	return func(d *Discovery) error {
		d.skillDirs = dirs
		return nil
	}
}

// WithDefaultDirs initializes the default search path: repo-local skills
// first (highest precedence), then user-global ones, then installed
// content packs.
func WithDefaultDirs() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.skillDirs = []string{
			filepath.Join(".", configDir, "skills"),
			filepath.Join(homeDir, configDir, "skills"),
		}

		d.packDirs = nil
		d.addPackDirs(filepath.Join(".", configDir, "packs"))
		d.addPackDirs(filepath.Join(homeDir, configDir, "packs"))

		return nil
	}
}

// addPackDirs scans an installed-packs directory and registers each
// pack's skills/ subdirectory with an org/repo/ name prefix.
func (d *Discovery) addPackDirs(packsDir string) {
	entries, err := os.ReadDir(packsDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		skillsDir := filepath.Join(packsDir, entry.Name(), "skills")
		if _, err := os.Stat(skillsDir); err != nil {
			continue
		}

		d.packDirs = append(d.packDirs, packDirConfig{
			dir:    skillsDir,
			prefix: PackNameToPrefix(entry.Name()),
		})
	}
}

// PackNameToPrefix converts an installed pack directory name ("org@repo")
// to the skill name prefix ("org/repo/").
func PackNameToPrefix(name string) string {
	return strings.Replace(name, "@", "/", 1) + "/"
}

// NewDiscovery creates a skill discovery instance. Without options the
// default directories are used.
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}

	if len(opts) == 0 {
		opts = []Option{WithDefaultDirs()}
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// DiscoverSkills finds all available skills. Earlier directories win on
// name collisions.
func (d *Discovery) DiscoverSkills() (map[string]*Skill, error) {
	skills := make(map[string]*Skill)

	for _, dir := range d.skillDirs {
		d.discoverSkillsFromDir(dir, "", skills)
	}
	for _, packDir := range d.packDirs {
		d.discoverSkillsFromDir(packDir.dir, packDir.prefix, skills)
	}

	return skills, nil
}

// discoverSkillsFromDir loads every valid skill directory below dir.
// Invalid SKILL.md files are skipped; lint reports them.
func (d *Discovery) discoverSkillsFromDir(dir, prefix string, skills map[string]*Skill) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())

		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		skill, err := Load(filepath.Join(entryPath, SkillFileName))
		if err != nil {
			continue
		}

		skillName := prefix + skill.Name
		if _, exists := skills[skillName]; !exists {
			skill.Name = skillName
			skill.Directory = entryPath
			skills[skillName] = skill
		}
	}
}

// GetSkill returns a specific skill by name.
func (d *Discovery) GetSkill(name string) (*Skill, error) {
	skills, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	skill, exists := skills[name]
	if !exists {
		return nil, errors.Errorf("skill '%s' not found", name)
	}
	return skill, nil
}

// ListSkillNames returns the names of all available skills.
func (d *Discovery) ListSkillNames() ([]string, error) {
	skills, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	return names, nil
}

// Load reads and validates a single SKILL.md file.
func Load(path string) (*Skill, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	doc, err := frontmatter.Parse(content)
	if err != nil {
		return nil, err
	}
	if len(doc.Meta) == 0 {
		return nil, errors.New("missing frontmatter")
	}

	name := doc.String("name")
	description := doc.String("description")
	if name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}

	return &Skill{
		Name:        name,
		Description: description,
		Content:     doc.Body,
	}, nil
}

// FilterByAllowlist filters skills by an allowlist of names. An empty
// allowlist returns all skills.
func FilterByAllowlist(skills map[string]*Skill, allowed []string) map[string]*Skill {
	if len(allowed) == 0 {
		return skills
	}

	filtered := make(map[string]*Skill)
	for _, name := range allowed {
		if skill, exists := skills[name]; exists {
			filtered[name] = skill
		}
	}
	return filtered
}
