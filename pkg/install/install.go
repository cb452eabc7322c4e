// Package install copies authored content from an authoring tree into
// a target repository's assistant configuration directories.
//
// Source layout:
//
//	skills/<name>/SKILL.md (plus support files)
//	agents/*.agent.md
//	instructions/*.instructions.md
//	prompts/*.prompt.md
//	rules/*.mdc
//	commands/*.md
//
// Destination layout:
//
//	.github/skills/<name>/, .github/agents/, .github/instructions/,
//	.github/prompts/, .cursor/rules/, .cursor/commands/
package install

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/bluemouse/aiconfig/pkg/logger"
)

// mapping ties a source subtree to its destination directory.
type mapping struct {
	sourceDir string
	destDir   string
	suffix    string
	// skills are whole directories keyed by skill name
	perDirectory bool
}

var mappings = []mapping{
	{sourceDir: "skills", destDir: filepath.Join(".github", "skills"), perDirectory: true},
	{sourceDir: "agents", destDir: filepath.Join(".github", "agents"), suffix: ".agent.md"},
	{sourceDir: "instructions", destDir: filepath.Join(".github", "instructions"), suffix: ".instructions.md"},
	{sourceDir: "prompts", destDir: filepath.Join(".github", "prompts"), suffix: ".prompt.md"},
	{sourceDir: "rules", destDir: filepath.Join(".cursor", "rules"), suffix: ".mdc"},
	{sourceDir: "commands", destDir: filepath.Join(".cursor", "commands"), suffix: ".md"},
}

// Options configures an install run.
type Options struct {
	// Source is the authoring tree; defaults to the current directory.
	Source string
	// Target is the repository receiving the content.
	Target string
	// Force overwrites existing destination files.
	Force bool
}

// Result reports what an install run did.
type Result struct {
	// Installed holds destination paths relative to the target.
	Installed []string
	// Skipped holds relative destination paths left untouched because
	// they already existed and Force was off.
	Skipped []string
}

// Run installs all recognized content from the source tree into the
// target repository.
func Run(ctx context.Context, opts Options) (*Result, error) {
	source := opts.Source
	if source == "" {
		source = "."
	}
	if opts.Target == "" {
		return nil, errors.New("install target is required")
	}
	if _, err := os.Stat(opts.Target); err != nil {
		return nil, errors.Wrapf(err, "target %s is not accessible", opts.Target)
	}

	result := &Result{}
	for _, m := range mappings {
		sourceDir := filepath.Join(source, m.sourceDir)
		if _, err := os.Stat(sourceDir); os.IsNotExist(err) {
			continue
		} else if err != nil {
			return nil, errors.Wrapf(err, "failed to stat %s", sourceDir)
		}

		var err error
		if m.perDirectory {
			err = installSkills(ctx, sourceDir, opts, result)
		} else {
			err = installFiles(ctx, sourceDir, m, opts, result)
		}
		if err != nil {
			return nil, err
		}
	}

	if len(result.Installed) == 0 && len(result.Skipped) == 0 {
		return nil, errors.Errorf("no installable content found under %s", source)
	}

	sort.Strings(result.Installed)
	sort.Strings(result.Skipped)
	return result, nil
}

// installSkills copies each skill directory that carries a SKILL.md.
func installSkills(ctx context.Context, sourceDir string, opts Options, result *Result) error {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", sourceDir)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		skillDir := filepath.Join(sourceDir, entry.Name())
		if _, err := os.Stat(filepath.Join(skillDir, "SKILL.md")); err != nil {
			logger.G(ctx).WithField("dir", skillDir).Debug("skipping directory without SKILL.md")
			continue
		}

		destRoot := filepath.Join(".github", "skills", entry.Name())
		err := filepath.WalkDir(skillDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(skillDir, path)
			if err != nil {
				return err
			}
			return copyOne(ctx, path, filepath.Join(destRoot, rel), opts, result)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// installFiles copies suffix-matched files from a flat source directory.
func installFiles(ctx context.Context, sourceDir string, m mapping, opts Options, result *Result) error {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", sourceDir)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), m.suffix) {
			continue
		}
		source := filepath.Join(sourceDir, entry.Name())
		if err := copyOne(ctx, source, filepath.Join(m.destDir, entry.Name()), opts, result); err != nil {
			return err
		}
	}
	return nil
}

// copyOne copies a single file into the target, honoring Force.
func copyOne(ctx context.Context, source, relDest string, opts Options, result *Result) error {
	dest := filepath.Join(opts.Target, relDest)

	if _, err := os.Stat(dest); err == nil && !opts.Force {
		logger.G(ctx).WithField("path", relDest).Warn("destination exists, skipping (use --force to overwrite)")
		result.Skipped = append(result.Skipped, relDest)
		return nil
	} else if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to stat %s", dest)
	}

	content, err := os.ReadFile(source)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", source)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create %s", filepath.Dir(dest))
	}
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", dest)
	}

	result.Installed = append(result.Installed, relDest)
	return nil
}
