package packs

import (
	"context"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ValidateRepoName validates a GitHub repository reference of the form
// "owner/repo".
func ValidateRepoName(repo string) error {
	if repo == "" {
		return errors.New("repository name cannot be empty")
	}
	if !strings.Contains(repo, "/") {
		return errors.Errorf("invalid repository format %q: expected 'owner/repo'", repo)
	}
	parts := strings.SplitN(repo, "/", 2)
	if parts[0] == "" || parts[1] == "" {
		return errors.Errorf("invalid repository format %q: owner and repo cannot be empty", repo)
	}
	return nil
}

// ParseRepoAndRef splits "owner/repo@ref" into its repo and optional ref.
func ParseRepoAndRef(repo string) (string, string) {
	if idx := strings.LastIndex(repo, "@"); idx != -1 {
		return repo[:idx], repo[idx+1:]
	}
	return repo, ""
}

// repoToPackName converts "owner/repo" to the on-disk pack directory
// name "owner@repo". Only the first slash is replaced.
func repoToPackName(repo string) string {
	if !strings.Contains(repo, "/") {
		return repo
	}
	return strings.Replace(repo, "/", "@", 1)
}

// PackNameToUserFacing converts the "owner@repo" directory format back
// to the user-facing "owner/repo".
func PackNameToUserFacing(packName string) string {
	return strings.Replace(packName, "@", "/", 1)
}

// Installer installs content packs from GitHub repositories.
type Installer struct {
	global    bool
	force     bool
	targetDir string
}

// InstallerOption configures an Installer or Remover.
type InstallerOption func(*Installer)

// WithGlobal targets the global ~/.aiconfig directory.
func WithGlobal(global bool) InstallerOption {
	return func(i *Installer) {
		i.global = global
	}
}

// WithForce overwrites an existing pack.
func WithForce(force bool) InstallerOption {
	return func(i *Installer) {
		i.force = force
	}
}

// NewInstaller creates a pack installer.
func NewInstaller(opts ...InstallerOption) (*Installer, error) {
	i := &Installer{}
	for _, opt := range opts {
		opt(i)
	}

	if i.global {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get home directory")
		}
		i.targetDir = filepath.Join(homeDir, configDir)
	} else {
		i.targetDir = configDir
	}

	return i, nil
}

// Install clones the repository with the gh CLI and copies its skills/,
// prompts/ and rules/ subtrees into the packs directory. The temporary
// clone is always removed.
func (i *Installer) Install(ctx context.Context, repo string, ref string) (*InstallResult, error) {
	if err := ValidateRepoName(repo); err != nil {
		return nil, err
	}

	if err := validateGHCLI(); err != nil {
		return nil, err
	}

	tempDir, err := i.cloneRepo(ctx, repo, ref)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tempDir)

	// owner@repo avoids nested directories and collisions between owners
	packName := repoToPackName(repo)

	packDir := filepath.Join(i.targetDir, packsSubdir, packName)
	if err := i.checkExisting(packDir); err != nil {
		return nil, err
	}

	result := &InstallResult{PackName: packName}

	if found, err := findSkillDirs(filepath.Join(tempDir, skillsSubdir)); err == nil && len(found) > 0 {
		destDir := filepath.Join(packDir, skillsSubdir)
		for _, skillDir := range found {
			skillName := filepath.Base(skillDir)
			if err := copyDir(skillDir, filepath.Join(destDir, skillName)); err != nil {
				return nil, errors.Wrapf(err, "failed to install skill %s", skillName)
			}
			result.Skills = append(result.Skills, skillName)
		}
	}

	prompts, err := i.installMarkdownTree(filepath.Join(tempDir, promptsSubdir), filepath.Join(packDir, promptsSubdir), ".md")
	if err != nil {
		return nil, errors.Wrap(err, "failed to install prompts")
	}
	result.Prompts = prompts

	rules, err := i.installMarkdownTree(filepath.Join(tempDir, rulesSubdir), filepath.Join(packDir, rulesSubdir), ".mdc")
	if err != nil {
		return nil, errors.Wrap(err, "failed to install rules")
	}
	result.Rules = rules

	if len(result.Skills) == 0 && len(result.Prompts) == 0 && len(result.Rules) == 0 {
		os.RemoveAll(packDir)
		return nil, errors.New("no content found in repository (expected skills/, prompts/, or rules/ directories)")
	}

	return result, nil
}

// installMarkdownTree copies files with the given extension from src to
// dst, preserving subdirectories. Returns extension-stripped relative names.
func (i *Installer) installMarkdownTree(src, dst, ext string) ([]string, error) {
	var names []string

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		if err := copyFile(path, filepath.Join(dst, relPath)); err != nil {
			return err
		}
		names = append(names, strings.TrimSuffix(filepath.ToSlash(relPath), ext))
		return nil
	})
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return nil, nil
		}
		return nil, err
	}

	return names, nil
}

func validateGHCLI() error {
	if _, err := exec.LookPath("gh"); err != nil {
		return errors.New("gh CLI is not installed; install the GitHub CLI to add packs")
	}
	return nil
}

func (i *Installer) cloneRepo(ctx context.Context, repo, ref string) (string, error) {
	tempDir, err := os.MkdirTemp("", "aiconfig-pack-*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temp directory")
	}

	args := []string{"repo", "clone", repo, tempDir, "--"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, "--depth", "1")

	cmd := exec.CommandContext(ctx, "gh", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(tempDir)
		return "", errors.Wrapf(err, "failed to clone repository: %s", string(output))
	}

	return tempDir, nil
}

// findSkillDirs returns immediate subdirectories of dir containing a SKILL.md.
func findSkillDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var found []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		skillPath := filepath.Join(dir, entry.Name())
		if _, err := os.Stat(filepath.Join(skillPath, skillFileName)); err == nil {
			found = append(found, skillPath)
		}
	}
	return found, nil
}

func (i *Installer) checkExisting(path string) error {
	if _, err := os.Stat(path); err == nil {
		if !i.force {
			return errors.Errorf("pack already exists at %s (use --force to overwrite)", path)
		}
		if err := os.RemoveAll(path); err != nil {
			return errors.Wrap(err, "failed to remove existing pack")
		}
	}
	return nil
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		destPath := filepath.Join(dst, relPath)
		if info.IsDir() {
			return os.MkdirAll(destPath, info.Mode())
		}
		return copyFile(path, destPath)
	})
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

// Remover removes and lists installed packs.
type Remover struct {
	baseDir string
}

// NewRemover creates a pack remover.
func NewRemover(opts ...InstallerOption) (*Remover, error) {
	i := &Installer{}
	for _, opt := range opts {
		opt(i)
	}

	r := &Remover{}
	if i.global {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get home directory")
		}
		r.baseDir = filepath.Join(homeDir, configDir)
	} else {
		r.baseDir = configDir
	}

	return r, nil
}

// Remove removes an installed pack. Accepts both "owner/repo" and
// "owner@repo" forms.
func (r *Remover) Remove(name string) error {
	packName := name
	if strings.Contains(name, "/") {
		packName = repoToPackName(name)
	}

	packPath := filepath.Join(r.baseDir, packsSubdir, packName)
	if _, err := os.Stat(packPath); os.IsNotExist(err) {
		return errors.Errorf("pack '%s' not found", name)
	}

	if err := os.RemoveAll(packPath); err != nil {
		return errors.Wrap(err, "failed to remove pack")
	}
	return nil
}

// ListPacks returns installed pack names in "owner/repo" form.
func (r *Remover) ListPacks() ([]string, error) {
	packsDir := filepath.Join(r.baseDir, packsSubdir)

	entries, err := os.ReadDir(packsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		packPath := filepath.Join(packsDir, entry.Name())
		hasContent := false
		for _, subdir := range []string{skillsSubdir, promptsSubdir, rulesSubdir} {
			if _, err := os.Stat(filepath.Join(packPath, subdir)); err == nil {
				hasContent = true
				break
			}
		}

		if hasContent {
			names = append(names, PackNameToUserFacing(entry.Name()))
		}
	}

	return names, nil
}
