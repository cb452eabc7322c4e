package packs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRepoName(t *testing.T) {
	tests := []struct {
		name    string
		repo    string
		wantErr bool
	}{
		{name: "valid", repo: "acme/skills", wantErr: false},
		{name: "empty", repo: "", wantErr: true},
		{name: "no slash", repo: "skills", wantErr: true},
		{name: "empty owner", repo: "/skills", wantErr: true},
		{name: "empty repo", repo: "acme/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepoName(tt.repo)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseRepoAndRef(t *testing.T) {
	repo, ref := ParseRepoAndRef("acme/skills@v1.2.0")
	assert.Equal(t, "acme/skills", repo)
	assert.Equal(t, "v1.2.0", ref)

	repo, ref = ParseRepoAndRef("acme/skills")
	assert.Equal(t, "acme/skills", repo)
	assert.Empty(t, ref)
}

func TestPackNameConversion(t *testing.T) {
	assert.Equal(t, "acme@skills", repoToPackName("acme/skills"))
	assert.Equal(t, "plain", repoToPackName("plain"))
	assert.Equal(t, "acme/skills", PackNameToUserFacing("acme@skills"))
}

func TestInstallMarkdownTree(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")

	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "review.md"), []byte("# review\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "deploy.md"), []byte("# deploy\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("skip me"), 0o644))

	i := &Installer{}
	names, err := i.installMarkdownTree(src, dst, ".md")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"review", "nested/deploy"}, names)

	assert.FileExists(t, filepath.Join(dst, "review.md"))
	assert.FileExists(t, filepath.Join(dst, "nested", "deploy.md"))
	assert.NoFileExists(t, filepath.Join(dst, "notes.txt"))
}

func TestInstallMarkdownTreeMissingSource(t *testing.T) {
	i := &Installer{}
	names, err := i.installMarkdownTree(filepath.Join(t.TempDir(), "missing"), t.TempDir(), ".md")
	require.NoError(t, err)
	assert.Nil(t, names)
}

func TestFindSkillDirs(t *testing.T) {
	dir := t.TempDir()

	withSkill := filepath.Join(dir, "with-skill")
	require.NoError(t, os.MkdirAll(withSkill, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(withSkill, skillFileName), []byte("---\nname: x\ndescription: y\n---\n"), 0o644))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "without-skill"), 0o755))

	found, err := findSkillDirs(dir)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, withSkill, found[0])
}

func TestCheckExisting(t *testing.T) {
	t.Run("existing without force", func(t *testing.T) {
		dir := t.TempDir()
		i := &Installer{}
		err := i.checkExisting(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--force")
	})

	t.Run("existing with force removes", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "pack")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		i := &Installer{force: true}
		require.NoError(t, i.checkExisting(dir))
		assert.NoDirExists(t, dir)
	})

	t.Run("missing is fine", func(t *testing.T) {
		i := &Installer{}
		assert.NoError(t, i.checkExisting(filepath.Join(t.TempDir(), "missing")))
	})
}

func TestRemoverListAndRemove(t *testing.T) {
	base := t.TempDir()
	r := &Remover{baseDir: base}

	packDir := filepath.Join(base, packsSubdir, "acme@skills")
	require.NoError(t, os.MkdirAll(filepath.Join(packDir, skillsSubdir), 0o755))

	// A directory without recognized content is not listed as a pack
	require.NoError(t, os.MkdirAll(filepath.Join(base, packsSubdir, "stray"), 0o755))

	names, err := r.ListPacks()
	require.NoError(t, err)
	assert.Equal(t, []string{"acme/skills"}, names)

	require.NoError(t, r.Remove("acme/skills"))
	assert.NoDirExists(t, packDir)

	err = r.Remove("acme/skills")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRemoverListMissingDir(t *testing.T) {
	r := &Remover{baseDir: filepath.Join(t.TempDir(), "none")}
	names, err := r.ListPacks()
	require.NoError(t, err)
	assert.Nil(t, names)
}
