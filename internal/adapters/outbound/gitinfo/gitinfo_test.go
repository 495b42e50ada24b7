package gitinfo_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdidvp/storediag/internal/adapters/outbound/gitinfo"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	_, err = wt.Add(name)
	require.NoError(t, err)
	hash, err := wt.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash.String()
}

func TestRevision_CleanFile(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	hash := commitFile(t, dir, ".storediag.yaml", "version: 1.0.0\n")

	rev, err := gitinfo.New().Revision(filepath.Join(dir, ".storediag.yaml"))
	require.NoError(t, err)
	assert.Equal(t, hash[:7], rev)

	rev, err = gitinfo.New().Revision(dir)
	require.NoError(t, err)
	assert.Equal(t, hash[:7], rev)
}

func TestRevision_DirtyFile(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	hash := commitFile(t, dir, ".storediag.yaml", "version: 1.0.0\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".storediag.yaml"), []byte("version: 1.1.0\n"), 0644))

	rev, err := gitinfo.New().Revision(filepath.Join(dir, ".storediag.yaml"))
	require.NoError(t, err)
	assert.Equal(t, hash[:7]+gitinfo.DirtySuffix, rev)
}

func TestRevision_NotARepo(t *testing.T) {
	rev, err := gitinfo.New().Revision(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, rev)
}

func TestRevision_NoCommits(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	rev, err := gitinfo.New().Revision(dir)
	require.NoError(t, err)
	assert.Empty(t, rev)
}
