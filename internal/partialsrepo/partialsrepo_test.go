package partialsrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func initSourceRepo(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	for name, contents := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
		_, err = wt.Add(name)
		require.NoError(t, err)
	}

	_, err = wt.Commit("commit", &git.CommitOptions{
		Author: &object.Signature{Name: "runbook", Email: "runbook@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir
}

func TestSyncClonesFreshDestination(t *testing.T) {
	source := initSourceRepo(t, map[string]string{"greeting.md": "hello"})
	dest := filepath.Join(t.TempDir(), "checkout")

	err := Sync(context.Background(), source, dest)
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(dest, "greeting.md"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(contents))
}

func TestSyncPullsExistingCheckout(t *testing.T) {
	source := initSourceRepo(t, map[string]string{"greeting.md": "hello"})
	dest := filepath.Join(t.TempDir(), "checkout")

	require.NoError(t, Sync(context.Background(), source, dest))

	repo, err := git.PlainOpen(source)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(source, "greeting.md"), []byte("updated"), 0o644))
	_, err = wt.Add("greeting.md")
	require.NoError(t, err)
	_, err = wt.Commit("update", &git.CommitOptions{
		Author: &object.Signature{Name: "runbook", Email: "runbook@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	require.NoError(t, Sync(context.Background(), source, dest))

	contents, err := os.ReadFile(filepath.Join(dest, "greeting.md"))
	require.NoError(t, err)
	require.Equal(t, "updated", string(contents))
}

func TestSyncReplacesStaleNonGitDestination(t *testing.T) {
	source := initSourceRepo(t, map[string]string{"greeting.md": "hello"})
	dest := filepath.Join(t.TempDir(), "checkout")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "stale.txt"), []byte("stale"), 0o644))

	err := Sync(context.Background(), source, dest)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dest, "stale.txt"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dest, "greeting.md"))
	require.NoError(t, err)
}

func TestSyncRejectsEmptyURL(t *testing.T) {
	err := Sync(context.Background(), "", filepath.Join(t.TempDir(), "checkout"))
	require.Error(t, err)
}

func TestResolveIsStableForSameURL(t *testing.T) {
	source := initSourceRepo(t, map[string]string{"greeting.md": "hello"})
	cacheDir := t.TempDir()

	first, err := Resolve(context.Background(), source, cacheDir)
	require.NoError(t, err)
	second, err := Resolve(context.Background(), source, cacheDir)
	require.NoError(t, err)

	require.Equal(t, first, second)
	_, err = os.Stat(filepath.Join(first, "greeting.md"))
	require.NoError(t, err)
}
