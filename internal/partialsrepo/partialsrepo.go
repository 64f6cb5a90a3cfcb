// Package partialsrepo clones or updates a remote git bundle of shared
// partial fragments, per RunbookSettings.PartialsRepo, so a runbook can
// reference partials maintained in a separate repository.
package partialsrepo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
)

// Sync ensures url's contents are checked out at dest: clones if dest
// doesn't exist yet, otherwise opens the existing checkout and pulls. A
// dest that exists but isn't a git repository is treated as stale and
// replaced with a fresh clone. Returns nil when a pull finds nothing new.
func Sync(ctx context.Context, url, dest string) error {
	if url == "" {
		return fmt.Errorf("partialsrepo: empty repository url")
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("partialsrepo: create %s: %w", filepath.Dir(dest), err)
	}

	gitDir := filepath.Join(dest, ".git")
	if _, err := os.Stat(gitDir); os.IsNotExist(err) {
		if _, statErr := os.Stat(dest); statErr == nil {
			if err := os.RemoveAll(dest); err != nil {
				return fmt.Errorf("partialsrepo: remove stale %s: %w", dest, err)
			}
		}
		if _, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{URL: url}); err != nil {
			return fmt.Errorf("partialsrepo: clone %s: %w", url, err)
		}
		return nil
	}

	repo, err := git.PlainOpen(dest)
	if err != nil {
		return fmt.Errorf("partialsrepo: open %s: %w", dest, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("partialsrepo: worktree %s: %w", dest, err)
	}

	if err := worktree.PullContext(ctx, &git.PullOptions{}); err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil
		}
		return fmt.Errorf("partialsrepo: pull %s: %w", dest, err)
	}
	return nil
}

// Resolve synchronizes url into a deterministic subdirectory of cacheDir
// (keyed by a hash of url, so repeated calls with the same url reuse the
// same checkout) and returns that directory's path.
func Resolve(ctx context.Context, url, cacheDir string) (string, error) {
	sum := sha256.Sum256([]byte(url))
	dest := filepath.Join(cacheDir, hex.EncodeToString(sum[:])[:16])
	if err := Sync(ctx, url, dest); err != nil {
		return "", err
	}
	return dest, nil
}
