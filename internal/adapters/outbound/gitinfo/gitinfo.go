package gitinfo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const shortHashLen = 7

// DirtySuffix marks a config file with uncommitted changes.
const DirtySuffix = "+dirty"

// Revisions implements domain.RevisionSource using go-git.
type Revisions struct{}

func New() *Revisions {
	return &Revisions{}
}

// Revision returns the short HEAD hash of the repository containing path, with
// DirtySuffix when path itself differs from HEAD. Outside a repository, or in one
// without commits, it returns "".
func (r *Revisions) Revision(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	dir := abs
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	rev := head.Hash().String()[:shortHashLen]

	if dir == abs {
		return rev, nil
	}
	dirty, err := fileDirty(repo, abs)
	if err != nil {
		return "", err
	}
	if dirty {
		rev += DirtySuffix
	}
	return rev, nil
}

func fileDirty(repo *git.Repository, abs string) (bool, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("opening worktree: %w", err)
	}
	rel, err := filepath.Rel(wt.Filesystem.Root(), abs)
	if err != nil {
		return false, fmt.Errorf("locating %s in worktree: %w", abs, err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("reading worktree status: %w", err)
	}
	fs, ok := status[filepath.ToSlash(rel)]
	if !ok {
		return false, nil
	}
	return fs.Worktree != git.Unmodified || fs.Staging != git.Unmodified, nil
}
