// Package gitinit turns a freshly materialized site into a git repository
// with a single initial commit.
package gitinit

import (
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/jonboulle/clockwork"

	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
)

const (
	authorName    = "jekyll-studio"
	authorEmail   = "jekyll-studio@localhost"
	commitMessage = "Initial site generated by jekyll-studio"
)

// Init creates a repository in dir, stages every file and commits it.
// It returns the commit hash. A directory that is already a repository is
// left alone and reported with an empty hash.
func Init(dir string, clock clockwork.Clock) (plumbing.Hash, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	repo, err := git.PlainInit(dir, false)
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		return plumbing.ZeroHash, nil
	}
	if err != nil {
		return plumbing.ZeroHash, serrors.InternalError("git init failed", err).WithContext("path", dir)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, serrors.InternalError("open worktree failed", err).WithContext("path", dir)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return plumbing.ZeroHash, serrors.InternalError("git add failed", err).WithContext("path", dir)
	}

	hash, err := wt.Commit(commitMessage, &git.CommitOptions{
		Author: &object.Signature{Name: authorName, Email: authorEmail, When: clock.Now()},
	})
	if err != nil {
		return plumbing.ZeroHash, serrors.InternalError("git commit failed", err).WithContext("path", dir)
	}
	return hash, nil
}
