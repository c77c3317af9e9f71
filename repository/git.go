package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	gitConfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/mrdunski/subscription-updater/logger"
	"github.com/mrdunski/subscription-updater/model"
)

// Git implements Repository on a local clone.
type Git struct {
	repo   *git.Repository
	path   string
	cfg    GitConfig
	merger Merger
}

func Open(path string, cfg GitConfig) (*Git, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}

	return New(repo, path, cfg, CLIMerger{Binary: cfg.GitBinary, Author: cfg.Author()})
}

func New(repo *git.Repository, path string, cfg GitConfig, merger Merger) (*Git, error) {
	if cfg.Branch == "" {
		head, err := repo.Head()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve current branch: %w", err)
		}
		if !head.Name().IsBranch() {
			return nil, fmt.Errorf("HEAD is detached at %s, branch must be configured", head.Hash())
		}
		cfg.Branch = head.Name().Short()
	}

	return &Git{repo: repo, path: path, cfg: cfg, merger: merger}, nil
}

func (g *Git) Branch() string {
	return g.cfg.Branch
}

func (g *Git) Changes() (model.ChangeSet, error) {
	status, err := g.status()
	if err != nil {
		return model.ChangeSet{}, err
	}

	var paths []string
	for path, fileStatus := range status {
		if isChanged(fileStatus) {
			paths = append(paths, path)
		}
	}

	return model.NewChangeSet(paths...), nil
}

func (g *Git) Commit(message string, when time.Time) (model.CommitRecord, error) {
	worktree, err := g.repo.Worktree()
	if err != nil {
		return model.CommitRecord{}, fmt.Errorf("failed to get working tree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return model.CommitRecord{}, fmt.Errorf("failed to get status: %w", err)
	}

	var paths []string
	for path, fileStatus := range status {
		if !isChanged(fileStatus) {
			continue
		}
		paths = append(paths, path)
		if err := stage(worktree, path, fileStatus); err != nil {
			return model.CommitRecord{}, fmt.Errorf("failed to stage {%s}: %w", path, err)
		}
	}
	if len(paths) == 0 {
		return model.CommitRecord{}, ErrNothingToCommit
	}

	author := g.cfg.Author()
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: author.Name, Email: author.Email, When: when},
	})
	if err != nil {
		return model.CommitRecord{}, fmt.Errorf("failed to commit: %w", err)
	}

	return model.CommitRecord{
		Hash:    hash.String(),
		Message: message,
		Author:  author,
		Time:    when,
		Paths:   model.NewChangeSet(paths...).Paths,
	}, nil
}

func (g *Git) Sync(ctx context.Context) error {
	log := logger.WithComponent("repository")

	err := g.repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: g.cfg.Remote,
		RefSpecs:   []gitConfig.RefSpec{g.fetchSpec()},
		Auth:       g.auth(),
	})
	switch {
	case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate):
	case errors.Is(err, transport.ErrEmptyRemoteRepository), errors.Is(err, git.NoMatchingRefSpecError{}):
		log.Debugf("Nothing to fetch from %s/%s: %v", g.cfg.Remote, g.cfg.Branch, err)
		return nil
	default:
		return fmt.Errorf("failed to fetch %s/%s: %w", g.cfg.Remote, g.cfg.Branch, err)
	}

	remoteName := plumbing.NewRemoteReferenceName(g.cfg.Remote, g.cfg.Branch)
	remoteRef, err := g.repo.Reference(remoteName, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		log.Debugf("Remote branch %s doesn't exist yet", remoteName.Short())
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", remoteName, err)
	}

	diverged, err := g.diverged(remoteRef.Hash())
	if err != nil {
		return err
	}
	if !diverged {
		return nil
	}

	log.Infof("Remote %s has diverged, merging with local changes preferred", remoteName.Short())
	if err := g.merger.Merge(ctx, g.path, remoteName.String()); err != nil {
		return fmt.Errorf("%w: %v", ErrMergeFailed, err)
	}

	return nil
}

func (g *Git) Push(ctx context.Context) error {
	branch := plumbing.NewBranchReferenceName(g.cfg.Branch)
	err := g.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: g.cfg.Remote,
		RefSpecs:   []gitConfig.RefSpec{gitConfig.RefSpec(branch.String() + ":" + branch.String())},
		Auth:       g.auth(),
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPushRejected, err)
	}

	return nil
}

// diverged reports whether remote holds commits that local HEAD lacks.
func (g *Git) diverged(remote plumbing.Hash) (bool, error) {
	head, err := g.repo.Head()
	if err != nil {
		return false, fmt.Errorf("failed to get repository head: %w", err)
	}
	if head.Hash() == remote {
		return false, nil
	}

	remoteCommit, err := g.repo.CommitObject(remote)
	if err != nil {
		return false, fmt.Errorf("failed to load remote commit %s: %w", remote, err)
	}
	headCommit, err := g.repo.CommitObject(head.Hash())
	if err != nil {
		return false, fmt.Errorf("failed to load head commit %s: %w", head.Hash(), err)
	}

	behind, err := remoteCommit.IsAncestor(headCommit)
	if err != nil {
		return false, fmt.Errorf("failed to compare history: %w", err)
	}

	return !behind, nil
}

func (g *Git) status() (git.Status, error) {
	worktree, err := g.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get working tree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	return status, nil
}

func (g *Git) fetchSpec() gitConfig.RefSpec {
	return gitConfig.RefSpec(fmt.Sprintf("+%s:%s",
		plumbing.NewBranchReferenceName(g.cfg.Branch),
		plumbing.NewRemoteReferenceName(g.cfg.Remote, g.cfg.Branch),
	))
}

func (g *Git) auth() transport.AuthMethod {
	if g.cfg.GitUsername == "" || g.cfg.GitToken == "" {
		return nil
	}

	return &http.BasicAuth{Username: g.cfg.GitUsername, Password: g.cfg.GitToken}
}

func isChanged(status *git.FileStatus) bool {
	return status.Staging != git.Unmodified || status.Worktree != git.Unmodified
}

func stage(worktree *git.Worktree, path string, status *git.FileStatus) error {
	switch status.Worktree {
	case git.Unmodified:
		return nil
	case git.Deleted:
		_, err := worktree.Remove(path)
		return err
	default:
		_, err := worktree.Add(path)
		return err
	}
}
