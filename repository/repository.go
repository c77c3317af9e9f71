//go:generate mockgen -destination=mock_repository/repository.go . Repository
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mrdunski/subscription-updater/model"
)

var (
	ErrNothingToCommit = errors.New("nothing to commit")
	ErrMergeFailed     = errors.New("merge with remote failed")
	ErrPushRejected    = errors.New("push rejected")
)

// Repository is the versioned working tree updated by the orchestrator.
type Repository interface {
	// Changes compares the working tree with the last commit.
	Changes() (model.ChangeSet, error)
	// Commit stages every change and records it under the automation identity.
	Commit(message string, when time.Time) (model.CommitRecord, error)
	// Sync brings remote history in, resolving conflicts in favor of local content.
	Sync(ctx context.Context) error
	Push(ctx context.Context) error
	Branch() string
}

type GitConfig struct {
	Remote      string `help:"Remote to synchronize with." env:"GIT_REMOTE" default:"origin" group:"Git"`
	Branch      string `help:"Branch to publish (current branch by default)." env:"GIT_BRANCH" optional:"" group:"Git"`
	AuthorName  string `help:"Name of the automation actor." env:"GIT_AUTHOR_NAME" default:"github-actions[bot]" group:"Git"`
	AuthorEmail string `help:"Email of the automation actor." env:"GIT_AUTHOR_EMAIL" default:"41898282+github-actions[bot]@users.noreply.github.com" group:"Git"`
	GitUsername string `help:"Username for HTTPS remotes." env:"GIT_USERNAME" optional:"" group:"Git"`
	GitToken    string `help:"Token for HTTPS remotes." env:"GIT_TOKEN" optional:"" group:"Git"`
	GitBinary   string `help:"Git executable used for merges." env:"GIT_BINARY" default:"git" group:"Git"`
}

func (c GitConfig) Author() model.Signature {
	return model.Signature{Name: c.AuthorName, Email: c.AuthorEmail}
}
