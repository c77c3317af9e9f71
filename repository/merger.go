package repository

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mrdunski/subscription-updater/logger"
	"github.com/mrdunski/subscription-updater/model"
)

// Merger integrates ref into the working tree at dir. Conflicting hunks keep
// the local side.
type Merger interface {
	Merge(ctx context.Context, dir, ref string) error
}

// CLIMerger runs "git merge -X ours". go-git only supports fast-forward merges.
type CLIMerger struct {
	Binary string
	Author model.Signature
}

func (m CLIMerger) Merge(ctx context.Context, dir, ref string) error {
	out, err := m.git(ctx, dir, "merge", "--no-edit", "-X", "ours", ref)
	if err == nil {
		return nil
	}

	if abortOut, abortErr := m.git(ctx, dir, "merge", "--abort"); abortErr != nil {
		logger.WithComponent("repository").
			WithError(abortErr).
			Debugf("git merge --abort: %s", strings.TrimSpace(abortOut))
	}

	return fmt.Errorf("git merge %s: %w: %s", ref, err, strings.TrimSpace(out))
}

func (m CLIMerger) git(ctx context.Context, dir string, args ...string) (string, error) {
	binary := m.Binary
	if binary == "" {
		binary = "git"
	}
	full := append([]string{
		"-C", dir,
		"-c", "user.name=" + m.Author.Name,
		"-c", "user.email=" + m.Author.Email,
	}, args...)

	out, err := exec.CommandContext(ctx, binary, full...).CombinedOutput()
	return string(out), err
}
