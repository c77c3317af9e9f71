package status

import (
	"fmt"

	"github.com/mrdunski/subscription-updater/repository"
	"github.com/mrdunski/subscription-updater/workspace"
)

type Cmd struct {
	workspace.Workspace
	repository.GitConfig
}

func (c Cmd) Run() error {
	repo, err := c.OpenRepository(c.GitConfig)
	if err != nil {
		return err
	}

	changes, err := repo.Changes()
	if err != nil {
		return fmt.Errorf("failed to calculate changes: %w", err)
	}
	if changes.Empty() {
		println("No changes to commit")
		return nil
	}

	println("Detected changes:")
	for _, path := range changes.Paths {
		fmt.Printf("* %s\n", path)
	}

	return nil
}
