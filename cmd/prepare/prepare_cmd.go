package prepare

import (
	"time"

	"github.com/mrdunski/subscription-updater/model"
	"github.com/mrdunski/subscription-updater/orchestrator"
	"github.com/mrdunski/subscription-updater/workspace"
)

type Cmd struct {
	workspace.Workspace
	BlockedUsers string `arg:"" help:"Comma separated blocked users."`
}

func (c Cmd) Run() error {
	orch := orchestrator.Orchestrator{
		Volume:           c.Volume(),
		BlockedUsersFile: c.BlockedUsersFile,
	}

	return orch.Prepare(model.ManualRun(time.Now(), c.BlockedUsers, false))
}
