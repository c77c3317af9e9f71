package run

import (
	"context"
	"fmt"
	"time"

	"github.com/mrdunski/subscription-updater/logger"
	"github.com/mrdunski/subscription-updater/model"
	"github.com/mrdunski/subscription-updater/orchestrator"
	"github.com/mrdunski/subscription-updater/procedure"
	"github.com/mrdunski/subscription-updater/queue"
	"github.com/mrdunski/subscription-updater/repository"
	"github.com/mrdunski/subscription-updater/workspace"
)

type Cmd struct {
	workspace.Workspace
	repository.GitConfig
	procedure.ScriptConfig
	orchestrator.CycleConfig
	Trigger      string   `help:"Kind of trigger starting the cycle." enum:"manual,schedule,file-change" default:"manual"`
	BlockedUsers string   `help:"Comma separated blocked users written before the update (manual trigger only)." optional:""`
	Fast         bool     `help:"Ask the update procedure to skip slow verification." optional:""`
	ChangedPath  []string `help:"Changed paths reported by a file-change trigger." optional:"" sep:"none"`
}

func (c Cmd) trigger(at time.Time) (model.Trigger, error) {
	kind, err := model.ParseTriggerKind(c.Trigger)
	if err != nil {
		return model.Trigger{}, err
	}

	switch kind {
	case model.Manual:
		return model.ManualRun(at, c.BlockedUsers, c.Fast), nil
	case model.FileChange:
		return model.FileChanged(at, c.Fast, c.ChangedPath...), nil
	default:
		trigger := model.ScheduledTick(at)
		trigger.FastMode = c.Fast
		return trigger, nil
	}
}

func (c Cmd) Run(ctx context.Context) error {
	trigger, err := c.trigger(time.Now())
	if err != nil {
		return err
	}

	orch, err := c.Orchestrator(c.GitConfig, c.ScriptConfig, c.CycleConfig)
	if err != nil {
		return err
	}

	q := queue.New(1)
	defer q.Close()
	dispatcher := orchestrator.Dispatcher{Queue: q, Orchestrator: orch, Lock: c.RunLock(orch.Group)}

	result, err := dispatcher.Dispatch(ctx, trigger)
	if err != nil {
		return fmt.Errorf("update cycle failed: %w", err)
	}

	if result.Committed && !result.Commit.Pushed {
		logger.Get().Warnf("Commit %s was created but not pushed", result.Commit.Hash)
	}
	return nil
}
