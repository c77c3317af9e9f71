package orchestrator

import (
	"context"
	"fmt"

	"github.com/mrdunski/subscription-updater/logger"
	"github.com/mrdunski/subscription-updater/model"
	"github.com/mrdunski/subscription-updater/queue"
)

type Locker interface {
	Lock(ctx context.Context) error
	Unlock() error
}

// Pauser is held for the length of every cycle, so sources watching the
// working tree ignore writes made by the cycle itself.
type Pauser interface {
	Hold()
	Release() error
}

// Dispatcher serializes cycles of one trigger group through a queue and,
// when Lock is set, across processes as well.
type Dispatcher struct {
	Queue        *queue.Queue
	Orchestrator *Orchestrator
	Lock         Locker
	Pause        Pauser
	// AfterRun is called inside the group's turn, after every cycle.
	AfterRun func(trigger model.Trigger, result Result, err error)
}

func (d Dispatcher) Dispatch(ctx context.Context, trigger model.Trigger) (Result, error) {
	var result Result
	err := d.Queue.Do(ctx, d.Orchestrator.Group, func(ctx context.Context) error {
		if d.Lock != nil {
			if err := d.Lock.Lock(ctx); err != nil {
				return fmt.Errorf("failed to acquire run lock: %w", err)
			}
			defer func() {
				if err := d.Lock.Unlock(); err != nil {
					logger.WithComponent("dispatcher").WithError(err).Warn("Failed to release run lock")
				}
			}()
		}

		if d.Pause != nil {
			d.Pause.Hold()
			defer func() {
				if err := d.Pause.Release(); err != nil {
					logger.WithComponent("dispatcher").WithError(err).Warn("Failed to rebaseline paused trigger source")
				}
			}()
		}

		var runErr error
		result, runErr = d.Orchestrator.Run(ctx, trigger)
		if d.AfterRun != nil {
			d.AfterRun(trigger, result, runErr)
		}
		return runErr
	})

	return result, err
}
