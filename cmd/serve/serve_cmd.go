package serve

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mrdunski/subscription-updater/logger"
	"github.com/mrdunski/subscription-updater/model"
	"github.com/mrdunski/subscription-updater/orchestrator"
	"github.com/mrdunski/subscription-updater/procedure"
	"github.com/mrdunski/subscription-updater/queue"
	"github.com/mrdunski/subscription-updater/repository"
	"github.com/mrdunski/subscription-updater/server"
	"github.com/mrdunski/subscription-updater/telemetry"
	"github.com/mrdunski/subscription-updater/trigger"
	"github.com/mrdunski/subscription-updater/workspace"
	"github.com/prometheus/client_golang/prometheus"
)

const pendingTriggers = 16

type Cmd struct {
	workspace.Workspace
	repository.GitConfig
	procedure.ScriptConfig
	orchestrator.CycleConfig
	server.ListenConfig
	Schedule      []string      `help:"Cron expression starting a scheduled cycle (repeatable)." env:"SCHEDULE" optional:"" sep:"none" group:"Triggers"`
	Watch         []string      `help:"Files starting a cycle when modified (tracked inputs by default)." optional:"" sep:"none" group:"Triggers"`
	NoWatch       bool          `help:"Disable file change triggers." optional:"" group:"Triggers"`
	WatchInterval time.Duration `help:"How often watched files are checked." env:"WATCH_INTERVAL" default:"30s" group:"Triggers"`
	FastOnChange  bool          `help:"Run file change cycles in fast mode." env:"FAST_ON_CHANGE" default:"true" negatable:"" group:"Triggers"`
}

func (c Cmd) watched() []string {
	if c.NoWatch {
		return nil
	}
	if len(c.Watch) > 0 {
		return c.Watch
	}

	return c.TrackedFiles()
}

func (c Cmd) Run(ctx context.Context, recorder telemetry.ContinuousRecorder) error {
	log := logger.WithComponent("serve")

	scheduler, err := trigger.NewScheduler(c.Schedule...)
	if err != nil {
		return err
	}
	watcher := trigger.NewWatcher(c.Volume(), c.WatchInterval, c.FastOnChange, c.watched()...)
	if scheduler.Empty() && watcher.Empty() && c.Listen == "" {
		return fmt.Errorf("nothing to serve: configure --schedule, --watch or --listen")
	}

	orch, err := c.Orchestrator(c.GitConfig, c.ScriptConfig, c.CycleConfig)
	if err != nil {
		return err
	}

	q := queue.New(1)
	dispatcher := orchestrator.Dispatcher{
		Queue:        q,
		Orchestrator: orch,
		Lock:         c.RunLock(orch.Group),
		Pause:        watcher,
		AfterRun: func(_ model.Trigger, _ orchestrator.Result, _ error) {
			recorder.Record()
		},
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	triggers := make(chan model.Trigger)
	var sources sync.WaitGroup
	serverErrs := make(chan error, 1)

	if !scheduler.Empty() {
		sources.Add(1)
		go func() {
			defer sources.Done()
			scheduler.Run(ctx, triggers)
		}()
	}
	if !watcher.Empty() {
		sources.Add(1)
		go func() {
			defer sources.Done()
			if err := watcher.Run(ctx, triggers); err != nil {
				log.WithError(err).Error("Watcher stopped")
			}
		}()
	}
	if c.Listen != "" {
		srv := server.New(triggers, prometheus.DefaultGatherer)
		sources.Add(1)
		go func() {
			defer sources.Done()
			serverErrs <- srv.ListenAndServe(ctx, c.Listen)
		}()
	}

	go recorder.ContinuousRecord(ctx)

	pending := make(chan model.Trigger, pendingTriggers)
	worked := make(chan struct{})
	go func() {
		defer close(worked)
		dispatchAll(ctx, dispatcher, pending)
	}()

	var serveErr error
	log.Infof("Serving group %s", orch.Group)
loop:
	for {
		select {
		case t := <-triggers:
			select {
			case pending <- t:
			case <-ctx.Done():
				break loop
			}
		case err := <-serverErrs:
			if err != nil {
				serveErr = fmt.Errorf("dispatch API failed: %w", err)
				break loop
			}
		case <-ctx.Done():
			break loop
		}
	}

	log.Info("Shutting down, finishing the running cycle")
	cancel()
	stopped := make(chan struct{})
	go func() {
		sources.Wait()
		close(stopped)
	}()
drain:
	for {
		select {
		case t := <-triggers:
			logger.WithRun(orch.Group, t).Warn("Dropping trigger received during shutdown")
		case <-stopped:
			break drain
		}
	}
	close(pending)
	<-worked
	q.Close()

	return serveErr
}

// dispatchAll runs triggers in arrival order. Once ctx ends, the running cycle
// is finished with its own context and triggers still pending are dropped.
func dispatchAll(ctx context.Context, dispatcher orchestrator.Dispatcher, pending <-chan model.Trigger) {
	runCtx := context.WithoutCancel(ctx)
	for t := range pending {
		log := logger.WithRun(dispatcher.Orchestrator.Group, t)
		if ctx.Err() != nil {
			log.Warn("Dropping trigger received before shutdown")
			continue
		}
		if _, err := dispatcher.Dispatch(runCtx, t); err != nil {
			log.WithError(err).Error("Update cycle failed")
		}
	}
}
