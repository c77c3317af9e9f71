package trigger

import (
	"context"
	"fmt"
	"time"

	"github.com/mrdunski/subscription-updater/logger"
	"github.com/mrdunski/subscription-updater/model"
	"github.com/robfig/cron/v3"
)

// Scheduler emits scheduled ticks for standard cron expressions and
// descriptors such as "@hourly" or "@every 5m".
type Scheduler struct {
	specs     []string
	schedules []cron.Schedule
}

func NewScheduler(specs ...string) (*Scheduler, error) {
	s := &Scheduler{}
	for _, spec := range specs {
		schedule, err := cron.ParseStandard(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
		}
		s.specs = append(s.specs, spec)
		s.schedules = append(s.schedules, schedule)
	}

	return s, nil
}

func (s *Scheduler) Empty() bool {
	return len(s.schedules) == 0
}

// Next returns the earliest activation after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	var next time.Time
	for _, schedule := range s.schedules {
		candidate := schedule.Next(t)
		if next.IsZero() || candidate.Before(next) {
			next = candidate
		}
	}

	return next
}

// Run blocks until ctx ends.
func (s *Scheduler) Run(ctx context.Context, out chan<- model.Trigger) {
	log := logger.WithComponent("scheduler")
	c := cron.New()

	for i, schedule := range s.schedules {
		spec := s.specs[i]
		c.Schedule(schedule, cron.FuncJob(func() {
			log.WithField("schedule", spec).Debug("Schedule fired")
			select {
			case out <- model.ScheduledTick(time.Now()):
			case <-ctx.Done():
			}
		}))
	}

	c.Start()
	log.Infof("Scheduler started with %v", s.specs)
	<-ctx.Done()
	<-c.Stop().Done()
	log.Info("Scheduler stopped")
}
