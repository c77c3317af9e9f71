package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/mrdunski/subscription-updater/files"
	"github.com/mrdunski/subscription-updater/logger"
	"github.com/mrdunski/subscription-updater/model"
	"github.com/mrdunski/subscription-updater/procedure"
	"github.com/mrdunski/subscription-updater/repository"
)

const timestampLayout = "2006-01-02 15:04:05"

type Journal interface {
	Append(commit model.CommitRecord) error
}

type CycleConfig struct {
	Workflow      string `help:"Workflow identity; runs of one workflow and branch never overlap." env:"WORKFLOW" default:"update-subscriptions" group:"Orchestrator"`
	CommitMessage string `help:"Summary placed before the timestamp of automatic commits." env:"COMMIT_MESSAGE" default:"Auto update subscriptions" group:"Orchestrator"`
}

// Orchestrator drives update cycles of one working tree.
type Orchestrator struct {
	Group            string
	Volume           files.Volume
	BlockedUsersFile string
	Procedure        procedure.Procedure
	Repository       repository.Repository
	Journal          Journal
	// BlockedUsers is the secret list handed to the procedure, not the manual parameter.
	BlockedUsers  string
	MessagePrefix string
	Now           func() time.Time
}

type Result struct {
	Changes   model.ChangeSet
	Commit    model.CommitRecord
	Committed bool
}

func CommitMessage(prefix string, when time.Time) string {
	return fmt.Sprintf("%s - %s", prefix, when.Format(timestampLayout))
}

// Run executes prepare, update, change detection and publish strictly in
// this order. Only a non-empty change set is published.
func (o *Orchestrator) Run(ctx context.Context, trigger model.Trigger) (Result, error) {
	log := logger.WithRun(o.Group, trigger)
	started := o.now()
	outcome := outcomeFailed
	defer func() {
		observeRun(trigger.Kind, outcome, o.now().Sub(started))
	}()

	log.Info("Starting update cycle")
	if err := o.Prepare(trigger); err != nil {
		return Result{}, fmt.Errorf("failed to prepare inputs: %w", err)
	}

	if err := o.RunUpdate(ctx, trigger); err != nil {
		log.WithError(err).Error("Update procedure failed, nothing will be published")
		return Result{}, err
	}

	changes, err := o.DetectChanges()
	if err != nil {
		return Result{}, fmt.Errorf("failed to detect changes: %w", err)
	}
	if changes.Empty() {
		outcome = outcomeUnchanged
		log.Info("No changes to commit")
		return Result{Changes: changes}, nil
	}
	log.Infof("Detected changes: %v", changes)

	record, err := o.Publish(ctx, trigger, changes)
	if err != nil {
		return Result{Changes: changes}, err
	}

	outcome = outcomePublished
	if !record.Pushed {
		outcome = outcomePushFailed
	}
	log.Infof("Done. Committed %d file(s) as %v", changes.Len(), record)

	return Result{Changes: changes, Commit: record, Committed: true}, nil
}

// Prepare overwrites the blocked-user file with identifiers of a manual trigger.
func (o *Orchestrator) Prepare(trigger model.Trigger) error {
	ids := trigger.BlockedUserList()
	if len(ids) == 0 {
		return nil
	}

	logger.WithRun(o.Group, trigger).Infof("Writing %d blocked user(s) to %s", len(ids), o.BlockedUsersFile)
	return o.Volume.WriteLines(o.BlockedUsersFile, ids)
}

func (o *Orchestrator) RunUpdate(ctx context.Context, trigger model.Trigger) error {
	return o.Procedure.Run(ctx, model.UpdateEnv{
		BlockedUsers: o.BlockedUsers,
		FastMode:     trigger.FastMode,
	})
}

func (o *Orchestrator) DetectChanges() (model.ChangeSet, error) {
	return o.Repository.Changes()
}

// Publish commits changes and pushes them. Only a failed commit is an error:
// sync and push problems are logged and reflected in CommitRecord.Pushed.
func (o *Orchestrator) Publish(ctx context.Context, trigger model.Trigger, changes model.ChangeSet) (model.CommitRecord, error) {
	log := logger.WithRun(o.Group, trigger)
	if changes.Empty() {
		return model.CommitRecord{}, repository.ErrNothingToCommit
	}

	when := o.now()
	record, err := o.Repository.Commit(CommitMessage(o.MessagePrefix, when), when)
	if err != nil {
		return model.CommitRecord{}, fmt.Errorf("failed to commit changes: %w", err)
	}
	record.Trigger = trigger.Kind
	commitsCreated.Inc()

	if err := o.Repository.Sync(ctx); err != nil {
		syncFailures.Inc()
		log.WithError(err).Warn("Failed to synchronize with remote, pushing anyway")
	}

	if err := o.Repository.Push(ctx); err != nil {
		pushFailures.Inc()
		log.WithError(err).Error("Failed to push changes")
	} else {
		record.Pushed = true
		log.Infof("Pushed %s to %s", record.Hash, o.Repository.Branch())
	}

	if o.Journal != nil {
		if err := o.Journal.Append(record); err != nil {
			log.WithError(err).Warn("Failed to journal commit")
		}
	}

	return record, nil
}

func (o *Orchestrator) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}
