package trigger

import (
	"context"
	"sync"
	"time"

	"github.com/mrdunski/subscription-updater/files"
	"github.com/mrdunski/subscription-updater/logger"
	"github.com/mrdunski/subscription-updater/model"
)

// Watcher polls tracked files and emits a file-change trigger when any of
// them differs from the baseline.
type Watcher struct {
	volume   files.Volume
	paths    []string
	interval time.Duration
	fast     bool

	mutex    sync.Mutex
	baseline model.HashedFiles
	// held counts running cycles; generation moves on every Hold so polls
	// started before it are discarded.
	held       int
	generation int
}

func NewWatcher(volume files.Volume, interval time.Duration, fast bool, paths ...string) *Watcher {
	return &Watcher{volume: volume, interval: interval, fast: fast, paths: paths}
}

func (w *Watcher) Empty() bool {
	return len(w.paths) == 0
}

// Reset takes the current state of tracked files as the new baseline.
func (w *Watcher) Reset() error {
	snapshot, err := w.volume.Snapshot(w.paths...)
	if err != nil {
		return err
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.baseline = snapshot

	return nil
}

// Poll compares tracked files with the baseline and moves the baseline on.
// Nothing is reported while the watcher is held.
func (w *Watcher) Poll(at time.Time) (model.Trigger, bool, error) {
	w.mutex.Lock()
	generation := w.generation
	held := w.held > 0
	w.mutex.Unlock()
	if held {
		return model.Trigger{}, false, nil
	}

	snapshot, err := w.volume.Snapshot(w.paths...)
	if err != nil {
		return model.Trigger{}, false, err
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.held > 0 || w.generation != generation {
		return model.Trigger{}, false, nil
	}
	changed := w.baseline.ChangedPaths(snapshot)
	w.baseline = snapshot
	if len(changed) == 0 {
		return model.Trigger{}, false, nil
	}

	return model.FileChanged(at, w.fast, changed...), true, nil
}

// Hold suppresses polling while a cycle writes to tracked files.
func (w *Watcher) Hold() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.held++
	w.generation++
}

// Release ends a Hold and takes the files left by the cycle as the baseline.
func (w *Watcher) Release() error {
	snapshot, err := w.volume.Snapshot(w.paths...)

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.held > 0 {
		w.held--
	}
	w.generation++
	if err != nil {
		return err
	}
	w.baseline = snapshot

	return nil
}

// Run blocks until ctx ends.
func (w *Watcher) Run(ctx context.Context, out chan<- model.Trigger) error {
	log := logger.WithComponent("watcher")
	if err := w.Reset(); err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	log.Infof("Watching %v every %s", w.paths, w.interval)

	for {
		select {
		case <-ctx.Done():
			return nil
		case at := <-ticker.C:
			trigger, changed, err := w.Poll(at)
			if err != nil {
				log.WithError(err).Warn("Failed to check tracked files")
				continue
			}
			if !changed {
				continue
			}
			log.Infof("Tracked files changed: %v", trigger.Paths)
			select {
			case out <- trigger:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
