package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/mrdunski/subscription-updater/logger"
)

var ErrClosed = errors.New("queue is closed")

type job struct {
	ctx  context.Context
	fn   func(ctx context.Context) error
	done chan error
}

// Queue runs jobs of one group strictly one after another in submission order.
// Different groups run independently.
type Queue struct {
	mutex   sync.RWMutex
	groups  map[string]chan job
	closed  bool
	closing chan struct{}
	senders sync.WaitGroup
	workers sync.WaitGroup
	backlog int
}

func New(backlog int) *Queue {
	if backlog < 1 {
		backlog = 1
	}
	return &Queue{groups: map[string]chan job{}, closing: make(chan struct{}), backlog: backlog}
}

// Group identifies runs that must never overlap.
func Group(workflow, branch string) string {
	return workflow + "@" + branch
}

// Do waits for its turn in group, runs fn and returns its error. A job whose
// context ends while it is still queued is skipped; running jobs are never
// interrupted by later submissions.
func (q *Queue) Do(ctx context.Context, group string, fn func(ctx context.Context) error) error {
	if err := q.ensureWorker(group); err != nil {
		return err
	}

	done := make(chan error, 1)
	if err := q.enqueue(ctx, group, job{ctx: ctx, fn: fn, done: done}); err != nil {
		return err
	}

	return <-done
}

// Close stops accepting jobs and waits until queued ones are finished.
// Submitters still waiting for room in a full group get ErrClosed.
func (q *Queue) Close() {
	q.mutex.Lock()
	if q.closed {
		q.mutex.Unlock()
		q.workers.Wait()
		return
	}
	q.closed = true
	close(q.closing)
	q.mutex.Unlock()

	q.senders.Wait()
	q.mutex.RLock()
	for _, jobs := range q.groups {
		close(jobs)
	}
	q.mutex.RUnlock()

	q.workers.Wait()
}

func (q *Queue) ensureWorker(group string) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if q.closed {
		return ErrClosed
	}
	if _, ok := q.groups[group]; !ok {
		jobs := make(chan job, q.backlog)
		q.groups[group] = jobs
		q.workers.Add(1)
		go q.run(group, jobs)
	}

	return nil
}

// enqueue only looks the group up under the lock; waiting for room in a full
// group must not block other groups or Close.
func (q *Queue) enqueue(ctx context.Context, group string, j job) error {
	q.mutex.RLock()
	if q.closed {
		q.mutex.RUnlock()
		return ErrClosed
	}
	jobs := q.groups[group]
	q.senders.Add(1)
	q.mutex.RUnlock()
	defer q.senders.Done()

	queuedJobs.WithLabelValues(group).Inc()
	select {
	case jobs <- j:
		return nil
	case <-ctx.Done():
		queuedJobs.WithLabelValues(group).Dec()
		return ctx.Err()
	case <-q.closing:
		queuedJobs.WithLabelValues(group).Dec()
		return ErrClosed
	}
}

func (q *Queue) run(group string, jobs <-chan job) {
	defer q.workers.Done()
	log := logger.WithComponent("queue").WithField("group", group)

	for j := range jobs {
		queuedJobs.WithLabelValues(group).Dec()
		if err := j.ctx.Err(); err != nil {
			log.Warn("Skipping run cancelled while queued")
			j.done <- err
			continue
		}
		j.done <- j.fn(j.ctx)
	}
}
