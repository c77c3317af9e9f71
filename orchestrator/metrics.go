package orchestrator

import (
	"time"

	"github.com/mrdunski/subscription-updater/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeFailed     = "failed"
	outcomeUnchanged  = "unchanged"
	outcomePublished  = "published"
	outcomePushFailed = "push_failed"
)

var (
	runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "updater",
		Name:      "runs_total",
		Help:      "Update cycles by trigger and outcome.",
	}, []string{"trigger", "outcome"})
	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "updater",
		Name:      "run_duration_seconds",
		Help:      "Duration of update cycles.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	}, []string{"trigger"})
	commitsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "updater",
		Name:      "commits_total",
		Help:      "Commits created by update cycles.",
	})
	syncFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "updater",
		Name:      "sync_failures_total",
		Help:      "Failed fetches or merges before push.",
	})
	pushFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "updater",
		Name:      "push_failures_total",
		Help:      "Rejected or failed pushes.",
	})
)

func observeRun(kind model.TriggerKind, outcome string, duration time.Duration) {
	runs.WithLabelValues(string(kind), outcome).Inc()
	runDuration.WithLabelValues(string(kind)).Observe(duration.Seconds())
}
