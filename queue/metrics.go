package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var queuedJobs = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "updater",
	Subsystem: "queue",
	Name:      "waiting_runs",
	Help:      "Runs waiting for their turn in a trigger group.",
}, []string{"group"})
