package telemetry

import (
	"strings"

	"github.com/mrdunski/subscription-updater/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const metricPrefix = "updater_"

type printer struct {
	gatherer prometheus.Gatherer
	prefix   string
}

func (p printer) Record() {
	log := logger.WithComponent("telemetry")

	gatherer := p.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	metrics, err := gatherer.Gather()

	if err != nil {
		log.WithError(err).Error("Failed to gather metrics")
		return
	}

	for _, metricFamily := range metrics {
		if !strings.HasPrefix(metricFamily.GetName(), p.prefix) {
			continue
		}
		for _, metric := range metricFamily.Metric {
			log.WithFields(logrus.Fields{
				"name":   metricFamily.GetName(),
				"help":   metricFamily.GetHelp(),
				"labels": metric.GetLabel(),
			}).Infof("metric: %v", metric)
		}
	}
}
