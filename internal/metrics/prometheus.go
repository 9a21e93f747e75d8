package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	admissionDecisions *prometheus.CounterVec
	checkDuration      prometheus.Histogram
	fusionEventsIn     prometheus.Counter
	fusionEventsOut    prometheus.Counter
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		admissionDecisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storm_admission_decisions_total",
				Help: "Total number of admission decisions by outcome",
			},
			[]string{"outcome"},
		),
		checkDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "storm_admission_check_duration_seconds",
				Help:    "Time taken to run one admission check",
				Buckets: prometheus.DefBuckets,
			},
		),
		fusionEventsIn: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "storm_fusion_events_in_total",
				Help: "Total number of events presented to fusion",
			},
		),
		fusionEventsOut: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "storm_fusion_events_out_total",
				Help: "Total number of fused records produced by fusion",
			},
		),
	}
}

func (p *PrometheusCollector) RecordAdmissionDecision(outcome string) {
	p.admissionDecisions.WithLabelValues(outcome).Inc()
}

func (p *PrometheusCollector) RecordCheckDuration(duration time.Duration) {
	p.checkDuration.Observe(duration.Seconds())
}

func (p *PrometheusCollector) RecordFusionBatch(originalCount, fusedCount int) {
	p.fusionEventsIn.Add(float64(originalCount))
	p.fusionEventsOut.Add(float64(fusedCount))
}
