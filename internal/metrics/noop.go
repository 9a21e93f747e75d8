package metrics

import "time"

// NoopCollector is a no-operation metrics collector for testing or when metrics are disabled
type NoopCollector struct{}

func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

func (n *NoopCollector) RecordAdmissionDecision(outcome string) {
	// No-op
}

func (n *NoopCollector) RecordCheckDuration(duration time.Duration) {
	// No-op
}

func (n *NoopCollector) RecordFusionBatch(originalCount, fusedCount int) {
	// No-op
}
