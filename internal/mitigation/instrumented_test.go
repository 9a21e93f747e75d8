package mitigation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingCollector struct {
	decisions []string
	durations int
	batches   [][2]int
}

func (r *recordingCollector) RecordAdmissionDecision(outcome string) {
	r.decisions = append(r.decisions, outcome)
}

func (r *recordingCollector) RecordCheckDuration(duration time.Duration) {
	r.durations++
}

func (r *recordingCollector) RecordFusionBatch(originalCount, fusedCount int) {
	r.batches = append(r.batches, [2]int{originalCount, fusedCount})
}

func TestInstrumentedGate_RecordsDecisions(t *testing.T) {
	gateway, _ := newTestGateway(t, smallGatewayConfig())
	collector := &recordingCollector{}
	gate := NewInstrumentedGate(gateway, collector)

	gate.AllowEvent()
	gate.AllowEvent()
	gate.AllowEvent()

	assert.Equal(t, []string{"allowed", "allowed", "rate_limited"}, collector.decisions)
	assert.Equal(t, 3, collector.durations)
}

func TestInstrumentedGate_ForwardsOutcomesAndStats(t *testing.T) {
	gateway, _ := newTestGateway(t, smallGatewayConfig())
	collector := &recordingCollector{}
	gate := NewInstrumentedGate(gateway, collector)

	gate.RecordFailure()
	gate.RecordFailure()

	stats := gate.Stats()
	assert.Equal(t, CircuitOpen, stats.CircuitState)

	gate.AllowEvent()
	assert.Equal(t, []string{"rejected"}, collector.decisions)
}
