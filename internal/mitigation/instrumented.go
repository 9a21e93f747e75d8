package mitigation

import (
	"time"

	"github.com/chunkflow/stormgate/internal/metrics"
)

// InstrumentedGate wraps a Gate and records every decision outcome and
// check duration to a metrics collector.
type InstrumentedGate struct {
	gate      Gate
	collector metrics.Collector
}

func NewInstrumentedGate(gate Gate, collector metrics.Collector) *InstrumentedGate {
	return &InstrumentedGate{
		gate:      gate,
		collector: collector,
	}
}

func (g *InstrumentedGate) AllowEvent() Decision {
	start := time.Now()

	decision := g.gate.AllowEvent()

	g.collector.RecordCheckDuration(time.Since(start))
	g.collector.RecordAdmissionDecision(decision.Kind.String())

	return decision
}

func (g *InstrumentedGate) RecordSuccess() {
	g.gate.RecordSuccess()
}

func (g *InstrumentedGate) RecordFailure() {
	g.gate.RecordFailure()
}

func (g *InstrumentedGate) Stats() StormStats {
	return g.gate.Stats()
}
