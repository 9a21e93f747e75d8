package metrics

import "time"

type Collector interface {
	RecordAdmissionDecision(outcome string)
	RecordCheckDuration(duration time.Duration)
	RecordFusionBatch(originalCount, fusedCount int)
}
