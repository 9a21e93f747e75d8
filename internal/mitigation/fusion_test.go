package mitigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestFusion(t *testing.T, threshold float64) *EventFusion {
	t.Helper()

	fusion, err := NewEventFusion(EventFusionConfig{SimilarityThreshold: threshold})
	assert.NoError(t, err)
	return fusion
}

func fusedEventWithContent(content string, priority float64) FusedEvent {
	return NewFusedEvent(Event{Content: content, Priority: priority})
}

func TestNewEventFusion(t *testing.T) {
	tests := []struct {
		name        string
		threshold   float64
		expectError bool
	}{
		{name: "valid mid threshold", threshold: 0.7, expectError: false},
		{name: "zero threshold", threshold: 0, expectError: false},
		{name: "threshold of one", threshold: 1, expectError: false},
		{name: "negative threshold", threshold: -0.1, expectError: true},
		{name: "threshold above one", threshold: 1.1, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fusion, err := NewEventFusion(EventFusionConfig{SimilarityThreshold: tt.threshold})

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, fusion)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, fusion)
			}
		})
	}
}

func TestEventFusion_IdenticalContentAlwaysFuses(t *testing.T) {
	fusion := newTestFusion(t, 0.99)

	batch := []FusedEvent{
		fusedEventWithContent("verify lattice projection chunk seven", 0.4),
		fusedEventWithContent("verify lattice projection chunk seven", 0.8),
	}

	fused := fusion.FuseEvents(batch)

	assert.Len(t, fused, 1)
	assert.Equal(t, "verify lattice projection chunk seven", fused[0].Content)
	assert.Equal(t, 0.8, fused[0].Priority)
	assert.Equal(t, 2, fused[0].TriggerCount)
	assert.Equal(t, 2.0, fused[0].Momentum)
	assert.Equal(t, []int{0, 1}, fused[0].Children)
	assert.Equal(t, -1, fused[0].Parent)
}

func TestEventFusion_NoSharedSignificantWordsNeverFuses(t *testing.T) {
	fusion := newTestFusion(t, 0.01)

	batch := []FusedEvent{
		fusedEventWithContent("alpha bravo charlie", 0.5),
		fusedEventWithContent("delta echo foxtrot", 0.5),
	}
	fused := fusion.FuseEvents(batch)
	assert.Len(t, fused, 2)

	// Only short glue words: both significant-word sets are empty, so the
	// similarity is 0.0 by definition.
	batch = []FusedEvent{
		fusedEventWithContent("a bc de", 0.5),
		fusedEventWithContent("a bc de", 0.5),
	}
	fused = fusion.FuseEvents(batch)
	assert.Len(t, fused, 2)
}

func TestEventFusion_GreedySeedClustering(t *testing.T) {
	fusion := newTestFusion(t, 0.5)

	// B is similar to the seed A; C is similar to B but not to A, so C
	// opens its own cluster.
	batch := []FusedEvent{
		fusedEventWithContent("alpha bravo charlie delta", 0.1),
		fusedEventWithContent("alpha bravo charlie echo", 0.2),
		fusedEventWithContent("charlie echo foxtrot golf", 0.3),
	}

	fused := fusion.FuseEvents(batch)

	assert.Len(t, fused, 2)
	assert.Equal(t, "alpha bravo charlie delta", fused[0].Content)
	assert.Equal(t, []int{0, 1}, fused[0].Children)
	assert.Equal(t, "charlie echo foxtrot golf", fused[1].Content)
}

func TestEventFusion_MergedRecordAggregates(t *testing.T) {
	fusion := newTestFusion(t, 0.3)

	first := fusedEventWithContent("chunk request window seventeen", 0.2)
	first.TriggerCount = 2
	second := fusedEventWithContent("chunk request window eighteen", 0.9)
	second.TriggerCount = 3

	fused := fusion.FuseEvents([]FusedEvent{first, second})

	assert.Len(t, fused, 1)
	assert.Equal(t, "chunk request window seventeen", fused[0].Content)
	assert.Equal(t, 0.9, fused[0].Priority)
	assert.Equal(t, 5, fused[0].TriggerCount)
	assert.Equal(t, 2.0, fused[0].Momentum)
}

func TestEventFusion_SingletonPassesThrough(t *testing.T) {
	fusion := newTestFusion(t, 0.5)

	record := fusedEventWithContent("solitary verification request", 0.6)
	record.Momentum = 4
	record.TriggerCount = 7

	fused := fusion.FuseEvents([]FusedEvent{record})

	assert.Len(t, fused, 1)
	assert.Equal(t, record, fused[0])
}

func TestEventFusion_EmptyBatch(t *testing.T) {
	fusion := newTestFusion(t, 0.5)

	assert.Empty(t, fusion.FuseEvents(nil))
	assert.Empty(t, fusion.FuseEvents([]FusedEvent{}))
}

func TestEventFusion_OutputFollowsSeedOrder(t *testing.T) {
	fusion := newTestFusion(t, 0.5)

	batch := []FusedEvent{
		fusedEventWithContent("first topic about lattices", 0.1),
		fusedEventWithContent("second topic about carryover", 0.1),
		fusedEventWithContent("first topic about lattices", 0.1),
		fusedEventWithContent("second topic about carryover", 0.1),
	}

	fused := fusion.FuseEvents(batch)

	assert.Len(t, fused, 2)
	assert.Equal(t, "first topic about lattices", fused[0].Content)
	assert.Equal(t, "second topic about carryover", fused[1].Content)
	assert.Equal(t, []int{0, 2}, fused[0].Children)
	assert.Equal(t, []int{1, 3}, fused[1].Children)
}

func TestComputeFusionStats(t *testing.T) {
	original := []FusedEvent{
		fusedEventWithContent("one", 0),
		fusedEventWithContent("two", 0),
		fusedEventWithContent("three", 0),
		fusedEventWithContent("four", 0),
	}
	fused := []FusedEvent{
		fusedEventWithContent("one", 0),
		fusedEventWithContent("three", 0),
	}

	stats := ComputeFusionStats(original, fused)

	assert.Equal(t, 4, stats.OriginalCount)
	assert.Equal(t, 2, stats.FusedCount)
	assert.Equal(t, 0.5, stats.ReductionRate)
}

func TestComputeFusionStats_EmptyOriginal(t *testing.T) {
	stats := ComputeFusionStats(nil, nil)

	assert.Equal(t, 0, stats.OriginalCount)
	assert.Equal(t, 0, stats.FusedCount)
	assert.Equal(t, 0.0, stats.ReductionRate)
}

func TestJaccard(t *testing.T) {
	a := map[string]struct{}{"alpha": {}, "bravo": {}, "charlie": {}}
	b := map[string]struct{}{"alpha": {}, "bravo": {}, "delta": {}}

	assert.InDelta(t, 0.5, jaccard(a, b), 1e-9)
	assert.Equal(t, 1.0, jaccard(a, a))
	assert.Equal(t, 0.0, jaccard(a, map[string]struct{}{}))
	assert.Equal(t, 0.0, jaccard(map[string]struct{}{}, map[string]struct{}{}))
}

func TestSignificantWords(t *testing.T) {
	words := significantWords("the chunk was not verified yet")

	assert.Equal(t, map[string]struct{}{
		"chunk":    {},
		"verified": {},
	}, words)
}
