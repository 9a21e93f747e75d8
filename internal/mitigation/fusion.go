package mitigation

import (
	"fmt"
	"strings"
)

// minSignificantWordLen: whitespace tokens must be longer than this to count
// toward similarity. Short glue words ("the", "for") would otherwise make
// unrelated events look alike.
const minSignificantWordLen = 3

// EventFusionConfig configures the similarity cutoff for merging.
type EventFusionConfig struct {
	SimilarityThreshold float64
}

// EventFusion collapses near-duplicate events within a batch. It holds no
// cross-call state; every FuseEvents invocation is independent and
// reentrant. Cost is quadratic in batch size, which is fine for the short
// bursts callers hand it.
type EventFusion struct {
	threshold float64
}

// NewEventFusion validates the config and builds a fusion engine.
func NewEventFusion(config EventFusionConfig) (*EventFusion, error) {
	if config.SimilarityThreshold < 0 || config.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("event fusion: similarity_threshold must be within [0, 1], got %v", config.SimilarityThreshold)
	}
	return &EventFusion{threshold: config.SimilarityThreshold}, nil
}

// FuseEvents clusters the batch greedily in input order: each not-yet-
// assigned event seeds a cluster and absorbs every later unassigned event
// whose Jaccard similarity to the seed exceeds the threshold. Each cluster
// collapses to one record carrying the seed's content, the members' maximum
// priority, their summed trigger counts, momentum equal to the cluster
// size, and the member indices as children. Singleton clusters pass through
// unchanged. Output order follows seed appearance order.
func (f *EventFusion) FuseEvents(batch []FusedEvent) []FusedEvent {
	if len(batch) == 0 {
		return nil
	}

	// Tokenize once up front; the pairwise loop below is quadratic already.
	wordSets := make([]map[string]struct{}, len(batch))
	for i := range batch {
		wordSets[i] = significantWords(batch[i].Content)
	}

	assigned := make([]bool, len(batch))
	fused := make([]FusedEvent, 0, len(batch))

	for i := range batch {
		if assigned[i] {
			continue
		}
		assigned[i] = true

		members := []int{i}
		for j := i + 1; j < len(batch); j++ {
			if assigned[j] {
				continue
			}
			if jaccard(wordSets[i], wordSets[j]) > f.threshold {
				assigned[j] = true
				members = append(members, j)
			}
		}

		if len(members) == 1 {
			fused = append(fused, batch[i])
			continue
		}

		merged := FusedEvent{
			Event:    batch[i].Event,
			Momentum: float64(len(members)),
			Parent:   -1,
			Children: members,
		}
		for _, m := range members {
			merged.TriggerCount += batch[m].TriggerCount
			if batch[m].Priority > merged.Priority {
				merged.Priority = batch[m].Priority
			}
		}
		fused = append(fused, merged)
	}

	return fused
}

// FusionStats summarizes one fusion pass.
type FusionStats struct {
	OriginalCount int     `json:"original_count"`
	FusedCount    int     `json:"fused_count"`
	ReductionRate float64 `json:"reduction_rate"`
}

// ComputeFusionStats reports how much a fusion pass shrank the batch.
// ReductionRate is 0 for an empty original batch.
func ComputeFusionStats(original, fused []FusedEvent) FusionStats {
	stats := FusionStats{
		OriginalCount: len(original),
		FusedCount:    len(fused),
	}
	if stats.OriginalCount > 0 {
		stats.ReductionRate = 1 - float64(stats.FusedCount)/float64(stats.OriginalCount)
	}
	return stats
}

func significantWords(content string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, token := range strings.Fields(content) {
		if len(token) > minSignificantWordLen {
			words[token] = struct{}{}
		}
	}
	return words
}

// jaccard is |a ∩ b| / |a ∪ b|, 0 when both sets are empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for word := range a {
		if _, ok := b[word]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
