package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chunkflow/stormgate/internal/metrics"
	"github.com/chunkflow/stormgate/internal/mitigation"
)

// Fuser collapses a batch of candidate events before admission.
type Fuser interface {
	FuseEvents(batch []mitigation.FusedEvent) []mitigation.FusedEvent
}

type FusionHandler struct {
	fuser     Fuser
	collector metrics.Collector
}

func NewFusionHandler(fuser Fuser, collector metrics.Collector) *FusionHandler {
	return &FusionHandler{
		fuser:     fuser,
		collector: collector,
	}
}

type fuseRequest struct {
	Events []eventRequest `json:"events"`
}

// Fuse merges near-duplicate events from a short window and reports the
// reduction achieved.
func (fh *FusionHandler) Fuse(c *gin.Context) {
	var req fuseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid fusion payload",
			"message": err.Error(),
		})
		return
	}

	now := time.Now()
	batch := make([]mitigation.FusedEvent, len(req.Events))
	for i, event := range req.Events {
		batch[i] = mitigation.NewFusedEvent(mitigation.Event{
			Content:   event.Content,
			Priority:  event.Priority,
			Timestamp: now,
		})
	}

	fused := fh.fuser.FuseEvents(batch)
	stats := mitigation.ComputeFusionStats(batch, fused)
	fh.collector.RecordFusionBatch(stats.OriginalCount, stats.FusedCount)

	c.JSON(http.StatusOK, gin.H{
		"events": fused,
		"stats":  stats,
	})
}
