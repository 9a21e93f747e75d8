package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chunkflow/stormgate/internal/mitigation"
)

type GatewayHandler struct {
	gate mitigation.Gate
}

func NewGatewayHandler(gate mitigation.Gate) *GatewayHandler {
	return &GatewayHandler{
		gate: gate,
	}
}

type eventRequest struct {
	Content  string  `json:"content"`
	Priority float64 `json:"priority"`
}

type outcomeRequest struct {
	Success *bool `json:"success" binding:"required"`
}

// CheckEvent runs one admission check for an incoming reasoning event.
func (gh *GatewayHandler) CheckEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid event payload",
			"message": err.Error(),
		})
		return
	}

	decision := gh.gate.AllowEvent()

	switch decision.Kind {
	case mitigation.DecisionRateLimited:
		setRetryAfterHeader(c, decision)
		c.JSON(http.StatusTooManyRequests, gin.H{
			"decision":       decision.Kind.String(),
			"retry_after_ms": decision.RetryAfter.Milliseconds(),
		})
	case mitigation.DecisionRejected:
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"decision": decision.Kind.String(),
			"reason":   decision.Reason,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"decision": decision.Kind.String(),
		})
	}
}

// ReportOutcome feeds the downstream result of a previously admitted event
// back into the circuit breaker.
func (gh *GatewayHandler) ReportOutcome(c *gin.Context) {
	var req outcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid outcome payload",
			"message": err.Error(),
		})
		return
	}

	if *req.Success {
		gh.gate.RecordSuccess()
	} else {
		gh.gate.RecordFailure()
	}

	c.JSON(http.StatusOK, gin.H{
		"recorded": true,
		"success":  *req.Success,
	})
}

// Stats returns the counter snapshot plus the breaker state.
func (gh *GatewayHandler) Stats(c *gin.Context) {
	stats := gh.gate.Stats()

	c.JSON(http.StatusOK, gin.H{
		"total_checks":               stats.Metrics.TotalChecks,
		"allowed_events":             stats.Metrics.AllowedEvents,
		"rate_limit_rejections":      stats.Metrics.RateLimitRejections,
		"circuit_breaker_rejections": stats.Metrics.CircuitBreakerRejections,
		"success_rate":               stats.Metrics.SuccessRate(),
		"circuit_state":              stats.CircuitState.String(),
	})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func setRetryAfterHeader(c *gin.Context, decision mitigation.Decision) {
	seconds := int64(math.Ceil(decision.RetryAfter.Seconds()))
	if seconds < 0 {
		seconds = 0
	}
	c.Header("Retry-After", strconv.FormatInt(seconds, 10))
}
