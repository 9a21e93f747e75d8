package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chunkflow/stormgate/internal/mitigation"
)

type AdmissionConfig struct {
	OnRateLimited func(c *gin.Context, decision mitigation.Decision)
	OnRejected    func(c *gin.Context, decision mitigation.Decision)
}

func defaultOnRateLimited(c *gin.Context, decision mitigation.Decision) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"message":        "Too many requests",
		"retry_after_ms": decision.RetryAfter.Milliseconds(),
	})
	c.Abort()
}

func defaultOnRejected(c *gin.Context, decision mitigation.Decision) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"message": "Shedding load",
		"reason":  decision.Reason,
	})
	c.Abort()
}

// Admission gates every request on the route through the storm mitigation
// pipeline and sets Retry-After when the token bucket is dry.
func Admission(gate mitigation.Gate, config ...*AdmissionConfig) gin.HandlerFunc {
	var cfg *AdmissionConfig
	if len(config) > 0 && config[0] != nil {
		cfg = config[0]
	} else {
		cfg = &AdmissionConfig{}
	}

	if cfg.OnRateLimited == nil {
		cfg.OnRateLimited = defaultOnRateLimited
	}
	if cfg.OnRejected == nil {
		cfg.OnRejected = defaultOnRejected
	}

	return func(c *gin.Context) {
		decision := gate.AllowEvent()

		switch decision.Kind {
		case mitigation.DecisionRateLimited:
			setRetryAfterHeader(c, decision)
			cfg.OnRateLimited(c, decision)
		case mitigation.DecisionRejected:
			cfg.OnRejected(c, decision)
		default:
			c.Next()
		}
	}
}

func setRetryAfterHeader(c *gin.Context, decision mitigation.Decision) {
	seconds := int64(math.Ceil(decision.RetryAfter.Seconds()))
	if seconds < 0 {
		seconds = 0
	}
	c.Header("Retry-After", strconv.FormatInt(seconds, 10))
}
