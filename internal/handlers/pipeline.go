package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PipelineHandler fakes the downstream reasoning pipeline so the admission
// middleware can be exercised end to end.
type PipelineHandler struct{}

func NewPipelineHandler() *PipelineHandler {
	return &PipelineHandler{}
}

func (p *PipelineHandler) Chunk(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Chunk request admitted downstream",
		"timestamp": time.Now().UTC(),
		"path":      c.Request.URL.Path,
		"client_ip": c.ClientIP(),
		"data": gin.H{
			"stage":   "chunk",
			"content": "This route sits behind the storm mitigation gateway",
		},
	})
}

func (p *PipelineHandler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Verification request admitted downstream",
		"timestamp": time.Now().UTC(),
		"path":      c.Request.URL.Path,
		"client_ip": c.ClientIP(),
		"data": gin.H{
			"stage":   "verify",
			"content": "This route sits behind the storm mitigation gateway",
		},
	})
}
