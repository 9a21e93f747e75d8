package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chunkflow/stormgate/internal/config"
	"github.com/chunkflow/stormgate/internal/handlers"
	"github.com/chunkflow/stormgate/internal/metrics"
	"github.com/chunkflow/stormgate/internal/middleware"
	"github.com/chunkflow/stormgate/internal/mitigation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("failed to load config: %w", err))
	}

	mitigationConfig, err := mitigation.ConfigFromSettings(cfg.Mitigation)
	if err != nil {
		panic(fmt.Errorf("failed to resolve mitigation config: %w", err))
	}

	gateway, err := mitigation.NewStormMitigation(mitigationConfig)
	if err != nil {
		panic(fmt.Errorf("failed to build gateway: %w", err))
	}

	collector := metrics.NewPrometheusCollector()
	gate := mitigation.NewInstrumentedGate(gateway, collector)

	gatewayHandler := handlers.NewGatewayHandler(gate)
	fusionHandler := handlers.NewFusionHandler(gateway, collector)
	pipelineHandler := handlers.NewPipelineHandler()

	r := gin.Default()

	r.GET("/health", handlers.Health)
	r.GET("/metrics", handlers.MetricsHandler())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "stormgate",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	r.POST("/events", gatewayHandler.CheckEvent)
	r.POST("/events/outcome", gatewayHandler.ReportOutcome)
	r.POST("/events/fuse", fusionHandler.Fuse)
	r.GET("/stats", gatewayHandler.Stats)

	pipeline := r.Group("/pipeline", middleware.Admission(gate))
	pipeline.POST("/chunk", pipelineHandler.Chunk)
	pipeline.POST("/verify", pipelineHandler.Verify)

	r.Run(cfg.Server.Port)
}
