package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docuquery/pkg/logger"
)

// SetupRouter configures and returns a Gin engine for the RAG service.
func SetupRouter(h *Handler, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(traceMiddleware(log))

	api := r.Group("/api")
	{
		api.POST("/ingest", h.Ingest)
		api.POST("/upload", h.Upload)
		api.POST("/query", h.Query)
		api.GET("/documents", h.ListDocuments)
		api.DELETE("/documents/:doc_id", h.DeleteDocument)
		api.GET("/stats", h.Stats)
		api.GET("/health", h.Health)
	}

	return r
}

// traceMiddleware assigns a trace ID to each request and logs its outcome.
func traceMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := uuid.New().String()
		c.Set("trace_id", traceID)

		start := time.Now()
		c.Next()

		log.WithPayload(map[string]interface{}{
			"trace_id":    traceID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info(fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path))
	}
}
