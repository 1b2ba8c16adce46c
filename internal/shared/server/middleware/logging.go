package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"intelliview-api/internal/shared/metrics"
	"intelliview-api/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	ResumeIDKey    = "resumeId"
	UploadStageKey = "uploadStage"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		metrics.ObserveHTTPRequest(c.Request.Method, c.Writer.Status())

		fields := map[string]any{
			"request_id": RequestIDFromContext(c),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"route":      c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":    UserIDFromContext(c),
			"client_ip":  c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		}
		if id := c.GetString(ResumeIDKey); id != "" {
			fields["resume_id"] = id
		}
		if stage := c.GetString(UploadStageKey); stage != "" {
			fields["upload_stage"] = stage
		}
		telemetry.Info("request.complete", fields)
	}
}
