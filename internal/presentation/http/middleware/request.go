package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/performance"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// RequestMiddleware tags each request with an ID, records it with the tracker and
// writes one line to the http channel when it completes.
func RequestMiddleware(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = ulid.Make().String()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set(string(logging.RequestIDKey), requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logging.RequestIDKey, requestID))

		marker := perfTracker.StartOperation("http:" + c.Request.Method + " " + c.FullPath())
		marker.AddMetadata("path", c.Request.URL.Path)

		c.Next()

		status := c.Writer.Status()
		marker.SetSuccess(status < 500)
		if status >= 500 {
			marker.SetError(fmt.Errorf("status %d", status))
		}
		perfTracker.CompleteOperation(marker)

		logger.WithContext(logging.ChannelHTTP, c.Request.Context()).Info("Request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		)
	}
}
