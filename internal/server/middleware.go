package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openshelf/stockroom/internal/actorcontext"
	"go.uber.org/zap"
)

const actorHeader = "X-Actor"

// ActorMiddleware copies the caller identity header into the request context
// so stock-change audit entries can attribute the change.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader(actorHeader))
		if actor != "" {
			c.Request = c.Request.WithContext(actorcontext.WithActor(c.Request.Context(), actor))
		}
		c.Next()
	}
}

// RequestLogMiddleware emits one structured access log line per request.
func RequestLogMiddleware(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		}
		if lastErr := c.Errors.Last(); lastErr != nil {
			fields = append(fields, zap.Error(lastErr.Err))
		}

		if c.Writer.Status() >= 500 {
			log.Error("request failed", fields...)
			return
		}
		log.Info("request", fields...)
	}
}
