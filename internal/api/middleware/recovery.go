package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/social-feed/pkg/logger"
	"github.com/d60-Lab/social-feed/pkg/response"
)

// Recovery turns panics into a 500 and reports them, together with errors handlers attached
// via c.Error, to Sentry. Without sentry.Init the hub has no client and reporting is a no-op.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetRequest(c.Request)

		defer func() {
			if r := recover(); r != nil {
				hub.RecoverWithContext(c.Request.Context(), r)
				hub.Flush(2 * time.Second)
				logger.Error("panic recovered", zap.String("path", c.Request.URL.Path), zap.Any("panic", r))
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
					Code:    http.StatusInternalServerError,
					Message: "internal server error",
				})
			}
		}()

		c.Next()

		for _, e := range c.Errors {
			hub.CaptureException(fmt.Errorf("%s %s: %w", c.Request.Method, c.FullPath(), e.Err))
		}
	}
}
