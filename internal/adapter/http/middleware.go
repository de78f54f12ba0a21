package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/tenant"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware reuses the caller's X-Request-ID or generates one,
// and stores it in the request context for the logger.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

func LoggingMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := logger.RequestID(c.Request.Context())

		log.Debug("http_request", fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path), requestID, map[string]any{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})

		c.Next()

		log.Debug("http_response", "Request completed", requestID, map[string]any{
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}

func RecoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic_recovered", "Panic recovered", logger.RequestID(c.Request.Context()),
			map[string]any{"path": c.Request.URL.Path}, fmt.Errorf("%v", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: "internal server error"})
	})
}

// TenantMiddleware resolves the caller's tenant from header, which the
// upstream gateway sets after authenticating the request.
func TenantMiddleware(header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, err := tenant.New(c.GetHeader(header))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "missing or invalid tenant"})
			return
		}
		c.Request = c.Request.WithContext(tenant.WithScope(c.Request.Context(), scope))
		c.Next()
	}
}

// scopeOf returns the tenant resolved by TenantMiddleware, writing a 401 if
// the route was mounted without it.
func scopeOf(c *gin.Context) (tenant.Scope, bool) {
	scope, ok := tenant.FromContext(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "missing or invalid tenant"})
	}
	return scope, ok
}
