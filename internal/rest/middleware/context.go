package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/fleetrate/fleetrate/internal/types"
)

// RequestIDMiddleware attaches a request id to the context and echoes it
// back on the response for log correlation.
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
	}

	c.Set("request_id", requestID)
	c.Writer.Header().Set("X-Request-ID", requestID)
	c.Next()
}

// TenantMiddleware resolves the tenant, environment and user identifiers
// from request headers and seeds the request context with them. Missing
// headers fall back to the configured defaults so single-tenant
// deployments work without any header plumbing.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader("X-Tenant-ID")
		if tenantID == "" {
			tenantID = types.DefaultTenantID
		}

		ctx := c.Request.Context()
		ctx = types.SetTenantID(ctx, tenantID)
		if envID := c.GetHeader("X-Environment-ID"); envID != "" {
			ctx = types.SetEnvironmentID(ctx, envID)
		}
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			ctx = types.SetUserID(ctx, userID)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
