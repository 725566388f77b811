package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gufolabs/gestiune/pkg/tenantctx"
)

const (
	// HeaderTenant carries the caller's tenant on API requests. The
	// tenantId query parameter is accepted as a fallback.
	HeaderTenant     = "X-Tenant-ID"
	queryTenantParam = "tenantId"
)

// TenantRequired resolves the tenant from the request and injects it
// into the request context. Requests without a tenant are rejected
// before reaching any handler.
func TenantRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := strings.TrimSpace(c.GetHeader(HeaderTenant))
		if tenantID == "" {
			tenantID = strings.TrimSpace(c.Query(queryTenantParam))
		}
		if tenantID == "" {
			AbortWithError(c, newValidationError("tenant", "missing_tenant", "tenant is required"))
			return
		}

		c.Request = c.Request.WithContext(tenantctx.WithTenantID(c.Request.Context(), tenantID))
		c.Next()
	}
}
