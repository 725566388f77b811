// Package tenantctx propagates the active tenant through request contexts.
package tenantctx

import (
	"context"
	"strings"
)

type tenantKey struct{}

// WithTenantID stores the tenant identifier in the context.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenantID)
}

// TenantID returns the tenant identifier from context, if set.
func TenantID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(tenantKey{}).(string)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
