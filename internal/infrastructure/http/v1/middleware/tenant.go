package middleware

import (
	"github.com/gin-gonic/gin"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
	"ordina/internal/core/tenant"
)

// HeaderTenantID carries the tenant identifier (UUID or slug).
const HeaderTenantID = "X-Tenant-ID"

// Tenant middleware resolves the request's tenant from the X-Tenant-ID
// header and stores it in the request context. Suspended tenants are
// rejected before any business code runs.
func Tenant(repo tenant.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(HeaderTenantID)
		if header == "" {
			_ = c.Error(apperror.NewValidation("missing tenant header").
				WithDetail("header", HeaderTenantID))
			c.Abort()
			return
		}

		ctx := c.Request.Context()

		var (
			t   *tenant.Tenant
			err error
		)
		if tenantID, parseErr := id.Parse(header); parseErr == nil {
			t, err = repo.GetByID(ctx, tenantID)
		} else {
			t, err = repo.GetBySlug(ctx, header)
		}
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		if !t.IsActive() {
			_ = c.Error(apperror.NewForbidden("tenant is suspended").
				WithDetail("tenant", t.Slug))
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(tenant.WithTenant(ctx, t))
		c.Set("tenant_id", t.ID.String())

		c.Next()
	}
}
