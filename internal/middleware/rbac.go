package middleware

import (
	"fmt"

	"dormdesk/internal/common"
	"dormdesk/internal/services"

	"github.com/labstack/echo/v4"
)

type RBACMiddleware struct {
	rbacService services.RBACService
}

func NewRBACMiddleware(rbacService services.RBACService) *RBACMiddleware {
	return &RBACMiddleware{
		rbacService: rbacService,
	}
}

func (m *RBACMiddleware) RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := common.GetRoleFromContext(c.Request().Context())
			if !ok {
				return common.ErrUnauthenticated
			}
			if !m.rbacService.RoleHasPermission(role, permission) {
				return fmt.Errorf("%w: insufficient permissions", common.ErrForbidden)
			}
			return next(c)
		}
	}
}

// RequireOrganization rejects requests that have no acting organization,
// e.g. a super admin that did not pick one
func (m *RBACMiddleware) RequireOrganization() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := common.RequireOrganization(c.Request().Context()); err != nil {
				return err
			}
			return next(c)
		}
	}
}
