package middleware

import (
	"github.com/labstack/echo/v4"
)

// VersionMiddleware stamps responses with the API and build versions
type VersionMiddleware struct {
	build string
}

func NewVersionMiddleware(build string) *VersionMiddleware {
	return &VersionMiddleware{build: build}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", version)
			if vm.build != "" {
				h.Set("X-Build-Version", vm.build)
			}
			return next(c)
		}
	}
}

// VersionRoute creates a version-specific route group
func (vm *VersionMiddleware) VersionRoute(e *echo.Echo, version string) *echo.Group {
	group := e.Group("/" + version)
	group.Use(vm.VersionHeader(version))
	return group
}
