package middleware

import (
	"fmt"
	"strings"

	"dormdesk/internal/common"
	"dormdesk/internal/config"
	"dormdesk/internal/logger"
	"dormdesk/internal/models"
	"dormdesk/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// OrganizationHeader lets a super admin act inside one organization
const OrganizationHeader = "X-Organization-ID"

const tokenContextKey = "session_token"

// SessionAuth verifies session tokens and puts the principal into the request context
type SessionAuth struct {
	authService services.AuthService
	jwtConfig   echojwt.Config
}

func NewSessionAuth(authService services.AuthService, cfg config.SessionConfig) *SessionAuth {
	return &SessionAuth{
		authService: authService,
		jwtConfig: echojwt.Config{
			SigningKey:    []byte(cfg.Secret),
			SigningMethod: echojwt.AlgorithmHS256,
			ContextKey:    tokenContextKey,
			TokenLookup:   "header:Authorization:Bearer ,cookie:" + cfg.CookieName,
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(services.SessionClaims)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return fmt.Errorf("%w: missing or invalid session token", common.ErrUnauthenticated)
			},
		},
	}
}

// Authenticate returns the middleware chain: token verification, then session lookup
func (m *SessionAuth) Authenticate() echo.MiddlewareFunc {
	verify := echojwt.WithConfig(m.jwtConfig)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(m.resolve(next))
	}
}

func (m *SessionAuth) resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get(tokenContextKey).(*jwt.Token)
		if !ok {
			return common.ErrUnauthenticated
		}
		claims, ok := token.Claims.(*services.SessionClaims)
		if !ok {
			return common.ErrUnauthenticated
		}
		sessionID, err := uuid.Parse(claims.ID)
		if err != nil {
			return fmt.Errorf("%w: malformed session id", common.ErrUnauthenticated)
		}

		ctx := c.Request().Context()
		principal, err := m.authService.ResolveSession(ctx, sessionID, token.Raw)
		if err != nil {
			return err
		}

		orgID, err := actingOrganization(principal, c.Request().Header.Get(OrganizationHeader))
		if err != nil {
			return err
		}

		ctx = common.WithPrincipal(ctx, principal.SessionID, principal.UserID, orgID, principal.Role)
		fields := []zap.Field{zap.String("user_id", principal.UserID.String()), zap.String("role", principal.Role)}
		if orgID != nil {
			fields = append(fields, zap.String("organization_id", orgID.String()))
		}
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(fields...))
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// actingOrganization picks the organization a request operates in. Only a super admin
// may choose one with the header, everyone else is pinned to their own.
func actingOrganization(principal *models.SessionPrincipal, header string) (*uuid.UUID, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return principal.OrganizationID, nil
	}
	requested, err := uuid.Parse(header)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s header", common.ErrInvalidInput, OrganizationHeader)
	}
	if principal.Role == models.RoleSuperAdmin {
		return &requested, nil
	}
	if principal.OrganizationID == nil || *principal.OrganizationID != requested {
		return nil, fmt.Errorf("%w: organization mismatch", common.ErrForbidden)
	}
	return principal.OrganizationID, nil
}
