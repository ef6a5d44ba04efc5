package handlers

import (
	"net/http"
	"time"

	"dormdesk/internal/common"
	"dormdesk/internal/config"
	"dormdesk/internal/models"
	"dormdesk/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
	session     config.SessionConfig
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, session config.SessionConfig) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		session:     session,
	}
}

// RegisterRoutes mounts login on the public group and the rest behind authentication
func (h *AuthHandlers) RegisterRoutes(public, protected *echo.Group) {
	public.POST("/auth/login", h.Login)
	protected.POST("/auth/logout", h.Logout)
	protected.GET("/auth/me", h.Me)
	protected.PUT("/auth/password", h.ChangePassword)
}

// Login handles POST /auth/login. The token is returned in the body and as an HttpOnly cookie.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.Request().Context(), &req, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return err
	}

	c.SetCookie(h.cookie(resp.Token, resp.ExpiresAt))
	return c.JSON(http.StatusOK, resp)
}

// Logout handles POST /auth/logout
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID, ok := common.GetSessionIDFromContext(ctx)
	if !ok {
		return common.ErrUnauthenticated
	}
	if err := h.authService.Logout(ctx, sessionID); err != nil {
		return err
	}

	expired := h.cookie("", time.Unix(0, 0))
	expired.MaxAge = -1
	c.SetCookie(expired)
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /auth/me
func (h *AuthHandlers) Me(c echo.Context) error {
	resp, err := h.authService.Me(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// ChangePassword handles PUT /auth/password. Other sessions of the user are revoked.
func (h *AuthHandlers) ChangePassword(c echo.Context) error {
	var req models.ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.ChangePassword(c.Request().Context(), &req); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandlers) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     h.session.CookieName,
		Value:    value,
		Path:     "/",
		Domain:   h.session.CookieDomain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
