package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"dormdesk/internal/caching"
	"dormdesk/internal/common"
	"dormdesk/internal/config"
	"dormdesk/internal/logger"
	"dormdesk/internal/models"
	"dormdesk/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer = "dormdesk"

	loginAttemptLimit  = 5
	loginAttemptWindow = 15 * time.Minute

	principalCacheTTL = 5 * time.Minute
)

// SessionClaims are the JWT claims of a session token. The token id (jti) is the session id.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService manages login sessions
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest, ip, userAgent string) (*models.LoginResponse, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	Me(ctx context.Context) (*models.MeResponse, error)
	ChangePassword(ctx context.Context, req *models.ChangePasswordRequest) error

	// ResolveSession maps a verified token onto a live session, via cache then database
	ResolveSession(ctx context.Context, sessionID uuid.UUID, token string) (*models.SessionPrincipal, error)
	RevokeUserSessions(ctx context.Context, userID uuid.UUID) error
	// EvictUserSessions and EvictOrganizationSessions drop cached principals so the next
	// request re-reads role and status from the database
	EvictUserSessions(ctx context.Context, userID uuid.UUID) error
	EvictOrganizationSessions(ctx context.Context, orgID uuid.UUID) error
	CleanupSessions(ctx context.Context, olderThan time.Time) (int64, error)
}

type authService struct {
	userRepo    repositories.UserRepository
	orgRepo     repositories.OrganizationRepository
	sessionRepo repositories.SessionRepository
	cacheSvc    caching.CacheService
	audit       AuditLogsService
	jwtSecret   []byte
	sessionTTL  time.Duration
	now         func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, orgRepo repositories.OrganizationRepository,
	sessionRepo repositories.SessionRepository, cacheSvc caching.CacheService, audit AuditLogsService,
	cfg config.SessionConfig) AuthService {
	return &authService{
		userRepo:    userRepo,
		orgRepo:     orgRepo,
		sessionRepo: sessionRepo,
		cacheSvc:    cacheSvc,
		audit:       audit,
		jwtSecret:   []byte(cfg.Secret),
		sessionTTL:  cfg.TTL,
		now:         time.Now,
	}
}

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// HashToken returns the hex SHA-256 of a session token as stored in user_sessions
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// SignSessionToken issues the HS256 token of a session
func SignSessionToken(secret []byte, sessionID, userID uuid.UUID, role string, issuedAt, expiresAt time.Time) (string, error) {
	claims := SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID.String(),
			ID:        sessionID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest, ip, userAgent string) (*models.LoginResponse, error) {
	log := logger.FromContext(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	rateKey := "login:" + email

	limited, err := s.cacheSvc.IsRateLimited(ctx, rateKey, loginAttemptLimit)
	if err != nil {
		log.Warn("login rate limit check failed", zap.Error(err))
	}
	if limited {
		return nil, fmt.Errorf("%w: too many failed login attempts, try again later", common.ErrTooManyRequests)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		if err := s.cacheSvc.IncrementRateLimit(ctx, rateKey, loginAttemptWindow); err != nil {
			log.Warn("failed to count login attempt", zap.Error(err))
		}
		return nil, common.ErrInvalidCredentials
	}
	if user.Status != models.UserActive {
		return nil, fmt.Errorf("%w: account is disabled", common.ErrForbidden)
	}

	var org *models.Organization
	if user.OrganizationID != nil {
		org, err = s.orgRepo.GetByID(ctx, *user.OrganizationID)
		if err != nil {
			return nil, err
		}
		if org.Status != models.OrganizationActive {
			return nil, fmt.Errorf("%w: organization is suspended", common.ErrForbidden)
		}
	}

	now := s.now()
	session := &models.UserSession{
		ID:        uuid.New(),
		UserID:    user.ID,
		UserAgent: truncate(userAgent, 500),
		IPAddress: ip,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	token, err := SignSessionToken(s.jwtSecret, session.ID, user.ID, user.Role, now, session.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	session.TokenHash = HashToken(token)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Warn("failed to update last login", zap.Error(err))
	}
	if err := s.cacheSvc.ResetRateLimit(ctx, rateKey); err != nil {
		log.Warn("failed to reset login attempts", zap.Error(err))
	}
	principal := &models.SessionPrincipal{
		SessionID:      session.ID,
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Role:           user.Role,
		ExpiresAt:      session.ExpiresAt,
	}
	if err := s.cacheSvc.SetPrincipal(ctx, principal, principalCacheTTL); err != nil {
		log.Warn("failed to cache session", zap.Error(err))
	}

	err = s.audit.LogActivity(ctx, user.OrganizationID, "users", user.ID.String(), models.ActionLogin, &user.ID, nil,
		models.JSONB{"session_id": session.ID.String(), "ip_address": ip, "user_agent": session.UserAgent})
	if err != nil {
		log.Warn("failed to write audit log", zap.String("action", models.ActionLogin), zap.Error(err))
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
		Org:       org,
	}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.sessionRepo.Revoke(ctx, sessionID); err != nil {
		return err
	}
	if err := s.cacheSvc.DeleteSession(ctx, sessionID); err != nil {
		logger.FromContext(ctx).Warn("failed to evict session", zap.Error(err))
	}

	var orgID *uuid.UUID
	if id, ok := common.GetOrganizationIDFromContext(ctx); ok {
		orgID = &id
	}
	recordID := ""
	if userID, ok := common.GetUserIDFromContext(ctx); ok {
		recordID = userID.String()
	}
	s.audit.Record(ctx, orgID, "users", recordID, models.ActionLogout, nil, models.JSONB{"session_id": sessionID.String()})
	return nil
}

func (s *authService) Me(ctx context.Context) (*models.MeResponse, error) {
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return nil, common.ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	resp := &models.MeResponse{User: user}
	if user.OrganizationID != nil {
		if resp.Org, err = s.orgRepo.GetByID(ctx, *user.OrganizationID); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (s *authService) ChangePassword(ctx context.Context, req *models.ChangePasswordRequest) error {
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		return fmt.Errorf("%w: current password is incorrect", common.ErrInvalidInput)
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	var keep *uuid.UUID
	if sessionID, ok := common.GetSessionIDFromContext(ctx); ok {
		keep = &sessionID
	}
	if err := s.revokeSessions(ctx, user.ID, keep); err != nil {
		return err
	}

	s.audit.Record(ctx, user.OrganizationID, "users", user.ID.String(), models.ActionUpdate, nil, models.JSONB{"password_changed": true})
	return nil
}

func (s *authService) ResolveSession(ctx context.Context, sessionID uuid.UUID, token string) (*models.SessionPrincipal, error) {
	log := logger.FromContext(ctx)

	cached, err := s.cacheSvc.GetPrincipal(ctx, sessionID)
	if err != nil {
		log.Warn("session cache lookup failed", zap.Error(err))
	}
	if cached != nil && cached.ExpiresAt.After(s.now()) {
		return cached, nil
	}

	principal, err := s.sessionRepo.GetPrincipal(ctx, sessionID, HashToken(token))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: session expired or revoked", common.ErrUnauthenticated)
		}
		return nil, err
	}
	if err := s.cacheSvc.SetPrincipal(ctx, principal, principalCacheTTL); err != nil {
		log.Warn("failed to cache session", zap.Error(err))
	}
	return principal, nil
}

func (s *authService) RevokeUserSessions(ctx context.Context, userID uuid.UUID) error {
	return s.revokeSessions(ctx, userID, nil)
}

func (s *authService) revokeSessions(ctx context.Context, userID uuid.UUID, keep *uuid.UUID) error {
	revoked, err := s.sessionRepo.RevokeAllForUser(ctx, userID, keep)
	if err != nil {
		return err
	}
	if err := s.cacheSvc.DeleteSession(ctx, revoked...); err != nil {
		logger.FromContext(ctx).Warn("failed to evict sessions", zap.Error(err))
	}
	return nil
}

func (s *authService) EvictUserSessions(ctx context.Context, userID uuid.UUID) error {
	ids, err := s.sessionRepo.OpenIDsForUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.cacheSvc.DeleteSession(ctx, ids...)
}

func (s *authService) EvictOrganizationSessions(ctx context.Context, orgID uuid.UUID) error {
	ids, err := s.sessionRepo.OpenIDsForOrganization(ctx, orgID)
	if err != nil {
		return err
	}
	return s.cacheSvc.DeleteSession(ctx, ids...)
}

func (s *authService) CleanupSessions(ctx context.Context, olderThan time.Time) (int64, error) {
	return s.sessionRepo.DeleteStale(ctx, olderThan)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
