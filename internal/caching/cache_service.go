package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dormdesk/internal/config"
	"dormdesk/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dormdesk"

// DashboardTTL is how long a dashboard summary stays cached
const DashboardTTL = 5 * time.Minute

// CacheService is a best-effort cache. Get methods return (nil, nil) on a miss.
type CacheService interface {
	// Session principals
	GetPrincipal(ctx context.Context, sessionID uuid.UUID) (*models.SessionPrincipal, error)
	SetPrincipal(ctx context.Context, principal *models.SessionPrincipal, ttl time.Duration) error
	DeleteSession(ctx context.Context, sessionIDs ...uuid.UUID) error

	// Dashboard summaries
	GetDashboard(ctx context.Context, orgID uuid.UUID, month string) (*models.DashboardSummary, error)
	SetDashboard(ctx context.Context, orgID uuid.UUID, summary *models.DashboardSummary, ttl time.Duration) error
	InvalidateDashboard(ctx context.Context, orgID uuid.UUID) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int) (bool, error)
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) error
	ResetRateLimit(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisClient builds a client from config. The address may carry a redis:// or rediss:// scheme.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	addr := strings.TrimPrefix(strings.TrimPrefix(cfg.Addr, "redis://"), "rediss://")
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewRedisCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func sessionKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, sessionID.String())
}

func dashboardKey(orgID uuid.UUID, month string) string {
	return fmt.Sprintf("%s:dashboard:%s:%s", keyPrefix, orgID.String(), month)
}

func rateLimitKey(key string) string {
	return fmt.Sprintf("%s:ratelimit:%s", keyPrefix, key)
}

func (r *redisCacheService) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) GetPrincipal(ctx context.Context, sessionID uuid.UUID) (*models.SessionPrincipal, error) {
	var p models.SessionPrincipal
	found, err := r.getJSON(ctx, sessionKey(sessionID), &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// SetPrincipal caches p for ttl, capped at the session expiry
func (r *redisCacheService) SetPrincipal(ctx context.Context, p *models.SessionPrincipal, ttl time.Duration) error {
	if remaining := time.Until(p.ExpiresAt); remaining < ttl {
		ttl = remaining
	}
	if ttl <= 0 {
		return nil
	}
	return r.setJSON(ctx, sessionKey(p.SessionID), p, ttl)
}

func (r *redisCacheService) DeleteSession(ctx context.Context, sessionIDs ...uuid.UUID) error {
	if len(sessionIDs) == 0 {
		return nil
	}
	keys := make([]string, len(sessionIDs))
	for i, id := range sessionIDs {
		keys[i] = sessionKey(id)
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisCacheService) GetDashboard(ctx context.Context, orgID uuid.UUID, month string) (*models.DashboardSummary, error) {
	var summary models.DashboardSummary
	found, err := r.getJSON(ctx, dashboardKey(orgID, month), &summary)
	if err != nil || !found {
		return nil, err
	}
	return &summary, nil
}

func (r *redisCacheService) SetDashboard(ctx context.Context, orgID uuid.UUID, summary *models.DashboardSummary, ttl time.Duration) error {
	return r.setJSON(ctx, dashboardKey(orgID, summary.Month), summary, ttl)
}

// InvalidateDashboard drops every cached month of the organization
func (r *redisCacheService) InvalidateDashboard(ctx context.Context, orgID uuid.UUID) error {
	pattern := fmt.Sprintf("%s:dashboard:%s:*", keyPrefix, orgID.String())
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// IsRateLimited reports whether key already reached limit within its window
func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int) (bool, error) {
	val, err := r.client.Get(ctx, rateLimitKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return false, err
	}
	return count >= limit, nil
}

func (r *redisCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	cacheKey := rateLimitKey(key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return err
	}
	// the window starts at the first failure
	if count == 1 {
		return r.client.Expire(ctx, cacheKey, window).Err()
	}
	return nil
}

func (r *redisCacheService) ResetRateLimit(ctx context.Context, key string) error {
	return r.client.Del(ctx, rateLimitKey(key)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
