package settings

import (
	"context"
	"errors"
	"time"

	"frangapp/internal/logger"
	"frangapp/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	KeyCurrencyCode     = "currency_code"
	KeyCurrencySymbol   = "currency_symbol"
	KeySiteLogo         = "site_logo"
	KeyGoogleEnabled    = "google_enabled"
	KeyGoogleID         = "google_id"
	KeyStripePublishKey = "stripe_publish_key"
	KeyStripeSecretKey  = "stripe_secret_key"
	KeyIonicIcons       = "ionic_icons"

	cachePrefix = "settings:"
)

// Reader is the read side of the site settings key/value store.
// Missing keys read as the empty string.
type Reader interface {
	Get(ctx context.Context, key string) (string, error)
}

// Static is a fixed in-memory Reader.
type Static map[string]string

func (s Static) Get(_ context.Context, key string) (string, error) {
	return s[key], nil
}

// CachedStore reads settings from the database through a Redis cache.
type CachedStore struct {
	repo  Repository
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedStore(repo Repository, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{repo: repo, redis: rdb, ttl: ttl}
}

func (s *CachedStore) Get(ctx context.Context, key string) (string, error) {
	if s.redis == nil || s.ttl <= 0 {
		return s.repo.Get(ctx, key)
	}

	cacheKey := cachePrefix + key
	value, err := s.redis.Get(ctx, cacheKey).Result()
	switch {
	case err == nil:
		metrics.RecordSettingsCache("hit")
		return value, nil
	case errors.Is(err, redis.Nil):
		metrics.RecordSettingsCache("miss")
	default:
		metrics.RecordSettingsCache("error")
		logger.Warn("settings cache unavailable, reading database", "key", key, "error", err)
	}

	value, err = s.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}

	if err := s.redis.Set(ctx, cacheKey, value, s.ttl).Err(); err != nil {
		logger.Warn("failed to cache setting", "key", key, "error", err)
	}
	return value, nil
}

// Set writes a setting and drops its cached value.
func (s *CachedStore) Set(ctx context.Context, key, value string) error {
	if err := s.repo.Set(ctx, key, value); err != nil {
		return err
	}
	// The row is committed; a stale cache entry expires with its TTL.
	if err := s.Invalidate(ctx, key); err != nil {
		metrics.RecordSettingsCache("error")
		logger.Warn("setting saved but cache not invalidated", "key", key, "ttl", s.ttl.String(), "error", err)
	}
	return nil
}

// Invalidate drops cached values so the next read hits the database.
func (s *CachedStore) Invalidate(ctx context.Context, keys ...string) error {
	if s.redis == nil || len(keys) == 0 {
		return nil
	}
	cacheKeys := make([]string, len(keys))
	for i, k := range keys {
		cacheKeys[i] = cachePrefix + k
	}
	return s.redis.Del(ctx, cacheKeys...).Err()
}
