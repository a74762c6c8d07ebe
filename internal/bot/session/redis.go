package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"concierge-bot/internal/common/cache"
	apperrors "concierge-bot/internal/common/errors"
)

// RedisStore keeps sessions as JSON under session:<telegram id> with a TTL
// refreshed on every save.
type RedisStore struct {
	cache *cache.CacheService
	ttl   time.Duration
}

func NewRedisStore(c *cache.CacheService, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

func key(telegramID int64) string {
	return "session:" + strconv.FormatInt(telegramID, 10)
}

func (r *RedisStore) Load(ctx context.Context, telegramID int64) (*Session, error) {
	var s Session
	err := r.cache.Get(ctx, key(telegramID), &s)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return New(telegramID), nil
		}
		return nil, apperrors.NewCacheError("load session", err)
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	s.UpdatedAt = time.Now()
	if err := r.cache.Set(ctx, key(s.TelegramID), s, r.ttl); err != nil {
		return apperrors.NewCacheError("save session", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, telegramID int64) error {
	if err := r.cache.Delete(ctx, key(telegramID)); err != nil {
		return apperrors.NewCacheError("delete session", err)
	}
	return nil
}
