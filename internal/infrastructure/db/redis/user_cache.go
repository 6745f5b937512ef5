package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/profilehub/membership-service/internal/core/domain"
	"github.com/profilehub/membership-service/internal/core/ports"
)

const defaultProfileTTL = 5 * time.Minute

// cacheStore is the subset of the redis client the cache relies on.
type cacheStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedUserRepository caches FindByID lookups in Redis in front of another
// repository. Key format: user:profile:<id>
//
// Redis is never authoritative: any cache failure is logged and the call is
// served by the inner repository.
type CachedUserRepository struct {
	inner ports.UserRepository
	store cacheStore
	ttl   time.Duration
	log   zerolog.Logger
}

// NewCachedUserRepository wraps inner with a Redis cache. A non-positive ttl
// falls back to defaultProfileTTL.
func NewCachedUserRepository(inner ports.UserRepository, client *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedUserRepository {
	return newCachedUserRepository(inner, client, ttl, log)
}

func newCachedUserRepository(inner ports.UserRepository, store cacheStore, ttl time.Duration, log zerolog.Logger) *CachedUserRepository {
	if ttl <= 0 {
		ttl = defaultProfileTTL
	}
	return &CachedUserRepository{
		inner: inner,
		store: store,
		ttl:   ttl,
		log:   log.With().Str("component", "user_cache").Logger(),
	}
}

func (r *CachedUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	key := r.key(id)

	raw, err := r.store.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		user, decodeErr := decodeUser(raw)
		if decodeErr == nil {
			return user, nil
		}
		r.log.Warn().Err(decodeErr).Str("user_id", id).Msg("discarding corrupt cache entry")
	case !errors.Is(err, redis.Nil):
		r.log.Warn().Err(err).Str("user_id", id).Msg("cache read failed")
	}

	user, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user.Attributes()); err == nil {
		if err := r.store.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.log.Warn().Err(err).Str("user_id", id).Msg("cache write failed")
		}
	}
	return user, nil
}

func (r *CachedUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.inner.FindByEmail(ctx, email)
}

func (r *CachedUserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	return r.inner.FindAll(ctx)
}

// Save writes through to the inner repository, then refreshes the cached
// entry with the saved user. When the entry can be neither refreshed nor
// deleted, Save fails: the cache would otherwise serve the previous version
// until the TTL expires.
func (r *CachedUserRepository) Save(ctx context.Context, user *domain.User) error {
	if err := r.inner.Save(ctx, user); err != nil {
		return err
	}

	key := r.key(user.ID())
	payload, err := json.Marshal(user.Attributes())
	if err == nil {
		if err = r.store.Set(ctx, key, payload, r.ttl).Err(); err == nil {
			return nil
		}
	}
	r.log.Warn().Err(err).Str("user_id", user.ID()).Msg("cache refresh failed, invalidating")

	if err := r.store.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("invalidate cached user %s: %w", user.ID(), err)
	}
	return nil
}

func (r *CachedUserRepository) key(id string) string {
	return fmt.Sprintf("user:profile:%s", id)
}

func decodeUser(raw []byte) (*domain.User, error) {
	var attrs domain.UserAttributes
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, fmt.Errorf("decode cached user: %w", err)
	}
	return domain.NewUser(attrs)
}
