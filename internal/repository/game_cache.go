package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/forgo/gamevault/api/internal/model"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent
var ErrCacheMiss = errors.New("cache miss")

// Cache is the key-value store CachedGameRepository reads through
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisCache acts as a wrapper around redis.Client to implement Cache
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new RedisCache instance
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Set stores a key-value pair with expiration
func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value by key
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

// Del deletes keys
func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

// Ping checks the Redis connection
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// GameStore is the store contract CachedGameRepository decorates
type GameStore interface {
	IsNameTaken(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, game *model.Game) (*model.Game, error)
	Paginate(ctx context.Context, filter model.GameFilter, opts model.QueryOptions) (*model.GamePage, error)
	GetByID(ctx context.Context, id string) (*model.Game, error)
	Save(ctx context.Context, game *model.Game) (*model.Game, error)
	Delete(ctx context.Context, id string) (*model.DeleteResult, error)
}

// CachedGameRepository caches single-game reads in front of another store.
// Writes go to the store first and then drop the cached entry. Cache faults
// are logged and bypassed; they never fail a request. Invalidation only
// covers writes made through this instance; other instances see them once
// their entry expires.
type CachedGameRepository struct {
	next   GameStore
	cache  Cache
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// CachedGameRepositoryConfig holds configuration for the cache decorator
type CachedGameRepositoryConfig struct {
	Store     GameStore
	Cache     Cache
	TTL       time.Duration
	KeyPrefix string       // defaults to "gamevault:"
	Logger    *slog.Logger // defaults to slog.Default()
}

// NewCachedGameRepository wraps a store with a read-through cache
func NewCachedGameRepository(cfg CachedGameRepositoryConfig) *CachedGameRepository {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "gamevault:"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedGameRepository{
		next:   cfg.Store,
		cache:  cfg.Cache,
		ttl:    cfg.TTL,
		prefix: prefix,
		logger: logger,
	}
}

func (r *CachedGameRepository) key(id string) (string, bool) {
	rid, ok := gameRecordID(id)
	if !ok {
		return "", false
	}
	return r.prefix + rid, true
}

// IsNameTaken always asks the store
func (r *CachedGameRepository) IsNameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	return r.next.IsNameTaken(ctx, name, excludeID)
}

// Create passes through to the store
func (r *CachedGameRepository) Create(ctx context.Context, game *model.Game) (*model.Game, error) {
	return r.next.Create(ctx, game)
}

// Paginate passes through to the store
func (r *CachedGameRepository) Paginate(ctx context.Context, filter model.GameFilter, opts model.QueryOptions) (*model.GamePage, error) {
	return r.next.Paginate(ctx, filter, opts)
}

// GetByID serves from cache when possible and fills the cache on a miss
func (r *CachedGameRepository) GetByID(ctx context.Context, id string) (*model.Game, error) {
	key, ok := r.key(id)
	if !ok {
		return r.next.GetByID(ctx, id)
	}

	raw, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		var game model.Game
		if err := json.Unmarshal([]byte(raw), &game); err == nil {
			return &game, nil
		}
		r.logger.WarnContext(ctx, "discarding corrupt cached game", slog.String("key", key))
		r.drop(ctx, key)
	case !errors.Is(err, ErrCacheMiss):
		r.logger.WarnContext(ctx, "game cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	game, err := r.next.GetByID(ctx, id)
	if err != nil || game == nil {
		return game, err
	}

	if data, err := json.Marshal(game); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			r.logger.WarnContext(ctx, "game cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	return game, nil
}

// GetByIDUncached reads straight from the store. Updates load through it:
// invalidation only reaches this process's writes, so a cached copy may be
// older than a write made by another instance.
func (r *CachedGameRepository) GetByIDUncached(ctx context.Context, id string) (*model.Game, error) {
	return r.next.GetByID(ctx, id)
}

// Save writes through to the store and invalidates the cached entry
func (r *CachedGameRepository) Save(ctx context.Context, game *model.Game) (*model.Game, error) {
	saved, err := r.next.Save(ctx, game)
	if key, ok := r.key(game.ID); ok {
		r.drop(ctx, key)
	}
	return saved, err
}

// Delete removes from the store and invalidates the cached entry
func (r *CachedGameRepository) Delete(ctx context.Context, id string) (*model.DeleteResult, error) {
	result, err := r.next.Delete(ctx, id)
	if key, ok := r.key(id); ok {
		r.drop(ctx, key)
	}
	return result, err
}

func (r *CachedGameRepository) drop(ctx context.Context, key string) {
	if err := r.cache.Del(ctx, key); err != nil {
		r.logger.WarnContext(ctx, "game cache invalidation failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
