package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/utils"
)

// TTLs per entity family. The scenario bundle changes rarely compared to the
// brief, which editors save continuously.
const (
	ScenarioTTL = 5 * time.Minute
	BriefTTL    = 2 * time.Minute
)

// Cache is a best-effort read-through layer. Every method tolerates a nil
// receiver so callers never branch on whether caching is configured.
type Cache struct {
	log *logger.Logger
	rdb *goredis.Client
}

// New connects to redis when REDIS_ADDR is set and returns nil otherwise.
// A nil *Cache is valid and caches nothing.
func New(log *logger.Logger) (*Cache, error) {
	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", log))
	if addr == "" {
		log.Info("REDIS_ADDR not set, caching disabled")
		return nil, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Cache{log: log.With("service", "Cache"), rdb: rdb}, nil
}

func (c *Cache) Close() {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Close()
}

// GetJSON loads key into dst, reporting whether it was present. Redis errors
// degrade to a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("cache entry not decodable, dropping", "key", key, "error", err)
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache value not encodable", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Warn("cache write failed", "key", key, "error", err)
	}
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}

func ScenarioKey(id fmt.Stringer) string { return "scenario:" + id.String() }
func BriefKey(id fmt.Stringer) string    { return "brief:" + id.String() }
