// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go caches rendered JSON responses of the public read API in
// Valkey. Entries are grouped by scope (blog, kb, partners, authors) so an
// admin write only clears the scope it touched.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// responseKeyPrefix is the Valkey key prefix for cached responses.
	responseKeyPrefix = "resp:"

	// DefaultTTL is how long a cached response stays valid.
	DefaultTTL = 5 * time.Minute
)

// ResponseCache stores response bodies in Valkey. A nil *ResponseCache is
// valid and caches nothing, so callers need no "cache enabled" checks.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given Valkey client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Key builds the cache key for a request path within scope.
func Key(scope, requestURI string) string {
	return responseKeyPrefix + scope + ":" + requestURI
}

// Get retrieves a cached body. Errors are logged and reported as a miss.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("response cache hit", "key", key)
	return val, true
}

// Set stores a body with the configured TTL.
func (c *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, key, body, c.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// InvalidateScope removes every cached response of scope.
func (c *ResponseCache) InvalidateScope(ctx context.Context, scope string) {
	if c == nil {
		return
	}
	c.deleteMatching(ctx, responseKeyPrefix+scope+":*")
}

// InvalidateAll removes every cached response.
func (c *ResponseCache) InvalidateAll(ctx context.Context) {
	if c == nil {
		return
	}
	c.deleteMatching(ctx, responseKeyPrefix+"*")
}

// deleteMatching scans for keys matching pattern and deletes them in batches.
func (c *ResponseCache) deleteMatching(ctx context.Context, pattern string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "pattern", pattern, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("response cache cleared", "pattern", pattern, "deleted", deleted)
	}
}
