package redis

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// SearchCache is the short-TTL cache in front of the dropdown search.
// It is injected where needed rather than held as process-global state.
// Cached results may be stale for up to the TTL.
type SearchCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewSearchCache(client *goredis.Client, ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = 20 * time.Second
	}
	return &SearchCache{client: client, ttl: ttl}
}

func (c *SearchCache) TTL() time.Duration {
	return c.ttl
}

// Key builds the cache key for one (user, normalized query, limit)
// triple.
func (c *SearchCache) Key(userID int64, query string, limit int) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%d|%s|%d", userID, strings.ToLower(query), limit)))
	return "chat_dropdown_search:" + hex.EncodeToString(sum[:])
}

// Get returns the cached payload, reporting a miss with ok=false.
func (c *SearchCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *SearchCache) Set(ctx context.Context, key string, payload []byte) error {
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}
