package service

import (
	"context"
	"encoding/json"
	"time"

	"shift-service/internal/cache"
)

// Cache failures are never fatal here: the store remains the source of
// truth and a miss just means one more query.

func cacheGetJSON(ctx context.Context, c cache.Cache, key string, dst any) (bool, error) {
	if c == nil {
		return false, nil
	}

	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, err
	}

	return true, nil
}

func cacheSetJSON(ctx context.Context, c cache.Cache, key string, v any, ttl time.Duration) error {
	if c == nil {
		return nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return c.Set(ctx, key, string(raw), ttl)
}
