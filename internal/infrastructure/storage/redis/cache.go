package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stockdash/internal/application/port"
	"stockdash/internal/domain/model"
)

// Cache stores serialized price series under "prefix:SYMBOL" with a
// fixed TTL. Entries are written only after a successful provider
// fetch; they expire on their own and are never invalidated by store
// writes from other paths.
type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func New(rdb *redis.Client, prefix string, ttl time.Duration) *Cache {
	if prefix == "" {
		prefix = "stock"
	}
	return &Cache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *Cache) key(symbol string) string {
	return c.prefix + ":" + model.NormalizeSymbol(symbol)
}

func (c *Cache) GetSeries(ctx context.Context, symbol string) ([]model.PriceBar, bool, error) {
	payload, err := c.rdb.Get(ctx, c.key(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var bars []model.PriceBar
	if err := json.Unmarshal(payload, &bars); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", c.key(symbol), port.ErrCorruptEntry)
	}
	return bars, true, nil
}

func (c *Cache) SetSeries(ctx context.Context, symbol string, bars []model.PriceBar) error {
	payload, err := json.Marshal(bars)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(symbol), payload, c.ttl).Err()
}

func (c *Cache) DeleteSeries(ctx context.Context, symbol string) error {
	return c.rdb.Del(ctx, c.key(symbol)).Err()
}

var _ port.SeriesCache = (*Cache)(nil)
