package infrastructure

import (
	"context"
	"fmt"
	"time"

	"orderflow/internal/pkg/logger"
	"orderflow/internal/pkg/redis"
)

const stockCacheTTL = 30 * time.Second

// RedisStockCache is the advisory stock-quantity cache consulted by
// availability checks. Failures degrade to cache misses; the caller falls
// back to the store.
type RedisStockCache struct {
	client *redis.Client
}

func NewRedisStockCache(client *redis.Client) *RedisStockCache {
	return &RedisStockCache{client: client}
}

func stockKey(product string) string {
	return fmt.Sprintf("inventory:stock:%s", product)
}

func (c *RedisStockCache) GetQuantity(ctx context.Context, product string) (int, bool) {
	quantity, err := c.client.GetInt(ctx, stockKey(product))
	if err != nil {
		if !redis.IsNil(err) {
			logger.Ctx(ctx).Warn().Err(err).Str("product", product).Msg("stock cache read failed")
		}
		return 0, false
	}
	return quantity, true
}

func (c *RedisStockCache) SetQuantity(ctx context.Context, product string, quantity int) {
	if err := c.client.Set(ctx, stockKey(product), quantity, stockCacheTTL); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("product", product).Msg("stock cache write failed")
	}
}

func (c *RedisStockCache) Invalidate(ctx context.Context, product string) {
	if err := c.client.Del(ctx, stockKey(product)); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("product", product).Msg("stock cache invalidation failed")
	}
}
