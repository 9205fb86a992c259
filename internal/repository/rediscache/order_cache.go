package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fsdevblog/groph-orders/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL = 5 * time.Minute

	orderKeyPrefix = "orders:"
)

// OrderCache кеш заказов в redis. Значения хранятся в json под ключом orders:<id>.
type OrderCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewOrderCache(rdb redis.Cmdable, ttl time.Duration) *OrderCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &OrderCache{rdb: rdb, ttl: ttl}
}

// Get возвращает заказ из кеша. Промах - domain.ErrRecordNotFound.
func (c *OrderCache) Get(ctx context.Context, id int64) (*domain.Order, error) {
	raw, err := c.rdb.Get(ctx, orderKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("[cache/order] %w: id %d", domain.ErrRecordNotFound, id)
		}
		return nil, fmt.Errorf("[cache/order] get %d: %w", id, err)
	}

	var order domain.Order
	if err = json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("[cache/order] decode %d: %w", id, err)
	}
	return &order, nil
}

func (c *OrderCache) Set(ctx context.Context, order domain.Order) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("[cache/order] encode %d: %w", order.ID, err)
	}
	if err = c.rdb.Set(ctx, orderKey(order.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("[cache/order] set %d: %w", order.ID, err)
	}
	return nil
}

func (c *OrderCache) Delete(ctx context.Context, id int64) error {
	if err := c.rdb.Del(ctx, orderKey(id)).Err(); err != nil {
		return fmt.Errorf("[cache/order] delete %d: %w", id, err)
	}
	return nil
}

func orderKey(id int64) string {
	return orderKeyPrefix + strconv.FormatInt(id, 10)
}
