package rediscache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fsdevblog/groph-orders/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderKey(t *testing.T) {
	assert.Equal(t, "orders:1", orderKey(1))
	assert.Equal(t, "orders:9007199254740993", orderKey(9007199254740993))
}

func TestNewOrderCacheDefaultTTL(t *testing.T) {
	c := NewOrderCache(nil, 0)
	assert.Equal(t, DefaultTTL, c.ttl)

	c = NewOrderCache(nil, time.Second)
	assert.Equal(t, time.Second, c.ttl)
}

func TestOrderCacheUnavailable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()

	c := NewOrderCache(rdb, time.Minute)

	_, err := c.Get(ctx, 1)
	require.Error(t, err)

	require.Error(t, c.Delete(ctx, 1))

	_, err = Connect(ctx, "127.0.0.1:1")
	require.Error(t, err)
}

func newMiniredisCache(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *OrderCache) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return mr, NewOrderCache(rdb, ttl)
}

func TestOrderCacheSetGet(t *testing.T) {
	mr, c := newMiniredisCache(t, time.Minute)
	ctx := t.Context()

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	order := domain.Order{
		ID:        1,
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
		UserID:    7,
		Amount:    decimal.RequireFromString("1234.56"),
		Status:    domain.OrderStatusCreated,
	}

	require.NoError(t, c.Set(ctx, order))
	assert.True(t, mr.Exists("orders:1"))
	assert.Equal(t, time.Minute, mr.TTL("orders:1"))

	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, order.UserID, got.UserID)
	assert.Equal(t, order.Status, got.Status)
	assert.True(t, order.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, order.UpdatedAt.Equal(got.UpdatedAt))
	assert.True(t, order.Amount.Equal(got.Amount), "amount %s != %s", order.Amount, got.Amount)
	assert.Equal(t, "1234.56", got.Amount.StringFixed(2))

	_, err = c.Get(ctx, 2)
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestOrderCacheExpires(t *testing.T) {
	mr, c := newMiniredisCache(t, time.Minute)
	ctx := t.Context()

	require.NoError(t, c.Set(ctx, domain.Order{ID: 3, Amount: decimal.NewFromInt(1)}))

	mr.FastForward(time.Minute + time.Second)

	_, err := c.Get(ctx, 3)
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestOrderCacheDelete(t *testing.T) {
	_, c := newMiniredisCache(t, time.Minute)
	ctx := t.Context()

	require.NoError(t, c.Set(ctx, domain.Order{ID: 5, Amount: decimal.RequireFromString("0.01")}))
	_, err := c.Get(ctx, 5)
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, 5))

	_, err = c.Get(ctx, 5)
	require.ErrorIs(t, err, domain.ErrRecordNotFound)

	// повторное удаление отсутствующего ключа не ошибка.
	require.NoError(t, c.Delete(ctx, 5))
}

func TestOrderCacheCorruptedValue(t *testing.T) {
	mr, c := newMiniredisCache(t, time.Minute)

	require.NoError(t, mr.Set("orders:9", "not json"))

	_, err := c.Get(t.Context(), 9)
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrRecordNotFound)

	var syntaxErr *json.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
}
