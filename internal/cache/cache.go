// Package cache содержит кэш итоговых сумм сервисных заказов в Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// OrderTotals описывает кэш итоговых сумм заказов.
//
// Каждая инвалидация увеличивает поколение суммы заказа. Читатель запоминает
// поколение до расчёта и передаёт его в Set: если за это время сумма была
// инвалидирована, устаревшее значение не сохраняется.
type OrderTotals interface {
	Get(ctx context.Context, orderID int64) (string, bool, error)
	Generation(ctx context.Context, orderID int64) (int64, error)
	Set(ctx context.Context, orderID, generation int64, total string) error
	Invalidate(ctx context.Context, orderID int64) error
	Close() error
}

// generationTTL ограничивает время жизни счётчика поколений неизменяемых заказов.
const generationTTL = 24 * time.Hour

// setIfGeneration сохраняет сумму, только если поколение заказа совпадает с ARGV[1].
var setIfGeneration = redis.NewScript(`
local gen = redis.call("GET", KEYS[2]) or "0"
if gen ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// RedisOrderTotals хранит итоговые суммы заказов в Redis.
type RedisOrderTotals struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis подключается к Redis по указанному адресу и проверяет соединение.
func NewRedis(ctx context.Context, addr string, ttl time.Duration) (*RedisOrderTotals, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive: %s", ttl)
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisOrderTotals{client: client, ttl: ttl}, nil
}

func totalKey(orderID int64) string {
	return "service-order:" + strconv.FormatInt(orderID, 10) + ":total"
}

func generationKey(orderID int64) string {
	return "service-order:" + strconv.FormatInt(orderID, 10) + ":gen"
}

// Get возвращает сохранённую сумму заказа и признак её наличия.
func (c *RedisOrderTotals) Get(ctx context.Context, orderID int64) (string, bool, error) {
	v, err := c.client.Get(ctx, totalKey(orderID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get order total: %w", err)
	}
	return v, true, nil
}

// Generation возвращает текущее поколение суммы заказа. Для заказа без инвалидаций это ноль.
func (c *RedisOrderTotals) Generation(ctx context.Context, orderID int64) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(orderID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get order total generation: %w", err)
	}
	return gen, nil
}

// Set сохраняет сумму заказа, если с момента чтения generation она не была инвалидирована.
func (c *RedisOrderTotals) Set(ctx context.Context, orderID, generation int64, total string) error {
	err := setIfGeneration.Run(ctx, c.client,
		[]string{totalKey(orderID), generationKey(orderID)},
		strconv.FormatInt(generation, 10), total, c.ttl.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("set order total: %w", err)
	}
	return nil
}

// Invalidate удаляет сумму заказа из кэша и увеличивает её поколение.
func (c *RedisOrderTotals) Invalidate(ctx context.Context, orderID int64) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(orderID))
		pipe.Expire(ctx, generationKey(orderID), generationTTL)
		pipe.Del(ctx, totalKey(orderID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate order total: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (c *RedisOrderTotals) Close() error {
	return c.client.Close()
}

// Noop используется, когда Redis не настроен.
type Noop struct{}

func (Noop) Get(context.Context, int64) (string, bool, error) { return "", false, nil }
func (Noop) Generation(context.Context, int64) (int64, error) { return 0, nil }
func (Noop) Set(context.Context, int64, int64, string) error  { return nil }
func (Noop) Invalidate(context.Context, int64) error          { return nil }
func (Noop) Close() error                                     { return nil }
