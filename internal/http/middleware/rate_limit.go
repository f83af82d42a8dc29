package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/ignatzorin/activity-favorites/internal/graph"
	"github.com/ignatzorin/activity-favorites/internal/pkg/apperror"
)

const limiterPrefix = "favorites_limiter"

// Лимиты чувствительных операций на один IP.
var (
	LoginRate    = limiter.Rate{Period: time.Minute, Limit: 5}
	RegisterRate = limiter.Rate{Period: time.Minute, Limit: 3}
)

// NewLimiterStore возвращает redis store, если клиент задан, иначе store в памяти.
// Redis нужен, когда запущено несколько экземпляров сервиса.
func NewLimiterStore(client *redis.Client) (limiter.Store, error) {
	opts := limiter.StoreOptions{Prefix: limiterPrefix, CleanUpInterval: time.Minute}
	if client == nil {
		return memory.NewStoreWithOptions(opts), nil
	}
	store, err := sredis.NewStoreWithOptions(client, opts)
	if err != nil {
		return nil, fmt.Errorf("rate limit: redis store: %w", err)
	}
	return store, nil
}

func newRate(limit int64, period time.Duration) limiter.Rate {
	if limit <= 0 {
		limit = 10
	}
	if period <= 0 {
		period = time.Minute
	}
	return limiter.Rate{Period: period, Limit: limit}
}

// RateLimitMiddleware ограничивает количество запросов с одного IP.
// По умолчанию: 10 запросов в минуту.
func RateLimitMiddleware(store limiter.Store, name string, limit int64, period time.Duration) gin.HandlerFunc {
	instance := limiter.New(store, newRate(limit, period))

	return func(c *gin.Context) {
		lctx, err := instance.Get(c.Request.Context(), name+":"+c.ClientIP())
		if err != nil {
			abortWithError(c, apperror.Internal(err, "ошибка ограничителя запросов"))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			abortWithError(c, apperror.ErrTooManyRequests)
			return
		}

		c.Next()
	}
}

// OperationThrottler ограничивает отдельные GraphQL операции по IP клиента.
type OperationThrottler struct {
	limiters map[string]*limiter.Limiter
}

// NewOperationThrottler создаёт ограничители для login и register.
func NewOperationThrottler(store limiter.Store) *OperationThrottler {
	return &OperationThrottler{limiters: map[string]*limiter.Limiter{
		"login":    limiter.New(store, LoginRate),
		"register": limiter.New(store, RegisterRate),
	}}
}

// Throttle реализует graph.Throttler.
func (t *OperationThrottler) Throttle(ctx context.Context, op string) error {
	instance, ok := t.limiters[op]
	if !ok {
		return nil
	}
	lctx, err := instance.Get(ctx, "gql:"+op+":"+graph.ClientIP(ctx))
	if err != nil {
		return apperror.Internal(err, "ошибка ограничителя запросов")
	}
	if lctx.Reached {
		return apperror.ErrTooManyRequests
	}
	return nil
}
