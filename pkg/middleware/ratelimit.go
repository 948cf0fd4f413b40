package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/iota-uz/civreg/pkg/composables"
	"github.com/iota-uz/civreg/pkg/httpapi"
	"github.com/iota-uz/civreg/pkg/redisclient"
)

const rateLimitPrefix = "registry:ratelimit"

type RateLimitConfig struct {
	RequestsPerPeriod int
	// Period defaults to one second.
	Period time.Duration
	Store  limiter.Store
	// RealIPHeader names the proxy header carrying the client address.
	RealIPHeader string
}

func NewMemoryStore() limiter.Store {
	return memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          rateLimitPrefix,
		CleanUpInterval: time.Minute,
	})
}

func NewRedisStore(url string) (limiter.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := redisclient.New(ctx, url)
	if err != nil {
		return nil, err
	}
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   rateLimitPrefix,
		MaxRetry: 3,
	})
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return store, nil
}

// RateLimit counts requests per client address. Store errors let the request through.
func RateLimit(cfg RateLimitConfig) mux.MiddlewareFunc {
	period := cfg.Period
	if period <= 0 {
		period = time.Second
	}
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	instance := limiter.New(store, limiter.Rate{Period: period, Limit: int64(cfg.RequestsPerPeriod)})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.RequestsPerPeriod <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			key, ok := realIP(r, cfg.RealIPHeader)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			lctx, err := instance.Get(r.Context(), key)
			if err != nil {
				composables.UseLogger(r.Context()).WithError(err).Warn("rate limit store unavailable")
				next.ServeHTTP(w, r)
				return
			}
			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))
			if lctx.Reached {
				_ = httpapi.WriteRequestError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", composables.UseRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
