package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int           // Attempts allowed per client and window
	Window            time.Duration // Length of the fixed window
	KeyPrefix         string        // Redis key prefix
}

// fixedWindow counts attempts per key in Redis. The counter and its expiry are
// written in one pipeline so a key never outlives its window.
type fixedWindow struct {
	client *redis.Client
	config RateLimitConfig
}

type windowState struct {
	count int64
	reset time.Duration
}

func (f *fixedWindow) hit(ctx context.Context, client string) (windowState, error) {
	key := fmt.Sprintf("%s:%s", f.config.KeyPrefix, client)

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := f.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, f.config.Window)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return windowState{}, err
	}

	state := windowState{count: incr.Val(), reset: ttl.Val()}
	if state.reset <= 0 {
		state.reset = f.config.Window
	}
	return state, nil
}

// RateLimitMiddleware rejects clients that exceed the configured attempts per
// window with 429. Requests pass when Redis cannot be reached.
func RateLimitMiddleware(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	window := &fixedWindow{client: redisClient, config: config}
	limit := strconv.Itoa(config.RequestsPerWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientAddress(r)

			state, err := window.hit(r.Context(), client)
			if err != nil {
				logger.Error("Rate limit check failed", zap.Error(err), zap.String("client", client))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", limit)

			if state.count > int64(config.RequestsPerWindow) {
				logger.Warn("Rate limit exceeded",
					zap.String("client", client),
					zap.String("path", r.URL.Path),
					zap.Int64("count", state.count),
				)

				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(state.reset).Unix(), 10))
				w.Header().Set("Retry-After", strconv.Itoa(int(state.reset.Round(time.Second).Seconds())))
				RespondWithError(w, http.StatusTooManyRequests, "too many attempts, try again later")
				return
			}

			remaining := int64(config.RequestsPerWindow) - state.count
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			next.ServeHTTP(w, r)
		})
	}
}

// clientAddress strips the port so every connection from one host shares a counter.
// RealIP runs earlier in the chain.
func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
