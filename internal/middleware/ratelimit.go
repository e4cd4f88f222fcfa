package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/liamwears/reelbase/internal/logger"
	"github.com/liamwears/reelbase/internal/metrics"
)

// RateLimiter provides a Redis sliding window rate limit
type RateLimiter struct {
	redis       redis.Cmdable
	maxRequests int
	window      time.Duration
	enabled     bool
	logger      *zap.Logger
	now         func() time.Time
}

// NewRateLimiter creates a new rate limiter. A disabled limiter lets every
// request through.
func NewRateLimiter(redis redis.Cmdable, maxRequests int, window time.Duration, enabled bool, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		redis:       redis,
		maxRequests: maxRequests,
		window:      window,
		enabled:     enabled,
		logger:      logger,
		now:         time.Now,
	}
}

// Limit returns a middleware that rate limits requests
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identifier := rl.getIdentifier(r)

		allowed, err := rl.checkRateLimit(r.Context(), identifier)
		if err != nil {
			// Fail open: Redis trouble must not take the API down
			logger.From(r.Context(), rl.logger).Warn("rate limit check failed", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		if !allowed {
			metrics.RateLimitHits.Inc()
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rl.window.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too many requests. Please try again later."}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getIdentifier returns the user id when authenticated, the client IP otherwise
func (rl *RateLimiter) getIdentifier(r *http.Request) string {
	if session, ok := SessionFromContext(r.Context()); ok && session.UserID != "" {
		return fmt.Sprintf("user:%s", session.UserID)
	}

	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return fmt.Sprintf("ip:%s", ip)
}

// checkRateLimit checks if the request should be allowed
func (rl *RateLimiter) checkRateLimit(ctx context.Context, identifier string) (bool, error) {
	if !rl.enabled {
		return true, nil
	}

	key := fmt.Sprintf("ratelimit:%s", identifier)
	now := rl.now()
	windowStart := now.Add(-rl.window).UnixNano()

	// Use Redis sorted set for sliding window
	pipe := rl.redis.TxPipeline()

	// Remove old entries outside the window
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))

	// Count requests in current window
	countCmd := pipe.ZCard(ctx, key)

	// Add current request; members must be unique within the window
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})

	pipe.Expire(ctx, key, rl.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return countCmd.Val() < int64(rl.maxRequests), nil
}
