package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/reclaimed-storefront/pkg/auth"
	"github.com/tair/reclaimed-storefront/pkg/logger"
)

// RateLimiter is a sliding window limiter backed by redis sorted sets.
// A nil limiter or a nil client lets every request through.
type RateLimiter struct {
	redis       *redis.Client
	prefix      string
	maxRequests int
	window      time.Duration
}

func NewRateLimiter(client *redis.Client, prefix string, maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:       client,
		prefix:      prefix,
		maxRequests: maxRequests,
		window:      window,
	}
}

// Limit wraps next. Requests are keyed by viewer id, falling back to the client address.
func (rl *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	if rl == nil || rl.redis == nil || rl.maxRequests <= 0 {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		identifier := "ip:" + clientIP(r)
		if viewerID := auth.ViewerID(r.Context()); viewerID != "" {
			identifier = "viewer:" + viewerID
		}

		allowed, remaining, resetTime, err := rl.checkLimit(r.Context(), identifier)
		if err != nil {
			// fail open
			logger.Error(r.Context()).Err(err).Str("identifier", identifier).Msg("Rate limiter error")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			logger.Warn(r.Context()).
				Str("identifier", identifier).
				Int("limit", rl.maxRequests).
				Msg("Rate limit exceeded")
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			respondError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	}
}

func (rl *RateLimiter) checkLimit(ctx context.Context, identifier string) (bool, int, time.Time, error) {
	key := fmt.Sprintf("%s:%s", rl.prefix, identifier)
	now := time.Now()
	windowStart := now.Add(-rl.window)

	pipe := rl.redis.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, key, rl.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := countCmd.Val()
	remaining := rl.maxRequests - int(count) - 1
	if remaining < 0 {
		remaining = 0
	}

	return count < int64(rl.maxRequests), remaining, now.Add(rl.window), nil
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
