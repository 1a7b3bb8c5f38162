// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/time/rate"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/pkg/constants"
)

// maxTrackedKeys bounds the limiter table; it is cleared when full.
const maxTrackedKeys = 10000

// KeyedRateLimiter keeps one token bucket per key.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewKeyedRateLimiter allows perSecond requests per key with the given burst.
func NewKeyedRateLimiter(perSecond float64, burst int) *KeyedRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

// Allow reports whether a request for key may proceed now.
func (l *KeyedRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxTrackedKeys {
			l.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}

// RateLimitMiddleware answers 429 when the key returned by keyFunc is over its limit.
// Requests with an empty key are not limited. onLimited may be nil.
func RateLimitMiddleware(limiter *KeyedRateLimiter, keyFunc func(*http.Request) string, onLimited func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key != "" && !limiter.Allow(key) {
				if onLimited != nil {
					onLimited()
				}
				slog.WarnContext(r.Context(), "request rate limited", "rate_limit_key", key)
				w.Header().Set(constants.RetryAfterHeader, strconv.Itoa(1))
				writeJSONError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
