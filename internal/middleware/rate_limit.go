package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"harmonyhealth/internal/httputil"
)

// RateLimitConfig configures per-user request throttling
type RateLimitConfig struct {
	RequestsPerMin int
	BurstSize      int
	// IdleTTL is how long an unused limiter is kept
	IdleTTL time.Duration
}

// RateLimit throttles requests per authenticated user, falling back to the
// remote address for anonymous requests. It must run after Auth. The
// cleanup goroutine stops when ctx is cancelled.
func RateLimit(ctx context.Context, cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.IdleTTL == 0 {
		cfg.IdleTTL = 3 * time.Minute
	}

	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	clients := make(map[string]*client)
	mu := &sync.Mutex{}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				mu.Lock()
				for key, c := range clients {
					if time.Since(c.lastSeen) > cfg.IdleTTL {
						delete(clients, key)
					}
				}
				mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if userID, ok := httputil.GetUserID(r); ok {
				key = "user:" + strconv.FormatInt(userID, 10)
			}

			mu.Lock()
			c, exists := clients[key]
			if !exists {
				c = &client{
					limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMin)/60.0), cfg.BurstSize),
				}
				clients[key] = c
			}
			c.lastSeen = time.Now()
			limiter := c.limiter
			mu.Unlock()

			if !limiter.Allow() {
				w.Header().Set("Retry-After", "60")
				httputil.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
