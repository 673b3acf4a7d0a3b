package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimit returns middleware that limits requests per IP to maxRequests
// within the given window, using a fixed-window counter in Redis. Counters
// in Redis (rather than process memory) keep limits effective across
// restarts and when more than one replica runs.
//
// Applied to the auth POST endpoints to slow brute-force and credential
// stuffing. If Redis is unreachable the request is allowed through -- an
// outage of the counter store must not take down login.
func RateLimit(rdb *redis.Client, name string, maxRequests int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			// Key by limiter name + IP + current window so counters roll
			// over automatically and expire on their own.
			windowStart := time.Now().Unix() / int64(window.Seconds())
			key := fmt.Sprintf("ratelimit:%s:%s:%d", name, c.RealIP(), windowStart)

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				slog.Warn("rate limiter unavailable, allowing request",
					slog.String("limiter", name),
					slog.Any("error", err),
				)
				return next(c)
			}

			// Set the expiry on first hit; two windows covers clock skew.
			if count == 1 {
				rdb.Expire(ctx, key, window*2)
			}

			if count > int64(maxRequests) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error":   "Too Many Requests",
					"message": "Rate limit exceeded. Please try again later.",
				})
			}

			return next(c)
		}
	}
}
