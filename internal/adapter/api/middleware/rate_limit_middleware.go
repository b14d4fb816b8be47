package middleware

import (
	"github.com/labstack/echo/v4"

	"kudos/internal/infrastructure/ratelimit"
	"kudos/pkg/errors"
	"kudos/pkg/logger"
	"kudos/pkg/response"
)

type Limiter interface {
	Check(key string) ratelimit.Result
}

// RateLimit throttles an endpoint per client IP. The submission pipeline
// carries its own limits; this guard covers endpoints where the risk is
// guessing, like verification token redemption.
func RateLimit(limiter Limiter, endpoint string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			result := limiter.Check(c.RealIP() + ":" + endpoint)
			if !result.Allowed {
				logger.Warn("Rate limit exceeded for %s on %s", c.RealIP(), endpoint)
				return response.Error(c, errors.TooManyRequests("Too many attempts, please try again later", result.RetryAfter))
			}

			return next(c)
		}
	}
}
