package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"campusissues/pkg/errors"
	"campusissues/pkg/logger"
	"campusissues/pkg/response"
)

// LoginRateLimit allows perMinute login attempts per client IP, with a burst
// of the same size.
func LoginRateLimit(perMinute int) echo.MiddlewareFunc {
	if perMinute <= 0 {
		perMinute = 10
	}

	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60),
		Burst:     perMinute,
		ExpiresIn: 3 * time.Minute,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return response.Error(c, errors.New("RATE_LIMIT_ERROR", "Could not identify client", http.StatusForbidden, err))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			logger.Warn("Rate limit exceeded for %s on %s", identifier, c.Path())
			return response.Error(c, errors.New("RATE_LIMITED", "Too many login attempts, try again later", http.StatusTooManyRequests, err))
		},
	})
}
