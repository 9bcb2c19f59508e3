package middleware

import (
	"math"
	"net/http"
	"strconv"

	"portfolio-tracker/config"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewRateLimiterMiddleware limits requests per client IP. Paths listed in
// skipPaths (e.g. the health check) are never limited. A non-positive
// request rate disables the limiter.
func NewRateLimiterMiddleware(cfg config.RateLimit, skipPaths ...string) echo.MiddlewareFunc {
	if cfg.RequestPerSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	retryAfter := strconv.Itoa(int(math.Ceil(1 / cfg.RequestPerSecond)))

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			_, ok := skip[c.Request().URL.Path]
			return ok
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RequestPerSecond),
				Burst:     cfg.Burst,
				ExpiresIn: cfg.ExpiresIn,
			},
		),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, errorResponse{Message: "RATE_LIMITER_ERROR"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			c.Response().Header().Set("Retry-After", retryAfter)
			return c.JSON(http.StatusTooManyRequests, errorResponse{Message: "TOO_MANY_REQUESTS"})
		},
	})
}
