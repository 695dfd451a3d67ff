package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SelectiveTimeoutConfig applies the request timeout to everything except
// streaming routes. The search stream manages its own session deadline and
// must never be cut off by the generic middleware, or the terminal frame
// would be lost.
func SelectiveTimeoutConfig(timeout time.Duration, streamPrefixes ...string) echo.MiddlewareFunc {
	timeoutMiddleware := middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: timeout,
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		wrapped := timeoutMiddleware(next)
		return func(c echo.Context) error {
			for _, prefix := range streamPrefixes {
				if strings.HasPrefix(c.Request().URL.Path, prefix) {
					return next(c)
				}
			}
			return wrapped(c)
		}
	}
}
