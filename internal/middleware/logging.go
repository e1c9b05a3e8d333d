package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tattler/internal/logger"
)

// Logging writes request.start and request.complete entries carrying the
// method, path, status and duration of each request.
func Logging(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if log == nil {
				return next(c)
			}
			req := c.Request()
			ctx := log.WithFields(req.Context(), map[string]any{
				"method": req.Method,
				"path":   req.URL.Path,
			})
			c.SetRequest(req.WithContext(ctx))

			start := time.Now()
			log.Info(ctx, "request.start")

			err := next(c)
			if err != nil {
				// Render now so the status below is the one the client sees.
				c.Error(err)
			}

			// Downstream middleware may have enriched the context (user id).
			done := log.WithFields(c.Request().Context(), map[string]any{
				"status":      c.Response().Status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			log.Info(done, "request.complete")
			return nil
		}
	}
}
