package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tattler/internal/metrics"
)

// Metrics records every request on m, labelled with the matched route.
func Metrics(m *metrics.HTTPMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			m.Observe(c.Request().Method, c.Path(), c.Response().Status, time.Since(start))
			return nil
		}
	}
}
