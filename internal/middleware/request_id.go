package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tattler/internal/logger"
)

// RequestID propagates X-Request-Id, generating one when the client sent
// none, and attaches it to the request logger.
func RequestID(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			reqID := req.Header.Get(echo.HeaderXRequestID)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, reqID)

			if log != nil {
				c.SetRequest(req.WithContext(log.WithRequestID(req.Context(), reqID)))
			}
			return next(c)
		}
	}
}
