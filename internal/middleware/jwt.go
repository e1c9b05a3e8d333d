package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tattler/internal/logger"
	"github.com/iliyamo/tattler/internal/model"
)

// Authenticator resolves an Authorization header value to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*model.User, error)
}

// Identify resolves the caller from the bearer token when one is present and
// valid, without rejecting anything. It runs ahead of the rate limiter so
// that per-user buckets see the real user; requests with a missing or bad
// token continue as guests and are left for RequireAuth to turn away.
func Identify(auth Authenticator, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if strings.TrimSpace(header) == "" {
				return next(c)
			}
			u, err := auth.Authenticate(c.Request().Context(), header)
			if err != nil {
				return next(c)
			}
			bind(c, u, header, log)
			return next(c)
		}
	}
}

// RequireAuth returns an Echo middleware that only lets requests carrying a
// valid bearer token through. The resolved user and raw token are stored in
// the context (see CurrentUser) and the user id is added to the request
// logger. Failures are returned as errors for the central error handler.
// A user already resolved by Identify is reused.
func RequireAuth(auth Authenticator, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentUser(c); ok {
				return next(c)
			}
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			u, err := auth.Authenticate(c.Request().Context(), header)
			if err != nil {
				return err
			}
			bind(c, u, header, log)
			return next(c)
		}
	}
}

func bind(c echo.Context, u *model.User, header string, log *logger.Logger) {
	_, raw, _ := strings.Cut(strings.TrimSpace(header), " ")
	SetIdentity(c, u, strings.TrimSpace(raw))

	if log != nil {
		ctx := log.WithUserID(c.Request().Context(), u.ID)
		c.SetRequest(c.Request().WithContext(ctx))
	}
}
