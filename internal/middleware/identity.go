package middleware

// identity.go holds the accessors for the authenticated user stored in the
// echo context by Identify and RequireAuth. Handlers and the rate limiter
// read it from here instead of touching context keys directly.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tattler/internal/model"
)

const (
	ctxUserKey  = "auth_user"
	ctxTokenKey = "auth_token"
)

// SetIdentity stores the authenticated user and the raw bearer token.
func SetIdentity(c echo.Context, u *model.User, token string) {
	c.Set(ctxUserKey, u)
	c.Set(ctxTokenKey, token)
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(ctxUserKey).(*model.User)
	return u, ok && u != nil
}

// CurrentToken returns the bearer token the request was authenticated with.
func CurrentToken(c echo.Context) string {
	s, _ := c.Get(ctxTokenKey).(string)
	return s
}

// userID identifies the caller for rate limiting. Unauthenticated callers
// share the "guest" identity.
func userID(c echo.Context) string {
	if u, ok := CurrentUser(c); ok {
		return strconv.FormatUint(u.ID, 10)
	}
	return "guest"
}
