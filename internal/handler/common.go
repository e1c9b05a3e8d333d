package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tattler/internal/apperr"
	"github.com/iliyamo/tattler/internal/middleware"
)

// messageResp is the body of delete responses.
type messageResp struct {
	Message string `json:"message"`
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.InvalidArgument("invalid id").
			WithDetails(map[string]string{name: "must be a positive integer"})
	}
	return id, nil
}

// currentUserID returns the id of the authenticated caller. Routes that call
// it sit behind RequireAuth, so a missing identity means misconfiguration.
func currentUserID(c echo.Context) (uint64, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return 0, apperr.Unauthenticated("authentication required")
	}
	return u.ID, nil
}
