package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tattler/internal/apperr"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type statusResp struct {
	Status string `json:"status"`
}

// Health is the liveness probe: it answers as long as the process serves
// HTTP.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResp{Status: "ok"})
}

// Ready returns a readiness probe that pings the database.
func Ready(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return apperr.Upstream(err, "database unavailable")
		}
		return c.JSON(http.StatusOK, statusResp{Status: "ready"})
	}
}
