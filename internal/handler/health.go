package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is anything that can prove it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports 200 "ok" while the slot store answers and 503 otherwise.
// Load balancers and the uptime pinger hit it; the ping also keeps
// serverless Redis plans from idling out.
func Health(store Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"ok": false, "error": "STORE_UNAVAILABLE"})
		}
		return c.String(http.StatusOK, "ok")
	}
}
