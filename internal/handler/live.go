package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/salon-booking/internal/live"
	"github.com/iliyamo/salon-booking/internal/repository"
	"github.com/iliyamo/salon-booking/internal/service"
)

// LiveHandler upgrades GET /v1/book/live?date=&staff_id= to a websocket
// that receives an event whenever a booking lands on that day.
type LiveHandler struct {
	Hub *live.Hub
}

func (h *LiveHandler) Subscribe(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	staff := strings.TrimSpace(c.QueryParam("staff_id"))
	if !service.ValidDate(date) || (staff != "" && !repository.ValidStaffID(staff)) {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": service.CodeBadRequest})
	}
	if err := h.Hub.Serve(c.Response(), c.Request(), live.Topic(date, staff)); err != nil {
		c.Logger().Warnf("live: upgrade failed: %v", err)
	}
	return nil
}
