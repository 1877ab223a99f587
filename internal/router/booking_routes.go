package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/salon-booking/internal/handler"
)

// RegisterBooking registers the customer booking flow.  Availability and
// the live feed are never cached; submission is rate limited.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, lh *handler.LiveHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/book")
	g.GET("/availability", h.Availability)
	g.POST("", h.Submit, limit)
	if lh != nil {
		g.GET("/live", lh.Subscribe)
	}
}
