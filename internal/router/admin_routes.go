package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/salon-booking/internal/handler"
	"github.com/iliyamo/salon-booking/internal/middleware"
	"github.com/iliyamo/salon-booking/internal/utils"
)

// RegisterAdmin registers the catalog editor and the day view.  Every route
// requires an ADMIN access token.
func RegisterAdmin(e *echo.Echo, cat *handler.CatalogHandler, book *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleAdmin),
	)
	g.GET("/catalog", cat.Public)
	g.PUT("/catalog", cat.Replace)
	g.GET("/bookings/day", book.Day)
}
