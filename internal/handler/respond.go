package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/salon-booking/internal/service"
)

var statusOf = map[string]int{
	service.CodeBadRequest:       http.StatusBadRequest,
	service.CodeConflict:         http.StatusConflict,
	service.CodePriceNotFound:    http.StatusUnprocessableEntity,
	service.CodeStoreUnavailable: http.StatusServiceUnavailable,
	service.CodeServerError:      http.StatusInternalServerError,
}

// bookingError writes the {"ok":false,"error":CODE} body for a service
// error.  Validation errors also list the offending fields.
func bookingError(c echo.Context, err error) error {
	code := service.OutcomeCode(err)
	body := echo.Map{"ok": false, "error": code}
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		body["fields"] = ve.Fields
	}
	if code == service.CodeServerError || code == service.CodeStoreUnavailable {
		log.Printf("booking: %s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(statusOf[code], body)
}
