package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/salon-booking/internal/service"
)

// BookingHandler serves availability, submission and the admin day view.
type BookingHandler struct {
	Svc     *service.BookingService
	Timeout time.Duration
}

func NewBookingHandler(svc *service.BookingService, timeout time.Duration) *BookingHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BookingHandler{Svc: svc, Timeout: timeout}
}

// defaultAvailabilityDuration applies when the duration parameter is absent.
const defaultAvailabilityDuration = 60

// Availability handles GET /v1/book/availability?date=&duration=&staff_id=.
func (h *BookingHandler) Availability(c echo.Context) error {
	duration := defaultAvailabilityDuration
	if raw := strings.TrimSpace(c.QueryParam("duration")); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			d = 0 // reported as duration_min below
		}
		duration = d
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	res, err := h.Svc.Availability(ctx, service.AvailabilityQuery{
		Date:            strings.TrimSpace(c.QueryParam("date")),
		DurationMinutes: duration,
		StaffID:         strings.TrimSpace(c.QueryParam("staff_id")),
	})
	if err != nil {
		return bookingError(c, err)
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.JSON(http.StatusOK, echo.Map{
		"ok":          true,
		"date":        res.Date,
		"disabled":    res.DisabledStartIndices,
		"max_start":   res.MaxStart,
		"labels":      res.Labels,
		"total_slots": res.TotalSlots,
	})
}

// Submit handles POST /v1/book.
func (h *BookingHandler) Submit(c echo.Context) error {
	var req service.BookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": service.CodeBadRequest})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	res, err := h.Svc.Submit(ctx, req)
	if err != nil {
		return bookingError(c, err)
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"ok":       true,
		"booking":  res.Record,
		"replayed": res.Replayed,
		"degraded": res.Degraded,
		"warnings": warnings,
	})
}

// Day handles GET /v1/admin/bookings/day?date=&staff_id=.
func (h *BookingHandler) Day(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	view, err := h.Svc.DayBookings(ctx, strings.TrimSpace(c.QueryParam("date")), strings.TrimSpace(c.QueryParam("staff_id")))
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "day": view})
}
