package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/salon-booking/internal/model"
	"github.com/iliyamo/salon-booking/internal/repository"
)

// CatalogStore reads and replaces the service catalog.
type CatalogStore interface {
	Get(ctx context.Context) (model.Catalog, error)
	Replace(ctx context.Context, c model.Catalog) error
}

// StaffLister lists bookable staff.
type StaffLister interface {
	ListActive(ctx context.Context) ([]model.Staff, error)
}

// CatalogHandler serves the public catalog and staff list and the admin
// catalog editor.  OnChange runs after a successful replace; the server
// uses it to purge cached public responses.
type CatalogHandler struct {
	Catalog  CatalogStore
	Staff    StaffLister
	OnChange func(ctx context.Context) error
}

func NewCatalogHandler(cat CatalogStore, staff StaffLister, onChange func(ctx context.Context) error) *CatalogHandler {
	return &CatalogHandler{Catalog: cat, Staff: staff, OnChange: onChange}
}

// Public handles GET /v1/catalog.
func (h *CatalogHandler) Public(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	cat, err := h.Catalog.Get(ctx)
	if err != nil {
		log.Printf("catalog: get failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"ok": false, "error": "SERVER_ERROR"})
	}
	return c.JSON(http.StatusOK, cat)
}

// StaffList handles GET /v1/staff.  An empty table serves the built-in
// list so the booking page works before the owner configured anything.
func (h *CatalogHandler) StaffList(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	staff, err := h.Staff.ListActive(ctx)
	if err != nil {
		log.Printf("staff: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"ok": false, "error": "SERVER_ERROR"})
	}
	if len(staff) == 0 {
		staff = repository.FallbackStaff()
	}
	return c.JSON(http.StatusOK, echo.Map{"staff": staff})
}

// Replace handles PUT /v1/admin/catalog with the full catalog as body.
func (h *CatalogHandler) Replace(c echo.Context) error {
	var body model.Catalog
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": "invalid body"})
	}
	if body.Categories == nil {
		body.Categories = []model.Category{}
	}
	if body.FAQ == nil {
		body.FAQ = []model.FAQ{}
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Catalog.Replace(ctx, body); err != nil {
		if errors.Is(err, repository.ErrInvalidCatalog) {
			return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": err.Error()})
		}
		log.Printf("catalog: replace failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"ok": false, "error": "SERVER_ERROR"})
	}
	if h.OnChange != nil {
		if err := h.OnChange(ctx); err != nil {
			log.Printf("catalog: cache purge failed: %v", err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "catalog": body})
}
