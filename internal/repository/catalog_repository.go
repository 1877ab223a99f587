package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/salon-booking/internal/model"
)

// CatalogRepo stores the service catalog in four tables: categories,
// services, service_variants and faqs.  The catalog is always read and
// replaced as a whole, mirroring how the admin editor works with it.
type CatalogRepo struct {
	db *sql.DB
}

// NewCatalogRepo returns a new CatalogRepo bound to the given database.
func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{db: db} }

const (
	qCategories = `SELECT id, name, sort_order FROM categories ORDER BY sort_order, id`
	qServices   = `SELECT id, category_id, name, image FROM services ORDER BY category_id, position`
	qVariants   = `SELECT service_id, duration_min, price_huf FROM service_variants ORDER BY service_id, duration_min`
	qFAQs       = `SELECT question, answer FROM faqs ORDER BY position`
	qPrice      = `SELECT price_huf FROM service_variants WHERE service_id = ? AND duration_min = ? LIMIT 1`

	insCategory = `INSERT INTO categories (id, name, sort_order) VALUES (?, ?, ?)`
	insService  = `INSERT INTO services (id, category_id, name, image, position) VALUES (?, ?, ?, ?, ?)`
	insVariant  = `INSERT INTO service_variants (service_id, duration_min, price_huf) VALUES (?, ?, ?)`
	insFAQ      = `INSERT INTO faqs (question, answer, position) VALUES (?, ?, ?)`
)

// PriceFor returns the price of serviceID for durationMin minutes.  It
// returns ErrPriceNotFound when the catalog offers no such variant.
func (r *CatalogRepo) PriceFor(ctx context.Context, serviceID string, durationMin int) (int, error) {
	var price int
	err := r.db.QueryRowContext(ctx, qPrice, serviceID, durationMin).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrPriceNotFound
	}
	if err != nil {
		return 0, err
	}
	return price, nil
}

// Get assembles the full catalog.  An empty database yields an empty
// catalog with non-nil slices so that it encodes as arrays.
func (r *CatalogRepo) Get(ctx context.Context) (model.Catalog, error) {
	out := model.Catalog{Categories: []model.Category{}, FAQ: []model.FAQ{}}

	rows, err := r.db.QueryContext(ctx, qCategories)
	if err != nil {
		return out, err
	}
	catIdx := map[string]int{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Order); err != nil {
			rows.Close()
			return out, err
		}
		c.Services = []model.Service{}
		catIdx[c.ID] = len(out.Categories)
		out.Categories = append(out.Categories, c)
	}
	if err := closeRows(rows); err != nil {
		return out, err
	}

	rows, err = r.db.QueryContext(ctx, qServices)
	if err != nil {
		return out, err
	}
	type svcPos struct{ cat, svc int }
	svcIdx := map[string]svcPos{}
	for rows.Next() {
		var (
			s     model.Service
			catID string
			image sql.NullString
		)
		if err := rows.Scan(&s.ID, &catID, &s.Name, &image); err != nil {
			rows.Close()
			return out, err
		}
		ci, ok := catIdx[catID]
		if !ok {
			continue
		}
		if image.Valid {
			s.Image = &image.String
		}
		s.Variants = []model.Variant{}
		svcIdx[s.ID] = svcPos{ci, len(out.Categories[ci].Services)}
		out.Categories[ci].Services = append(out.Categories[ci].Services, s)
	}
	if err := closeRows(rows); err != nil {
		return out, err
	}

	rows, err = r.db.QueryContext(ctx, qVariants)
	if err != nil {
		return out, err
	}
	for rows.Next() {
		var (
			svcID string
			v     model.Variant
		)
		if err := rows.Scan(&svcID, &v.DurationMin, &v.PriceHUF); err != nil {
			rows.Close()
			return out, err
		}
		if p, ok := svcIdx[svcID]; ok {
			s := &out.Categories[p.cat].Services[p.svc]
			s.Variants = append(s.Variants, v)
		}
	}
	if err := closeRows(rows); err != nil {
		return out, err
	}

	rows, err = r.db.QueryContext(ctx, qFAQs)
	if err != nil {
		return out, err
	}
	for rows.Next() {
		var f model.FAQ
		if err := rows.Scan(&f.Q, &f.A); err != nil {
			rows.Close()
			return out, err
		}
		out.FAQ = append(out.FAQ, f)
	}
	return out, closeRows(rows)
}

// Replace swaps the stored catalog for c inside one transaction.  The
// catalog is validated first; an invalid catalog never touches the
// database.
func (r *CatalogRepo) Replace(ctx context.Context, c model.Catalog) error {
	if err := ValidateCatalog(c); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, table := range []string{"service_variants", "services", "categories", "faqs"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for _, cat := range c.Categories {
		if _, err := tx.ExecContext(ctx, insCategory, cat.ID, cat.Name, cat.Order); err != nil {
			return fmt.Errorf("insert category %s: %w", cat.ID, err)
		}
		for pos, s := range cat.Services {
			if _, err := tx.ExecContext(ctx, insService, s.ID, cat.ID, s.Name, s.Image, pos); err != nil {
				return fmt.Errorf("insert service %s: %w", s.ID, err)
			}
			for _, v := range s.Variants {
				if _, err := tx.ExecContext(ctx, insVariant, s.ID, v.DurationMin, v.PriceHUF); err != nil {
					return fmt.Errorf("insert variant %s/%d: %w", s.ID, v.DurationMin, err)
				}
			}
		}
	}
	for pos, f := range c.FAQ {
		if _, err := tx.ExecContext(ctx, insFAQ, f.Q, f.A, pos); err != nil {
			return fmt.Errorf("insert faq: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ValidateCatalog checks the structural rules the booking flow relies on:
// unique non-empty ids, non-empty names and strictly positive durations and
// prices, with at most one variant per duration.
func ValidateCatalog(c model.Catalog) error {
	cats := map[string]bool{}
	svcs := map[string]bool{}
	for _, cat := range c.Categories {
		if strings.TrimSpace(cat.ID) == "" || strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("%w: category needs id and name", ErrInvalidCatalog)
		}
		if cats[cat.ID] {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidCatalog, cat.ID)
		}
		cats[cat.ID] = true
		for _, s := range cat.Services {
			if strings.TrimSpace(s.ID) == "" || strings.TrimSpace(s.Name) == "" {
				return fmt.Errorf("%w: service in %q needs id and name", ErrInvalidCatalog, cat.ID)
			}
			if svcs[s.ID] {
				return fmt.Errorf("%w: duplicate service %q", ErrInvalidCatalog, s.ID)
			}
			svcs[s.ID] = true
			durations := map[int]bool{}
			for _, v := range s.Variants {
				if v.DurationMin <= 0 || v.PriceHUF <= 0 {
					return fmt.Errorf("%w: service %q has a non positive variant", ErrInvalidCatalog, s.ID)
				}
				if durations[v.DurationMin] {
					return fmt.Errorf("%w: service %q lists %d minutes twice", ErrInvalidCatalog, s.ID, v.DurationMin)
				}
				durations[v.DurationMin] = true
			}
		}
	}
	for _, f := range c.FAQ {
		if strings.TrimSpace(f.Q) == "" || strings.TrimSpace(f.A) == "" {
			return fmt.Errorf("%w: faq entries need a question and an answer", ErrInvalidCatalog)
		}
	}
	return nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}
