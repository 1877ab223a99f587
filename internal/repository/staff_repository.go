package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/salon-booking/internal/model"
)

// StaffRepo reads the staff members customers can pick from.
type StaffRepo struct {
	db *sql.DB
}

func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{db: db} }

const qActiveStaff = `SELECT id, name, title, rating, image, is_active, sort_order, created_at
                      FROM staff WHERE is_active = 1 ORDER BY sort_order, id`

// ListActive returns active staff in picker order.
func (r *StaffRepo) ListActive(ctx context.Context) ([]model.Staff, error) {
	rows, err := r.db.QueryContext(ctx, qActiveStaff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Staff{}
	for rows.Next() {
		var (
			s      model.Staff
			title  sql.NullString
			rating sql.NullFloat64
			image  sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Name, &title, &rating, &image, &s.IsActive, &s.SortOrder, &s.CreatedAt); err != nil {
			return nil, err
		}
		if title.Valid {
			s.Title = &title.String
		}
		if rating.Valid {
			s.Rating = &rating.Float64
		}
		if image.Valid {
			s.Image = &image.String
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// FallbackStaff is served when the staff table is empty so the booking
// page keeps working on a fresh install.
func FallbackStaff() []model.Staff {
	str := func(s string) *string { return &s }
	num := func(f float64) *float64 { return &f }
	return []model.Staff{
		{ID: "nita", Name: "NITA", Title: str("Balinese oil massage"), Rating: num(4.9), Image: str("/staff/anna.png"), IsActive: true},
		{ID: "risma", Name: "RISMA", Title: str("Sports massage"), Rating: num(4.8), Image: str("/staff/eszter.png"), IsActive: true, SortOrder: 1},
		{ID: "uma", Name: "UMA", Rating: num(4.7), Image: str("/staff/csilla.png"), IsActive: true, SortOrder: 2},
	}
}
