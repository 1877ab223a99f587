package model

import "time"

// Staff represents a row in the `staff` table: a person customers can
// book.  The ID doubles as the resource id in slot store keys, so it is
// restricted to letters, digits, '-' and '_'.
//
// Fields:
//  ID        – short stable identifier (e.g. "nita").
//  Name      – display name.
//  Title     – speciality shown under the name (nullable).
//  Rating    – average rating shown on the staff picker (nullable).
//  Image     – public image path (nullable).
//  IsActive  – whether the staff member is offered for booking.
//  SortOrder – position on the staff picker.
type Staff struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Title     *string   `json:"title,omitempty"`
	Rating    *float64  `json:"rating,omitempty"`
	Image     *string   `json:"image,omitempty"`
	IsActive  bool      `json:"-"`
	SortOrder int       `json:"-"`
	CreatedAt time.Time `json:"-"`
}
