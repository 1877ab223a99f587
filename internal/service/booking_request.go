package service

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/iliyamo/salon-booking/internal/model"
	"github.com/iliyamo/salon-booking/internal/repository"
)

// BookingRequest is the booking submission contract.  JSON names are the
// field names reported back in ValidationError.  StartIndex is a pointer so
// that a missing start is rejected instead of read as 09:00.
type BookingRequest struct {
	Date           string `json:"date"`
	StartIndex     *int   `json:"start_index"`
	DurationMin    int    `json:"duration_min"`
	ServiceID      string `json:"service_id"`
	ServiceName    string `json:"service_name"`
	CustomerName   string `json:"customer_name"`
	Phone          string `json:"phone"`
	Email          string `json:"email,omitempty"`
	StaffID        string `json:"staff_id,omitempty"`
	StaffName      string `json:"staff_name,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// BookingResult describes a committed booking.  Replayed is set when the
// submission matched a booking this caller already made with the same
// idempotency key.  Degraded is set when the slot is held but the record
// could not be written; Warnings says what is missing.
type BookingResult struct {
	Record   model.BookingRecord `json:"booking"`
	Replayed bool                `json:"replayed"`
	Degraded bool                `json:"degraded"`
	Warnings []string            `json:"warnings,omitempty"`
}

// AvailabilityQuery asks which start indices cannot be booked for a
// duration on a day.
type AvailabilityQuery struct {
	Date            string
	DurationMinutes int
	StaffID         string
}

// AvailabilityResult lists infeasible starts among [0, MaxStart].  Labels
// holds the "HH:MM" label of every slot of the day.
type AvailabilityResult struct {
	Date                 string   `json:"date"`
	StaffID              string   `json:"staff_id,omitempty"`
	DisabledStartIndices []int    `json:"disabled"`
	MaxStart             int      `json:"max_start"`
	TotalSlots           int      `json:"total_slots"`
	Labels               []string `json:"labels"`
}

// DayView is the admin listing of one day: the occupied indices and the
// records stored at the first index of each run.
type DayView struct {
	Date     string                `json:"date"`
	StaffID  string                `json:"staff_id,omitempty"`
	Taken    []int                 `json:"taken"`
	Bookings []model.BookingRecord `json:"bookings"`
}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

const maxIdempotencyKeyLen = 128

// ValidDate reports whether s is a real calendar date written as
// YYYY-MM-DD.
func ValidDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func (r *BookingRequest) normalize() {
	r.Date = strings.TrimSpace(r.Date)
	r.ServiceID = strings.TrimSpace(r.ServiceID)
	r.ServiceName = strings.TrimSpace(r.ServiceName)
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.TrimSpace(r.Email)
	r.StaffID = strings.TrimSpace(r.StaffID)
	r.StaffName = strings.TrimSpace(r.StaffName)
	r.IdempotencyKey = strings.TrimSpace(r.IdempotencyKey)
}

// validate collects every invalid field.  It returns the number of slots
// the run needs and the start index when the request is valid.  Starts that
// have already begun today, in the business timezone, are invalid.
func (s *BookingService) validate(r *BookingRequest) (int, int, error) {
	var fields []string
	dateOK := ValidDate(r.Date)
	if !dateOK {
		fields = append(fields, "date")
	}
	need, err := s.cal.SlotsNeeded(r.DurationMin)
	maxStart := s.cal.SlotCount() - 1
	if err != nil {
		fields = append(fields, "duration_min")
	} else if m := s.cal.MaxStart(need); m < 0 {
		fields = append(fields, "duration_min")
	} else {
		maxStart = m
	}
	start := -1
	if r.StartIndex != nil {
		start = *r.StartIndex
	}
	switch {
	case start < 0 || start > maxStart:
		fields = append(fields, "start_index")
	case dateOK && start <= s.cal.PastCutoff(r.Date, s.Clock.Now().In(s.loc)):
		fields = append(fields, "start_index")
	}
	if r.ServiceID == "" || r.ServiceName == "" {
		fields = append(fields, "service")
	}
	if r.CustomerName == "" {
		fields = append(fields, "customer_name")
	}
	if r.Phone == "" {
		fields = append(fields, "phone")
	}
	if r.Email != "" && !validEmail(r.Email) {
		fields = append(fields, "email")
	}
	if s.staffInvalid(r.StaffID) {
		fields = append(fields, "staff_id")
	}
	if len(r.IdempotencyKey) > maxIdempotencyKeyLen {
		fields = append(fields, "idempotency_key")
	}
	if len(fields) > 0 {
		return 0, 0, &ValidationError{Fields: fields}
	}
	return need, start, nil
}

func (s *BookingService) staffInvalid(staffID string) bool {
	if staffID == "" {
		return s.keys.PerStaff
	}
	return !repository.ValidStaffID(staffID)
}
