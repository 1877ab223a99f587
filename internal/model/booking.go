package model

import (
	"strconv"
	"time"
)

// BookingRecord is the stored description of one committed booking.  It is
// written once, at the first slot index of its run, right after the run
// has been reserved.  Records are never edited.
//
// The Redis hash field names are shared with the previous deployment and
// must stay stable; see Fields.
type BookingRecord struct {
	ID             string    `json:"id"`
	StaffID        string    `json:"staff_id,omitempty"`
	StaffName      string    `json:"staff_name,omitempty"`
	ServiceID      string    `json:"service_id"`
	ServiceName    string    `json:"service_name"`
	CustomerName   string    `json:"customer_name"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email,omitempty"`
	Date           string    `json:"date"`
	StartIndex     int       `json:"start_index"`
	StartLabel     string    `json:"start_label"`
	DurationMin    int       `json:"duration_min"`
	PriceHUF       int       `json:"price_huf"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Fields renders the record as a Redis hash.  Empty optional values are
// omitted.
func (r BookingRecord) Fields() map[string]string {
	f := map[string]string{
		"id":           r.ID,
		"serviceId":    r.ServiceID,
		"serviceName":  r.ServiceName,
		"customerName": r.CustomerName,
		"phone":        r.Phone,
		"date":         r.Date,
		"startIndex":   strconv.Itoa(r.StartIndex),
		"startLabel":   r.StartLabel,
		"durationMin":  strconv.Itoa(r.DurationMin),
		"priceHUF":     strconv.Itoa(r.PriceHUF),
		"createdAt":    r.CreatedAt.UTC().Format(time.RFC3339),
	}
	optional := map[string]string{
		"staffId":        r.StaffID,
		"staffName":      r.StaffName,
		"email":          r.Email,
		"idempotencyKey": r.IdempotencyKey,
	}
	for k, v := range optional {
		if v != "" {
			f[k] = v
		}
	}
	return f
}

// BookingRecordFromFields is the inverse of Fields.  Records written by the
// previous deployment lack some fields; those stay at their zero value.
// The second return value is false for an empty hash.
func BookingRecordFromFields(f map[string]string) (BookingRecord, bool) {
	if len(f) == 0 {
		return BookingRecord{}, false
	}
	r := BookingRecord{
		ID:             f["id"],
		StaffID:        f["staffId"],
		StaffName:      f["staffName"],
		ServiceID:      f["serviceId"],
		ServiceName:    f["serviceName"],
		CustomerName:   f["customerName"],
		Phone:          f["phone"],
		Email:          f["email"],
		Date:           f["date"],
		StartLabel:     f["startLabel"],
		IdempotencyKey: f["idempotencyKey"],
	}
	r.StartIndex, _ = strconv.Atoi(f["startIndex"])
	r.DurationMin, _ = strconv.Atoi(f["durationMin"])
	r.PriceHUF, _ = strconv.Atoi(f["priceHUF"])
	if ts, err := time.Parse(time.RFC3339, f["createdAt"]); err == nil {
		r.CreatedAt = ts
	}
	return r, true
}
