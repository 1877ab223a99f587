// Package queue defines the booking.confirmed message and the worker that
// consumes it to mail the owner and the customer.
package queue

import "github.com/iliyamo/salon-booking/internal/model"

// DefaultQueue is the durable queue booking events are published to.
const DefaultQueue = "booking.confirmed"

// BookingConfirmedEvent is published once per freshly committed booking.
// It carries everything the mail worker needs so it never reads the store.
type BookingConfirmedEvent struct {
	BookingID    string `json:"booking_id"`
	Date         string `json:"date"`
	StartLabel   string `json:"start_label"`
	StartIndex   int    `json:"start_index"`
	DurationMin  int    `json:"duration_min"`
	ServiceID    string `json:"service_id"`
	ServiceName  string `json:"service_name"`
	StaffID      string `json:"staff_id,omitempty"`
	StaffName    string `json:"staff_name,omitempty"`
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	PriceHUF     int    `json:"price_huf"`
	ConfirmedAt  string `json:"confirmed_at"`
}

// EventFromRecord builds the event for a stored booking.
func EventFromRecord(rec model.BookingRecord) BookingConfirmedEvent {
	return BookingConfirmedEvent{
		BookingID:    rec.ID,
		Date:         rec.Date,
		StartLabel:   rec.StartLabel,
		StartIndex:   rec.StartIndex,
		DurationMin:  rec.DurationMin,
		ServiceID:    rec.ServiceID,
		ServiceName:  rec.ServiceName,
		StaffID:      rec.StaffID,
		StaffName:    rec.StaffName,
		CustomerName: rec.CustomerName,
		Phone:        rec.Phone,
		Email:        rec.Email,
		PriceHUF:     rec.PriceHUF,
		ConfirmedAt:  rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
