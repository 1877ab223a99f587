// Package service holds the booking orchestration: validation, price
// lookup, the atomic slot reservation and the post-commit notifications.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/salon-booking/internal/model"
	"github.com/iliyamo/salon-booking/internal/repository"
	"github.com/iliyamo/salon-booking/internal/slots"
)

// SlotStore is the subset of the reservation store the service needs.
// *repository.SlotStore satisfies it.
type SlotStore interface {
	MembersOf(ctx context.Context, setKey string) ([]string, error)
	FieldsOf(ctx context.Context, recordKey string) (map[string]string, error)
	AtomicReserve(ctx context.Context, setKey string, members []string) (bool, error)
	WriteFields(ctx context.Context, recordKey string, fields map[string]string) error
}

// PriceLookup resolves the catalog price of a service variant.
type PriceLookup interface {
	PriceFor(ctx context.Context, serviceID string, durationMin int) (int, error)
}

// Notifier is told about every freshly committed booking.  Notifications
// run after the commit on their own goroutine and their failures are only
// logged.
type Notifier interface {
	NotifyBooking(ctx context.Context, rec model.BookingRecord) error
}

// WarnRecordNotPersisted is reported when the slots are held but the
// booking record could not be written.
const WarnRecordNotPersisted = "record_not_persisted"

// BookingService validates submissions, reserves runs of slots and reports
// day availability.  It is safe for concurrent use.
type BookingService struct {
	cal       slots.Calendar
	keys      repository.KeyScheme
	loc       *time.Location
	store     SlotStore
	prices    PriceLookup
	notifiers []Notifier

	// Clock defaults to the wall clock.
	Clock slots.Clock
	// NotifyTimeout bounds each notification.
	NotifyTimeout time.Duration
	// NewID mints booking ids; defaults to random UUIDs.
	NewID func() string

	inflight sync.WaitGroup
}

// NewBookingService wires the service.  store and prices are required.
func NewBookingService(cal slots.Calendar, keys repository.KeyScheme, loc *time.Location, store SlotStore, prices PriceLookup, notifiers ...Notifier) *BookingService {
	if store == nil || prices == nil {
		panic("service: nil store or price lookup")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &BookingService{
		cal:           cal,
		keys:          keys,
		loc:           loc,
		store:         store,
		prices:        prices,
		notifiers:     notifiers,
		Clock:         slots.RealClock{},
		NotifyTimeout: 10 * time.Second,
		NewID:         uuid.NewString,
	}
}

// Calendar exposes the grid the service books against.
func (s *BookingService) Calendar() slots.Calendar { return s.cal }

// Submit books the run [StartIndex, StartIndex+need) for the request.
// Nothing is reserved unless validation and the price lookup both pass.
// The reservation itself is all-or-nothing across processes.
func (s *BookingService) Submit(ctx context.Context, req BookingRequest) (BookingResult, error) {
	req.normalize()
	need, start, err := s.validate(&req)
	if err != nil {
		return BookingResult{}, err
	}

	price, err := s.prices.PriceFor(ctx, req.ServiceID, req.DurationMin)
	if err != nil {
		if errors.Is(err, repository.ErrPriceNotFound) {
			return BookingResult{}, ErrPriceNotFound
		}
		if ctx.Err() != nil {
			return BookingResult{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return BookingResult{}, fmt.Errorf("price lookup: %w", err)
	}

	run := s.cal.Run(start, need)
	members := make([]string, len(run))
	for i, idx := range run {
		members[i] = strconv.Itoa(idx)
	}
	setKey := s.keys.SetKey(req.Date, req.StaffID)
	recordKey := s.keys.RecordKey(req.Date, start, req.StaffID)

	ok, err := s.store.AtomicReserve(ctx, setKey, members)
	if err != nil {
		return BookingResult{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if !ok {
		return s.replayOrConflict(ctx, req, recordKey)
	}

	label, _ := s.cal.LabelOf(start)
	rec := model.BookingRecord{
		ID:             s.NewID(),
		StaffID:        req.StaffID,
		StaffName:      req.StaffName,
		ServiceID:      req.ServiceID,
		ServiceName:    req.ServiceName,
		CustomerName:   req.CustomerName,
		Phone:          req.Phone,
		Email:          req.Email,
		Date:           req.Date,
		StartIndex:     start,
		StartLabel:     label,
		DurationMin:    req.DurationMin,
		PriceHUF:       price,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      s.Clock.Now().UTC().Truncate(time.Second),
	}
	res := BookingResult{Record: rec}
	if err := s.store.WriteFields(ctx, recordKey, rec.Fields()); err != nil {
		log.Printf("booking: record write failed id=%s key=%s: %v", rec.ID, recordKey, err)
		res.Degraded = true
		res.Warnings = []string{WarnRecordNotPersisted}
	}
	log.Printf("booking: committed id=%s date=%s staff=%q start=%d slots=%d", rec.ID, rec.Date, rec.StaffID, rec.StartIndex, need)
	s.dispatch(rec)
	return res, nil
}

// replayOrConflict turns a failed reservation into a replay when the record
// at the start index carries the caller's idempotency key for the same
// booking.  Otherwise the slot belongs to someone else.
func (s *BookingService) replayOrConflict(ctx context.Context, req BookingRequest, recordKey string) (BookingResult, error) {
	if req.IdempotencyKey == "" {
		return BookingResult{}, ErrSlotConflict
	}
	fields, err := s.store.FieldsOf(ctx, recordKey)
	if err != nil {
		return BookingResult{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	prev, found := model.BookingRecordFromFields(fields)
	if !found || prev.IdempotencyKey != req.IdempotencyKey ||
		prev.Date != req.Date || prev.StaffID != req.StaffID || prev.DurationMin != req.DurationMin {
		return BookingResult{}, ErrSlotConflict
	}
	return BookingResult{Record: prev, Replayed: true}, nil
}

func (s *BookingService) dispatch(rec model.BookingRecord) {
	for _, n := range s.notifiers {
		s.inflight.Add(1)
		go func(n Notifier) {
			defer s.inflight.Done()
			ctx, cancel := context.WithTimeout(context.Background(), s.NotifyTimeout)
			defer cancel()
			if err := n.NotifyBooking(ctx, rec); err != nil {
				log.Printf("booking: notify failed id=%s: %v", rec.ID, err)
			}
		}(n)
	}
}

// Wait blocks until every dispatched notification has finished.  Call it
// during shutdown after the HTTP server stopped accepting requests.
func (s *BookingService) Wait() { s.inflight.Wait() }

// Availability reports which starts cannot host a run of the requested
// duration.  Past slots of today, judged in the business timezone, are
// disabled as well.
func (s *BookingService) Availability(ctx context.Context, q AvailabilityQuery) (AvailabilityResult, error) {
	var fields []string
	if !ValidDate(q.Date) {
		fields = append(fields, "date")
	}
	need, err := s.cal.SlotsNeeded(q.DurationMinutes)
	if err != nil || s.cal.MaxStart(need) < 0 {
		fields = append(fields, "duration_min")
	}
	if s.staffInvalid(q.StaffID) {
		fields = append(fields, "staff_id")
	}
	if len(fields) > 0 {
		return AvailabilityResult{}, &ValidationError{Fields: fields}
	}

	occupied, err := s.occupied(ctx, s.keys.SetKey(q.Date, q.StaffID))
	if err != nil {
		return AvailabilityResult{}, err
	}
	now := s.Clock.Now().In(s.loc)
	return AvailabilityResult{
		Date:                 q.Date,
		StaffID:              q.StaffID,
		DisabledStartIndices: s.cal.Availability(q.Date, occupied, need, now),
		MaxStart:             s.cal.MaxStart(need),
		TotalSlots:           s.cal.SlotCount(),
		Labels:               s.labels(),
	}, nil
}

// DayBookings lists the occupied indices of a day together with every
// record stored at one of them.  Runs whose record write failed show up
// only as taken indices.
func (s *BookingService) DayBookings(ctx context.Context, date, staffID string) (DayView, error) {
	var fields []string
	if !ValidDate(date) {
		fields = append(fields, "date")
	}
	if s.staffInvalid(staffID) {
		fields = append(fields, "staff_id")
	}
	if len(fields) > 0 {
		return DayView{}, &ValidationError{Fields: fields}
	}

	taken, err := s.occupied(ctx, s.keys.SetKey(date, staffID))
	if err != nil {
		return DayView{}, err
	}
	view := DayView{Date: date, StaffID: staffID, Taken: taken, Bookings: []model.BookingRecord{}}
	for _, idx := range taken {
		f, err := s.store.FieldsOf(ctx, s.keys.RecordKey(date, idx, staffID))
		if err != nil {
			return DayView{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		if rec, ok := model.BookingRecordFromFields(f); ok {
			view.Bookings = append(view.Bookings, rec)
		}
	}
	return view, nil
}

// occupied reads a day set as sorted indices.  Members that are not
// integers are skipped.
func (s *BookingService) occupied(ctx context.Context, setKey string) ([]int, error) {
	members, err := s.store.MembersOf(ctx, setKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	out := make([]int, 0, len(members))
	for _, m := range members {
		i, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		out = append(out, i)
	}
	sort.Ints(out)
	return out, nil
}

func (s *BookingService) labels() []string {
	out := make([]string, s.cal.SlotCount())
	for i := range out {
		out[i], _ = s.cal.LabelOf(i)
	}
	return out
}
