package queue

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/salon-booking/internal/model"
)

type recordingMailer struct {
	sent []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func sampleEvent() BookingConfirmedEvent {
	return EventFromRecord(model.BookingRecord{
		ID:           "b-1",
		StaffID:      "nita",
		StaffName:    "NITA",
		ServiceID:    "thai",
		ServiceName:  "Thai massage",
		CustomerName: "Kiss Anna",
		Phone:        "+36301234567",
		Email:        "anna@example.com",
		Date:         "2025-03-14",
		StartIndex:   2,
		StartLabel:   "10:00",
		DurationMin:  60,
		PriceHUF:     14000,
		CreatedAt:    time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	})
}

func TestHandleLogsAndMailsBoth(t *testing.T) {
	dir := t.TempDir()
	m := &recordingMailer{}
	w := &Worker{LogDir: dir, OwnerEmail: "owner@example.com", Mailer: m}
	body, _ := json.Marshal(sampleEvent())

	if err := w.Handle(context.Background(), body); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "booking.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	for _, want := range []string{"booking_id=b-1", "date=2025-03-14", "start=10:00", "staff=nita", "price=14000 HUF"} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line %q missing %q", line, want)
		}
	}
	if len(m.sent) != 2 {
		t.Fatalf("sent %d mails, want 2", len(m.sent))
	}
	if m.sent[0].To[0] != "owner@example.com" || m.sent[0].ReplyTo != "anna@example.com" {
		t.Fatalf("owner mail = %+v", m.sent[0])
	}
	if m.sent[1].To[0] != "anna@example.com" {
		t.Fatalf("customer mail to %v", m.sent[1].To)
	}
}

func TestHandleSkipsCustomerWithoutEmail(t *testing.T) {
	ev := sampleEvent()
	ev.Email = ""
	m := &recordingMailer{}
	w := &Worker{LogDir: t.TempDir(), OwnerEmail: "owner@example.com", Mailer: m}
	body, _ := json.Marshal(ev)
	if err := w.Handle(context.Background(), body); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(m.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(m.sent))
	}
}

func TestHandleRejectsBadPayload(t *testing.T) {
	w := &Worker{LogDir: t.TempDir()}
	if err := w.Handle(context.Background(), []byte("{")); err == nil {
		t.Fatal("expected unmarshal error")
	}
	if err := w.Handle(context.Background(), []byte(`{"date":"2025-03-14"}`)); err == nil {
		t.Fatal("expected error for event without id")
	}
}

func TestHandleReportsMailFailure(t *testing.T) {
	boom := errors.New("boom")
	w := &Worker{LogDir: t.TempDir(), OwnerEmail: "owner@example.com", Mailer: &recordingMailer{err: boom}}
	body, _ := json.Marshal(sampleEvent())
	if err := w.Handle(context.Background(), body); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}
