package queue

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/resend/resend-go/v2"
)

// Message is one outgoing plain text mail.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Text    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// ResendMailer sends mail through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from}
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	req := &resend.SendEmailRequest{
		From:    m.from,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
	}
	sent, err := m.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	log.Printf("mailer: sent id=%s to=%s", sent.Id, strings.Join(msg.To, ","))
	return nil
}

// LogMailer only logs; used when no API key is configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	log.Printf("mailer: skipped (no api key) to=%s subject=%q", strings.Join(msg.To, ","), msg.Subject)
	return nil
}

func ownerMessage(owner string, ev BookingConfirmedEvent) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Service: %s (%d min)\n", ev.ServiceName, ev.DurationMin)
	fmt.Fprintf(&b, "Date: %s %s\n", ev.Date, ev.StartLabel)
	if ev.StaffName != "" {
		fmt.Fprintf(&b, "Staff: %s\n", ev.StaffName)
	}
	fmt.Fprintf(&b, "Customer: %s\n", ev.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", ev.Phone)
	if ev.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", ev.Email)
	}
	fmt.Fprintf(&b, "Price: %d HUF\n", ev.PriceHUF)
	fmt.Fprintf(&b, "Booking id: %s\n", ev.BookingID)
	return Message{
		To:      []string{owner},
		ReplyTo: ev.Email,
		Subject: fmt.Sprintf("New booking: %s (%s %s)", ev.ServiceName, ev.Date, ev.StartLabel),
		Text:    b.String(),
	}
}

func customerMessage(ev BookingConfirmedEvent) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", ev.CustomerName)
	fmt.Fprintf(&b, "your booking for %s on %s at %s is confirmed.\n", ev.ServiceName, ev.Date, ev.StartLabel)
	if ev.StaffName != "" {
		fmt.Fprintf(&b, "Your therapist: %s\n", ev.StaffName)
	}
	fmt.Fprintf(&b, "Duration: %d min, price: %d HUF\n", ev.DurationMin, ev.PriceHUF)
	return Message{
		To:      []string{ev.Email},
		Subject: fmt.Sprintf("Booking confirmed: %s %s", ev.Date, ev.StartLabel),
		Text:    b.String(),
	}
}
