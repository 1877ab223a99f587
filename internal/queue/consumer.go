package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Worker consumes booking.confirmed, appends every event to
// <LogDir>/booking.log and mails the owner and, when an address was given,
// the customer.
type Worker struct {
	URL        string
	Queue      string
	LogDir     string
	OwnerEmail string
	Mailer     Mailer
}

// Run connects to RabbitMQ and consumes until ctx is cancelled.  Broker
// failures are retried with exponential backoff capped at 30s.
func (w *Worker) Run(ctx context.Context) error {
	if w.Queue == "" {
		w.Queue = DefaultQueue
	}
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(w.URL)
		if err != nil {
			log.Printf("booking-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = w.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("booking-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (w *Worker) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		log.Printf("booking-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(w.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(w.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := w.Handle(ctx, d.Body); err != nil {
				log.Printf("booking-consumer: handle message failed: %v", err)
				_ = d.Nack(false, false) // do not requeue, avoids tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle processes one message body.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID == "" {
		return errors.New("event without booking_id")
	}
	if err := w.appendLog(ev); err != nil {
		return err
	}
	if w.Mailer == nil {
		return nil
	}
	var errs []error
	if w.OwnerEmail != "" {
		if err := w.Mailer.Send(ctx, ownerMessage(w.OwnerEmail, ev)); err != nil {
			errs = append(errs, fmt.Errorf("owner mail: %w", err))
		}
	}
	if ev.Email != "" {
		if err := w.Mailer.Send(ctx, customerMessage(ev)); err != nil {
			errs = append(errs, fmt.Errorf("customer mail: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (w *Worker) appendLog(ev BookingConfirmedEvent) error {
	dir := w.LogDir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	staff := ev.StaffID
	if staff == "" {
		staff = "-"
	}
	line := fmt.Sprintf("[%s] Booking confirmed | booking_id=%s | date=%s | start=%s | duration=%d min | staff=%s | service=%q | customer=%q | price=%d HUF\n",
		ev.ConfirmedAt, ev.BookingID, ev.Date, ev.StartLabel, ev.DurationMin, staff, ev.ServiceName, ev.CustomerName, ev.PriceHUF)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
