package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/salon-booking/internal/model"
	q "github.com/iliyamo/salon-booking/internal/queue"
)

// QueuePublisher publishes booking.confirmed events to RabbitMQ.  It opens
// a connection per message; bookings are rare enough that pooling is not
// worth the reconnect handling.
type QueuePublisher struct {
	URL   string
	Queue string
}

// NewQueuePublisher returns a publisher for the given broker and queue.
func NewQueuePublisher(url, queue string) *QueuePublisher {
	if queue == "" {
		queue = q.DefaultQueue
	}
	return &QueuePublisher{URL: url, Queue: queue}
}

// NotifyBooking implements Notifier.
func (p *QueuePublisher) NotifyBooking(ctx context.Context, rec model.BookingRecord) error {
	return p.Publish(ctx, q.EventFromRecord(rec))
}

// Publish sends one persistent message.  Any error is logged and returned
// so the caller can choose to ignore it.
func (p *QueuePublisher) Publish(ctx context.Context, event q.BookingConfirmedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// durable, not auto-deleted, not exclusive
	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.BookingID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
