// Package live pushes availability changes to browsers over websockets.
// Bookings are published on a Redis channel so every server process can
// fan them out to the clients connected to it.
package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/salon-booking/internal/model"
)

// DefaultChannel is the Redis pub/sub channel booking events travel on.
const DefaultChannel = "book:events"

const writeWait = 5 * time.Second

// Event tells clients watching a day which indices were just taken.
type Event struct {
	Date        string `json:"date"`
	StaffID     string `json:"staff_id,omitempty"`
	StartIndex  int    `json:"start_index"`
	DurationMin int    `json:"duration_min"`
}

// Topic names the subscriber group for one (date, staff) day.
func Topic(date, staffID string) string { return date + "|" + staffID }

// subscriber serializes writes to one connection; gorilla allows a single
// concurrent writer.
type subscriber struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (s *subscriber) write(payload []byte) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks websocket subscribers per topic.
type Hub struct {
	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

// NewHub returns a hub accepting upgrades from any origin; CORS for the
// REST API is enforced separately.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		subs:     map[string]map[*subscriber]struct{}{},
	}
}

// Serve upgrades the request and keeps the connection subscribed to topic
// until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, topic string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	sub := &subscriber{conn: conn}
	h.add(topic, sub)
	defer h.remove(topic, sub)

	// Reads only detect the close; clients never send anything useful.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

// Count returns the number of subscribers on topic.
func (h *Hub) Count(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[topic])
}

func (h *Hub) add(topic string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[topic] == nil {
		h.subs[topic] = map[*subscriber]struct{}{}
	}
	h.subs[topic][sub] = struct{}{}
}

func (h *Hub) remove(topic string, sub *subscriber) {
	h.mu.Lock()
	if set, ok := h.subs[topic]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, topic)
		}
	}
	h.mu.Unlock()
	_ = sub.conn.Close()
}

// Broadcast writes payload to every subscriber of topic, dropping the ones
// whose write fails.  Writes happen outside the hub lock so a slow client
// only delays its own topic.
func (h *Hub) Broadcast(topic string, payload []byte) {
	h.mu.Lock()
	targets := make([]*subscriber, 0, len(h.subs[topic]))
	for sub := range h.subs[topic] {
		targets = append(targets, sub)
	}
	h.mu.Unlock()

	for _, sub := range targets {
		if err := sub.write(payload); err != nil {
			h.remove(topic, sub)
		}
	}
}

// Start subscribes to channel and relays every event to local subscribers
// until ctx is done.  It returns once the subscription is confirmed.
func (h *Hub) Start(ctx context.Context, rdb *redis.Client, channel string) error {
	sub := rdb.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Printf("live: bad event: %v", err)
					continue
				}
				h.Broadcast(Topic(ev.Date, ev.StaffID), []byte(msg.Payload))
			}
		}
	}()
	return nil
}

// Publisher announces committed bookings on the Redis channel.
type Publisher struct {
	rdb     *redis.Client
	channel string
}

func NewPublisher(rdb *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{rdb: rdb, channel: channel}
}

// NotifyBooking implements service.Notifier.
func (p *Publisher) NotifyBooking(ctx context.Context, rec model.BookingRecord) error {
	data, err := json.Marshal(Event{
		Date:        rec.Date,
		StaffID:     rec.StaffID,
		StartIndex:  rec.StartIndex,
		DurationMin: rec.DurationMin,
	})
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, data).Err()
}
