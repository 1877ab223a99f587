package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/salon-booking/internal/model"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPublishedBookingReachesSubscriber(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	if err := hub.Start(ctx, rdb, DefaultChannel); err != nil {
		t.Fatalf("Start: %v", err)
	}
	topic := Topic("2025-03-14", "nita")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, topic)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return hub.Count(topic) == 1 })

	pub := NewPublisher(rdb, "")
	other := model.BookingRecord{Date: "2025-03-14", StaffID: "uma", StartIndex: 1, DurationMin: 30}
	mine := model.BookingRecord{Date: "2025-03-14", StaffID: "nita", StartIndex: 4, DurationMin: 60}
	for _, rec := range []model.BookingRecord{other, mine} {
		if err := pub.NotifyBooking(ctx, rec); err != nil {
			t.Fatalf("NotifyBooking: %v", err)
		}
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.StaffID != "nita" || ev.StartIndex != 4 || ev.DurationMin != 60 {
		t.Fatalf("event = %+v", ev)
	}
}

func TestSubscriberRemovedOnClose(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, "t")
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitFor(t, func() bool { return hub.Count("t") == 1 })
	conn.Close()
	waitFor(t, func() bool { return hub.Count("t") == 0 })
}

func TestConcurrentBroadcastsReachEverySubscriber(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, "t")
	}))
	defer srv.Close()

	var conns []*websocket.Conn
	for i := 0; i < 2; i++ {
		conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		defer conn.Close()
		conns = append(conns, conn)
	}
	waitFor(t, func() bool { return hub.Count("t") == 2 })

	const senders, perSender = 4, 10
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				hub.Broadcast("t", []byte(`{"date":"2025-03-14"}`))
				_ = hub.Count("t")
			}
		}()
	}
	wg.Wait()

	for i, conn := range conns {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		for n := 0; n < senders*perSender; n++ {
			if _, _, err := conn.ReadMessage(); err != nil {
				t.Fatalf("conn %d message %d: %v", i, n, err)
			}
		}
	}
	if got := hub.Count("t"); got != 2 {
		t.Fatalf("subscribers = %d, want 2", got)
	}
}
