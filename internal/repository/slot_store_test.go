package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*SlotStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSlotStore(rdb), mr
}

func TestAtomicReserveAllOrNothing(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()
	key := "book:day:2025-03-14"

	ok, err := s.AtomicReserve(ctx, key, []string{"2", "3"})
	if err != nil || !ok {
		t.Fatalf("first reserve = %v, %v", ok, err)
	}
	ok, err = s.AtomicReserve(ctx, key, []string{"3", "4", "5"})
	if err != nil || ok {
		t.Fatalf("overlapping reserve = %v, %v; want false", ok, err)
	}
	got, _ := mr.Members(key)
	if len(got) != 2 || got[0] != "2" || got[1] != "3" {
		t.Fatalf("members = %v", got)
	}
	ok, err = s.AtomicReserve(ctx, key, []string{"4", "5"})
	if err != nil || !ok {
		t.Fatalf("adjacent reserve = %v, %v", ok, err)
	}
}

func TestAtomicReserveEmptyRun(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.AtomicReserve(context.Background(), "k", nil); err == nil {
		t.Fatal("expected error for empty run")
	}
}

func TestFieldsRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	if err := s.WriteFields(ctx, "book:one:2025-03-14:2", map[string]string{"id": "x", "phone": "1"}); err != nil {
		t.Fatalf("WriteFields: %v", err)
	}
	f, err := s.FieldsOf(ctx, "book:one:2025-03-14:2")
	if err != nil || f["id"] != "x" || f["phone"] != "1" {
		t.Fatalf("FieldsOf = %v, %v", f, err)
	}
	empty, err := s.FieldsOf(ctx, "book:one:2025-03-14:9")
	if err != nil || len(empty) != 0 {
		t.Fatalf("missing record = %v, %v", empty, err)
	}
	m, err := s.MembersOf(ctx, "book:day:1999-01-01")
	if err != nil || len(m) != 0 {
		t.Fatalf("missing set = %v, %v", m, err)
	}
}

func TestStoreUnreachable(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Close()
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
	if _, err := s.AtomicReserve(context.Background(), "k", []string{"1"}); err == nil {
		t.Fatal("expected reserve error")
	}
}

func TestKeyScheme(t *testing.T) {
	cases := []struct {
		perStaff bool
		set, rec string
	}{
		{true, "book:staff:nita:day:2025-03-14", "book:staff:nita:one:2025-03-14:4"},
		{false, "book:day:2025-03-14", "book:one:2025-03-14:4"},
	}
	for _, c := range cases {
		k := KeyScheme{PerStaff: c.perStaff}
		if got := k.SetKey("2025-03-14", "nita"); got != c.set {
			t.Fatalf("SetKey = %q, want %q", got, c.set)
		}
		if got := k.RecordKey("2025-03-14", 4, "nita"); got != c.rec {
			t.Fatalf("RecordKey = %q, want %q", got, c.rec)
		}
	}
	for id, want := range map[string]bool{"nita": true, "staff_2-b": true, "": false, "a:b": false, "a b": false} {
		if ValidStaffID(id) != want {
			t.Fatalf("ValidStaffID(%q) = %v", id, !want)
		}
	}
}
