package slots

import (
	"errors"
	"testing"
)

func mustCalendar(t *testing.T, open, close, step int) Calendar {
	t.Helper()
	c, err := NewCalendar(open, close, step)
	if err != nil {
		t.Fatalf("NewCalendar(%d,%d,%d): %v", open, close, step, err)
	}
	return c
}

func TestNewCalendar(t *testing.T) {
	cases := []struct {
		open, close, step int
		total             int
		wantErr           bool
	}{
		{open: 9, close: 19, step: 30, total: 20},
		{open: 8, close: 20, step: 15, total: 48},
		{open: 0, close: 24, step: 60, total: 24},
		{open: 10, close: 11, step: 45, wantErr: true},
		{open: 19, close: 9, step: 30, wantErr: true},
		{open: 9, close: 9, step: 30, wantErr: true},
		{open: 9, close: 19, step: 0, wantErr: true},
		{open: 9, close: 25, step: 30, wantErr: true},
	}
	for _, c := range cases {
		cal, err := NewCalendar(c.open, c.close, c.step)
		if c.wantErr {
			if !errors.Is(err, ErrInvalidCalendar) {
				t.Fatalf("NewCalendar(%d,%d,%d): expected ErrInvalidCalendar, got %v", c.open, c.close, c.step, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewCalendar(%d,%d,%d): %v", c.open, c.close, c.step, err)
		}
		if cal.SlotCount() != c.total {
			t.Fatalf("expected %d slots, got %d", c.total, cal.SlotCount())
		}
		if cal.OpenHour() != c.open || cal.CloseHour() != c.close || cal.StepMinutes() != c.step {
			t.Fatalf("expected %d-%d/%d, got %d-%d/%d", c.open, c.close, c.step, cal.OpenHour(), cal.CloseHour(), cal.StepMinutes())
		}
	}
}

func TestLabelIndexRoundTrip(t *testing.T) {
	configs := [][3]int{{9, 19, 30}, {8, 20, 15}, {0, 24, 60}, {7, 22, 5}, {10, 18, 20}}
	for _, cfg := range configs {
		cal := mustCalendar(t, cfg[0], cfg[1], cfg[2])
		for i := 0; i < cal.SlotCount(); i++ {
			label, err := cal.LabelOf(i)
			if err != nil {
				t.Fatalf("%v LabelOf(%d): %v", cfg, i, err)
			}
			back, err := cal.IndexOf(label)
			if err != nil {
				t.Fatalf("%v IndexOf(%q): %v", cfg, label, err)
			}
			if back != i {
				t.Fatalf("%v round trip %d -> %q -> %d", cfg, i, label, back)
			}
		}
	}
}

func TestDefaultSalonCalendar(t *testing.T) {
	cal := mustCalendar(t, 9, 19, 30)
	if cal.SlotCount() != 20 {
		t.Fatalf("expected 20 slots, got %d", cal.SlotCount())
	}
	if l, _ := cal.LabelOf(0); l != "09:00" {
		t.Fatalf("expected 09:00, got %s", l)
	}
	if l, _ := cal.LabelOf(19); l != "18:30" {
		t.Fatalf("expected 18:30, got %s", l)
	}
	if i, err := cal.IndexOf("09:00"); err != nil || i != 0 {
		t.Fatalf("expected index 0, got %d (%v)", i, err)
	}
}

func TestLabelOfOutOfRange(t *testing.T) {
	cal := mustCalendar(t, 9, 19, 30)
	for _, i := range []int{-1, 20, 100} {
		if _, err := cal.LabelOf(i); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("LabelOf(%d): expected ErrOutOfRange, got %v", i, err)
		}
	}
}

func TestIndexOfErrors(t *testing.T) {
	cal := mustCalendar(t, 9, 19, 30)
	cases := []struct {
		label string
		want  error
	}{
		{"9:00", ErrInvalidFormat},
		{"09-00", ErrInvalidFormat},
		{"ab:cd", ErrInvalidFormat},
		{"09:60", ErrInvalidFormat},
		{"", ErrInvalidFormat},
		{"09:15", ErrInvalidFormat},
		{"08:30", ErrOutOfRange},
		{"19:00", ErrOutOfRange},
		{"23:30", ErrOutOfRange},
	}
	for _, c := range cases {
		if _, err := cal.IndexOf(c.label); !errors.Is(err, c.want) {
			t.Fatalf("IndexOf(%q): expected %v, got %v", c.label, c.want, err)
		}
	}
}

func TestSlotsNeeded(t *testing.T) {
	cal := mustCalendar(t, 9, 19, 30)
	cases := []struct {
		minutes int
		need    int
	}{
		{1, 1}, {30, 1}, {31, 2}, {60, 2}, {90, 3}, {120, 4}, {45, 2},
	}
	for _, c := range cases {
		got, err := cal.SlotsNeeded(c.minutes)
		if err != nil {
			t.Fatalf("SlotsNeeded(%d): %v", c.minutes, err)
		}
		if got != c.need {
			t.Fatalf("SlotsNeeded(%d): expected %d, got %d", c.minutes, c.need, got)
		}
	}
	for _, bad := range []int{0, -30} {
		if _, err := cal.SlotsNeeded(bad); !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("SlotsNeeded(%d): expected ErrInvalidDuration, got %v", bad, err)
		}
	}
}
