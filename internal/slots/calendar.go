// Package slots maps business hours onto a fixed grid of bookable time
// slots and computes which start positions are legal for a requested
// duration.  Everything in this package is pure and safe for concurrent use.
package slots

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCalendar = errors.New("invalid business calendar")
	ErrOutOfRange      = errors.New("slot index out of range")
	ErrInvalidFormat   = errors.New("invalid HH:MM label")
	ErrInvalidDuration = errors.New("duration must be positive")
)

// Calendar is the business calendar configuration: opening hour, closing
// hour and slot step.  It is immutable once built by NewCalendar.
type Calendar struct {
	openHour  int
	closeHour int
	step      int
	total     int
}

// NewCalendar validates the configuration and precomputes the slot count.
// The open interval must divide evenly into steps.
func NewCalendar(openHour, closeHour, stepMinutes int) (Calendar, error) {
	if openHour < 0 || closeHour > 24 || closeHour <= openHour || stepMinutes <= 0 {
		return Calendar{}, fmt.Errorf("%w: open=%d close=%d step=%d", ErrInvalidCalendar, openHour, closeHour, stepMinutes)
	}
	span := (closeHour - openHour) * 60
	if span%stepMinutes != 0 {
		return Calendar{}, fmt.Errorf("%w: %d minutes not divisible by step %d", ErrInvalidCalendar, span, stepMinutes)
	}
	return Calendar{openHour: openHour, closeHour: closeHour, step: stepMinutes, total: span / stepMinutes}, nil
}

func (c Calendar) OpenHour() int    { return c.openHour }
func (c Calendar) CloseHour() int   { return c.closeHour }
func (c Calendar) StepMinutes() int { return c.step }

// SlotCount returns the number of slots in one business day.
func (c Calendar) SlotCount() int { return c.total }

// LabelOf renders the start of slot i as "HH:MM".
func (c Calendar) LabelOf(i int) (string, error) {
	if i < 0 || i >= c.total {
		return "", fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, i, c.total)
	}
	m := c.openHour*60 + i*c.step
	return fmt.Sprintf("%02d:%02d", m/60, m%60), nil
}

// IndexOf is the inverse of LabelOf.  Labels must be strict two digit
// "HH:MM" values that fall on the grid.
func (c Calendar) IndexOf(label string) (int, error) {
	h, m, ok := parseHHMM(label)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, label)
	}
	offset := h*60 + m - c.openHour*60
	if offset%c.step != 0 {
		return 0, fmt.Errorf("%w: %q not aligned to %d minute grid", ErrInvalidFormat, label, c.step)
	}
	i := offset / c.step
	if offset < 0 || i >= c.total {
		return 0, fmt.Errorf("%w: %q", ErrOutOfRange, label)
	}
	return i, nil
}

// SlotsNeeded returns how many consecutive slots cover durationMinutes.
func (c Calendar) SlotsNeeded(durationMinutes int) (int, error) {
	if durationMinutes <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDuration, durationMinutes)
	}
	return (durationMinutes + c.step - 1) / c.step, nil
}

// MaxStart is the last start index whose run of need slots still ends
// inside the day.  It is negative when need exceeds the day.
func (c Calendar) MaxStart(need int) int { return c.total - need }

// Run lists the contiguous indices [start, start+need).
func (c Calendar) Run(start, need int) []int {
	out := make([]int, need)
	for k := range out {
		out[k] = start + k
	}
	return out
}

func parseHHMM(s string) (int, int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, false
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 24 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
