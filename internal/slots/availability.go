package slots

import (
	"sort"
	"time"
)

// Clock supplies the current time.  Handlers use RealClock; tests pin it.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// DisabledStarts returns, in ascending order, every candidate start in
// [0, SlotCount()-need] whose run of need slots touches an occupied index.
// Starts whose run would leave the day are not candidates and never appear.
// Occupied indices outside the grid are ignored.
func (c Calendar) DisabledStarts(occupied []int, need int) []int {
	maxStart := c.MaxStart(need)
	if need <= 0 || maxStart < 0 {
		return []int{}
	}
	// prefix[i] = number of occupied slots in [0, i)
	taken := make([]bool, c.total)
	for _, i := range occupied {
		if i >= 0 && i < c.total {
			taken[i] = true
		}
	}
	prefix := make([]int, c.total+1)
	for i, t := range taken {
		prefix[i+1] = prefix[i]
		if t {
			prefix[i+1]++
		}
	}
	out := []int{}
	for s := 0; s <= maxStart; s++ {
		if prefix[s+need]-prefix[s] > 0 {
			out = append(out, s)
		}
	}
	return out
}

// PastCutoff returns the last slot index that has already begun on date,
// judged in the location of now.  Only today has past slots; for any other
// date, or before opening, it returns -1.
func (c Calendar) PastCutoff(date string, now time.Time) int {
	if now.Format("2006-01-02") != date {
		return -1
	}
	minute := now.Hour()*60 + now.Minute() - c.openHour*60
	if minute < 0 {
		return -1
	}
	i := minute / c.step
	if i >= c.total {
		return c.total - 1
	}
	return i
}

// Availability is the union of occupancy conflicts and past slots for a
// run of need slots on date.
func (c Calendar) Availability(date string, occupied []int, need int, now time.Time) []int {
	disabled := c.DisabledStarts(occupied, need)
	cutoff := c.PastCutoff(date, now)
	maxStart := c.MaxStart(need)
	if cutoff < 0 || maxStart < 0 {
		return disabled
	}
	seen := make(map[int]struct{}, len(disabled))
	for _, s := range disabled {
		seen[s] = struct{}{}
	}
	for s := 0; s <= cutoff && s <= maxStart; s++ {
		if _, ok := seen[s]; !ok {
			disabled = append(disabled, s)
		}
	}
	sort.Ints(disabled)
	return disabled
}
