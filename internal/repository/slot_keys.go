package repository

import (
	"regexp"
	"strconv"
)

// staffIDPattern keeps staff ids free of the ':' separator so that two
// resources can never produce the same key.
var staffIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidStaffID reports whether id may be used inside a store key.
func ValidStaffID(id string) bool { return staffIDPattern.MatchString(id) }

// KeyScheme derives Redis keys for day occupancy sets and booking records.
// A deployment picks one scheme at startup: either every booking is scoped
// to a staff member, or the whole salon shares one slot universe per day.
// The key layouts are shared with the previous deployment and must not
// change.
type KeyScheme struct {
	PerStaff bool
}

// SetKey names the occupancy set for a (date, staff) day.
func (k KeyScheme) SetKey(date, staffID string) string {
	if k.PerStaff {
		return "book:staff:" + staffID + ":day:" + date
	}
	return "book:day:" + date
}

// RecordKey names the booking hash stored at the first index of a run.
func (k KeyScheme) RecordKey(date string, startIndex int, staffID string) string {
	idx := strconv.Itoa(startIndex)
	if k.PerStaff {
		return "book:staff:" + staffID + ":one:" + date + ":" + idx
	}
	return "book:one:" + date + ":" + idx
}
