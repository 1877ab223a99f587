// Package repository defines the persistence layer: the Redis slot store
// used by the reservation core and the MySQL repositories for the catalog,
// staff and admin accounts.  Sentinel values below let higher layers such
// as the booking service and HTTP handlers tell failure scenarios apart.
package repository

import "errors"

// ErrPriceNotFound is returned when the catalog has no variant for the
// requested (service, duration) pair.  Handlers translate it into 422.
var ErrPriceNotFound = errors.New("price not found")

// ErrInvalidCatalog is returned when a catalog submitted for storage is
// structurally inconsistent (duplicate ids, empty names, non positive
// durations or prices).
var ErrInvalidCatalog = errors.New("invalid catalog")

// ErrEmailExists is returned when an admin account with the same email
// already exists.
var ErrEmailExists = errors.New("email already exists")
