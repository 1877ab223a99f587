package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// reserveScript adds every candidate member to the set only when none of
// them is present yet.  Redis runs the whole script without interleaving
// other commands, so the membership check and the SADD cannot race with a
// concurrent caller.  Returns 1 on success and 0 on conflict.
var reserveScript = redis.NewScript(`
for i = 1, #ARGV do
    if redis.call('SISMEMBER', KEYS[1], ARGV[i]) == 1 then
        return 0
    end
end
redis.call('SADD', KEYS[1], unpack(ARGV))
return 1
`)

// SlotStore is the shared reservation store.  It holds one set of occupied
// slot indices per day key and one hash per booking record.  It is safe for
// concurrent use by any number of request handlers and processes.
type SlotStore struct {
	rdb *redis.Client
}

// NewSlotStore binds a SlotStore to an established Redis client.
func NewSlotStore(rdb *redis.Client) *SlotStore { return &SlotStore{rdb: rdb} }

// MembersOf returns the current members of setKey.  A missing set yields an
// empty slice.
func (s *SlotStore) MembersOf(ctx context.Context, setKey string) ([]string, error) {
	members, err := s.rdb.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", setKey, err)
	}
	return members, nil
}

// FieldsOf returns the hash stored at recordKey, or an empty map.
func (s *SlotStore) FieldsOf(ctx context.Context, recordKey string) (map[string]string, error) {
	fields, err := s.rdb.HGetAll(ctx, recordKey).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", recordKey, err)
	}
	return fields, nil
}

// AtomicReserve claims every member of the run in one server-side step.  It
// returns false without mutating anything when any member is already taken.
func (s *SlotStore) AtomicReserve(ctx context.Context, setKey string, members []string) (bool, error) {
	if len(members) == 0 {
		return false, fmt.Errorf("reserve %s: empty run", setKey)
	}
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	n, err := reserveScript.Run(ctx, s.rdb, []string{setKey}, args...).Int64()
	if err != nil {
		return false, fmt.Errorf("reserve %s: %w", setKey, err)
	}
	return n == 1, nil
}

// WriteFields upserts the booking attributes at recordKey.
func (s *SlotStore) WriteFields(ctx context.Context, recordKey string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.rdb.HSet(ctx, recordKey, fields).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", recordKey, err)
	}
	return nil
}

// Ping verifies the store is reachable; used by the health endpoint.
func (s *SlotStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
