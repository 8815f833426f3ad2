package cache

import (
	"encoding/json"
	"time"
)

// Entry is the persisted layout of a single cached value.
type Entry struct {
	Value    json.RawMessage `json:"value"`
	StoredAt int64           `json:"storedAt"`
	TTL      int64           `json:"ttl"`
}

func newEntry(value json.RawMessage, storedAt time.Time, ttl time.Duration) Entry {
	return Entry{
		Value:    value,
		StoredAt: storedAt.UnixMilli(),
		TTL:      ttl.Milliseconds(),
	}
}

// expired reports whether the entry outlived its ttl. A non-positive ttl written by a
// foreign writer falls back to fallback and never means "forever".
func (e Entry) expired(now time.Time, fallback time.Duration) bool {
	ttl := e.TTL
	if ttl <= 0 {
		ttl = fallback.Milliseconds()
	}

	return now.UnixMilli()-e.StoredAt > ttl
}
