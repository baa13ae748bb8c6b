package domain

import "time"

// Entry is one stored value plus its optional expiration. It has no wire
// form; display goes through service.Snapshot.
type Entry struct {
	// Value is the typed payload. Its kind is fixed for the life of the key.
	Value Value

	// ExpiresAt is the expiration instant in Unix milliseconds.
	// Zero means the entry never expires.
	ExpiresAt int64
}

// NewEntry creates an entry without expiration.
func NewEntry(v Value) Entry {
	return Entry{Value: v}
}

// Kind returns the kind of the entry's value.
func (e Entry) Kind() Kind {
	if e.Value == nil {
		return 0
	}
	return e.Value.Kind()
}

// HasExpiry reports whether an expiration is set.
func (e Entry) HasExpiry() bool {
	return e.ExpiresAt != 0
}

// IsExpiredAt reports whether the entry is logically absent at now.
// An entry expires once now reaches its expiration instant.
func (e Entry) IsExpiredAt(now time.Time) bool {
	if e.ExpiresAt == 0 {
		return false
	}
	return now.UnixMilli() >= e.ExpiresAt
}

// TTL returns the remaining lifetime at now. ok is false when no expiration is set.
func (e Entry) TTL(now time.Time) (ttl time.Duration, ok bool) {
	if e.ExpiresAt == 0 {
		return 0, false
	}
	remaining := time.Duration(e.ExpiresAt-now.UnixMilli()) * time.Millisecond
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// WithValue returns a copy of the entry holding v, keeping the expiration.
func (e Entry) WithValue(v Value) Entry {
	e.Value = v
	return e
}

// WithExpiresAt returns a copy of the entry expiring at ms (Unix milliseconds).
// Zero clears the expiration.
func (e Entry) WithExpiresAt(ms int64) Entry {
	e.ExpiresAt = ms
	return e
}

// ExpiresAtTime returns the expiration as time.Time, or the zero time.
func (e Entry) ExpiresAtTime() time.Time {
	if e.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(e.ExpiresAt)
}
