package domain

import (
	"encoding/binary"
	"slices"
	"time"

	"github.com/spaolacci/murmur3"
)

// Store is an immutable snapshot mapping keys to entries.
//
// Every mutating method returns a new Store and leaves the receiver valid and
// unchanged, so a caller may keep rendering an old snapshot while adopting a
// new one. A nil *Store is a valid empty store.
//
// Keys keep their first-insertion order. Replacing the entry of an existing
// key keeps its position.
type Store struct {
	entries map[string]Entry
	order   []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Len returns the number of stored entries, including expired ones that
// have not been swept yet.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Get returns the raw entry for key, ignoring expiration.
func (s *Store) Get(key string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	e, ok := s.entries[key]
	return e, ok
}

// Lookup returns the entry for key if it is live at now.
// Expired entries are reported as absent.
func (s *Store) Lookup(key string, now time.Time) (Entry, bool) {
	e, ok := s.Get(key)
	if !ok || e.IsExpiredAt(now) {
		return Entry{}, false
	}
	return e, true
}

// Has reports whether key holds a live entry at now.
func (s *Store) Has(key string, now time.Time) bool {
	_, ok := s.Lookup(key, now)
	return ok
}

// Put returns a store with key set to e.
func (s *Store) Put(key string, e Entry) *Store {
	out := s.clone(1)
	if _, ok := out.entries[key]; !ok {
		out.order = append(out.order, key)
	}
	out.entries[key] = e
	return out
}

// Delete returns a store without the given keys and the number of keys that
// were present. When nothing is removed the receiver is returned as is.
func (s *Store) Delete(keys ...string) (*Store, int) {
	if s == nil {
		return s, 0
	}

	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := s.entries[k]; ok {
			drop[k] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return s, 0
	}

	out := &Store{
		entries: make(map[string]Entry, len(s.entries)-len(drop)),
		order:   make([]string, 0, len(s.order)-len(drop)),
	}
	for _, k := range s.order {
		if _, ok := drop[k]; ok {
			continue
		}
		out.entries[k] = s.entries[k]
		out.order = append(out.order, k)
	}
	return out, len(drop)
}

// Clear returns an empty store.
func (s *Store) Clear() *Store {
	return NewStore()
}

// Keys returns all keys in insertion order, including expired ones.
func (s *Store) Keys() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.order)
}

// Range calls fn for each entry in key order until fn returns false.
func (s *Store) Range(fn func(key string, e Entry) bool) {
	if s == nil {
		return
	}
	for _, k := range s.order {
		if !fn(k, s.entries[k]) {
			return
		}
	}
}

// ExpiredKeys returns the keys whose expiration instant is at or before now.
func (s *Store) ExpiredKeys(now time.Time) []string {
	var expired []string
	s.Range(func(key string, e Entry) bool {
		if e.IsExpiredAt(now) {
			expired = append(expired, key)
		}
		return true
	})
	return expired
}

// LiveCount returns the number of entries that are not expired at now.
func (s *Store) LiveCount(now time.Time) int {
	n := 0
	s.Range(func(_ string, e Entry) bool {
		if !e.IsExpiredAt(now) {
			n++
		}
		return true
	})
	return n
}

// VolatileCount returns the number of live entries that carry an expiration.
func (s *Store) VolatileCount(now time.Time) int {
	n := 0
	s.Range(func(_ string, e Entry) bool {
		if e.HasExpiry() && !e.IsExpiredAt(now) {
			n++
		}
		return true
	})
	return n
}

// Digest returns a fingerprint of the store content. It does not depend on
// key order, so two stores holding the same entries have the same digest.
// An empty store digests to zero.
func (s *Store) Digest() uint64 {
	var sum uint64
	s.Range(func(key string, e Entry) bool {
		sum += digestEntry(key, e)
		return true
	})
	return sum
}

func digestEntry(key string, e Entry) uint64 {
	h := murmur3.New64()
	var buf [8]byte

	writeField := func(b string) {
		binary.BigEndian.PutUint64(buf[:], uint64(len(b)))
		_, _ = h.Write(buf[:])
		_, _ = h.Write([]byte(b))
	}

	writeField(key)
	_, _ = h.Write([]byte{byte(e.Kind())})
	binary.BigEndian.PutUint64(buf[:], uint64(e.ExpiresAt))
	_, _ = h.Write(buf[:])

	switch v := e.Value.(type) {
	case String:
		writeField(string(v))
	case List:
		for _, item := range v.items {
			writeField(item)
		}
	case Set:
		// Set order is not significant.
		members := slices.Clone(v.members)
		slices.Sort(members)
		for _, m := range members {
			writeField(m)
		}
	case Hash:
		fields := slices.Clone(v.fields)
		slices.Sort(fields)
		for _, f := range fields {
			writeField(f)
			writeField(v.values[f])
		}
	}
	return h.Sum64()
}

func (s *Store) clone(extra int) *Store {
	if s == nil {
		return &Store{entries: make(map[string]Entry, extra)}
	}
	out := &Store{
		entries: make(map[string]Entry, len(s.entries)+extra),
		order:   make([]string, len(s.order), len(s.order)+extra),
	}
	copy(out.order, s.order)
	for k, v := range s.entries {
		out.entries[k] = v
	}
	return out
}
