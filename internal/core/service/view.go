package service

import (
	"time"

	"github.com/yndnr/kvplay-go/internal/core/domain"
)

// EntryView is a display form of one live entry.
type EntryView struct {
	Key  string `json:"key" yaml:"key"`
	Type string `json:"type" yaml:"type"`
	// TTL is the remaining time to live in seconds, -1 when the key never expires.
	TTL   int64 `json:"ttl" yaml:"ttl"`
	Value any   `json:"value" yaml:"value"`
}

// Snapshot returns the live entries of store at now, in key order.
// List and set values become []string, hashes become map[string]string.
func Snapshot(store *domain.Store, now time.Time) []EntryView {
	views := make([]EntryView, 0, store.Len())
	store.Range(func(key string, e domain.Entry) bool {
		if e.IsExpiredAt(now) {
			return true
		}
		views = append(views, EntryView{
			Key:   key,
			Type:  e.Kind().String(),
			TTL:   ttlSeconds(e, now),
			Value: viewValue(e.Value),
		})
		return true
	})
	return views
}

func ttlSeconds(e domain.Entry, now time.Time) int64 {
	ttl, ok := e.TTL(now)
	if !ok {
		return -1
	}
	return (ttl.Milliseconds() + 999) / 1000
}

func viewValue(v domain.Value) any {
	switch v := v.(type) {
	case domain.String:
		return string(v)
	case domain.List:
		return v.Items()
	case domain.Set:
		return v.Members()
	case domain.Hash:
		m := make(map[string]string, v.Len())
		pairs := v.Pairs()
		for i := 0; i+1 < len(pairs); i += 2 {
			m[pairs[i]] = pairs[i+1]
		}
		return m
	default:
		return nil
	}
}
