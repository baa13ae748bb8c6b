package service

import (
	"time"

	"github.com/yndnr/kvplay-go/internal/core/domain"
)

// Sweep removes every entry that is expired at now.
//
// It returns the new store and true when at least one entry was removed,
// otherwise the input store and false. Sweep is idempotent: sweeping the
// result again at the same instant changes nothing.
func Sweep(store *domain.Store, now time.Time) (*domain.Store, bool) {
	expired := store.ExpiredKeys(now)
	if len(expired) == 0 {
		return store, false
	}
	next, _ := store.Delete(expired...)
	return next, true
}

// SweepCount is Sweep reporting the number of removed entries.
func SweepCount(store *domain.Store, now time.Time) (*domain.Store, int) {
	expired := store.ExpiredKeys(now)
	if len(expired) == 0 {
		return store, 0
	}
	return store.Delete(expired...)
}
