package service

import (
	"math"

	"github.com/yndnr/kvplay-go/internal/core/domain"
	"github.com/yndnr/kvplay-go/internal/protocol/resp"
)

// DEL key [key ...]
//
// Only live keys are counted. Listed keys that already expired are dropped
// from the store as well.
func handleDel(c *call) (resp.Reply, *domain.Store, error) {
	seen := make(map[string]struct{}, len(c.args))
	var removed int64
	for _, key := range c.args {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if c.store.Has(key, c.now) {
			removed++
		}
	}

	next, n := c.store.Delete(c.args...)
	if n == 0 {
		return resp.Int(0), nil, nil
	}
	return resp.Int(removed), next, nil
}

// EXISTS key [key ...]
//
// A key listed twice is counted twice.
func handleExists(c *call) (resp.Reply, *domain.Store, error) {
	var n int64
	for _, key := range c.args {
		if c.store.Has(key, c.now) {
			n++
		}
	}
	return resp.Int(n), nil, nil
}

// EXPIRE key seconds
func handleExpire(c *call) (resp.Reply, *domain.Store, error) {
	key := c.args[0]
	seconds, err := parseInt(c.args[1])
	if err != nil {
		return resp.Reply{}, nil, err
	}

	nowMs := c.now.UnixMilli()
	if seconds > (math.MaxInt64-nowMs)/1000 || seconds < math.MinInt64/1000 {
		return resp.Reply{}, nil, domain.InvalidExpireError(c.name)
	}

	e, ok := c.lookup(key)
	if !ok {
		return resp.Int(0), nil, nil
	}

	// A non-positive TTL expires the key immediately.
	if seconds <= 0 {
		next, _ := c.store.Delete(key)
		return resp.Int(1), next, nil
	}

	next := c.store.Put(key, e.WithExpiresAt(nowMs+seconds*1000))
	return resp.Int(1), next, nil
}

// TTL key
//
// Replies -2 when the key does not exist and -1 when it has no expiration.
// Partial seconds round up, so a key never reports 0 while still live.
func handleTTL(c *call) (resp.Reply, *domain.Store, error) {
	e, ok := c.lookup(c.args[0])
	if !ok {
		return resp.Int(-2), nil, nil
	}
	return resp.Int(ttlSeconds(e, c.now)), nil, nil
}

// PERSIST key
func handlePersist(c *call) (resp.Reply, *domain.Store, error) {
	key := c.args[0]
	e, ok := c.lookup(key)
	if !ok || !e.HasExpiry() {
		return resp.Int(0), nil, nil
	}
	return resp.Int(1), c.store.Put(key, e.WithExpiresAt(0)), nil
}

// KEYS pattern
func handleKeys(c *call) (resp.Reply, *domain.Store, error) {
	pattern := c.args[0]
	keys := make([]string, 0)
	c.store.Range(func(key string, e domain.Entry) bool {
		if !e.IsExpiredAt(c.now) && domain.MatchGlob(pattern, key) {
			keys = append(keys, key)
		}
		return true
	})
	return resp.Strings(keys), nil, nil
}

// TYPE key
func handleType(c *call) (resp.Reply, *domain.Store, error) {
	e, ok := c.lookup(c.args[0])
	if !ok {
		return resp.Status("none"), nil, nil
	}
	return resp.Status(e.Kind().String()), nil, nil
}
