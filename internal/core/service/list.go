package service

import (
	"math"

	"github.com/yndnr/kvplay-go/internal/core/domain"
	"github.com/yndnr/kvplay-go/internal/protocol/resp"
)

// LPUSH key value [value ...]
//
// Values are inserted one after another, so the last value ends up at the head.
func handleLPush(c *call) (resp.Reply, *domain.Store, error) {
	return push(c, domain.List.PushHead)
}

// RPUSH key value [value ...]
func handleRPush(c *call) (resp.Reply, *domain.Store, error) {
	return push(c, domain.List.PushTail)
}

func push(c *call, fn func(domain.List, ...string) domain.List) (resp.Reply, *domain.Store, error) {
	key := c.args[0]
	list, e, found, err := lookupAs[domain.List](c, key)
	if err != nil {
		return resp.Reply{}, nil, err
	}

	list = fn(list, c.args[1:]...)
	if !found {
		store, _ := c.store.Delete(key)
		return resp.Int(int64(list.Len())), store.Put(key, domain.NewEntry(list)), nil
	}
	return resp.Int(int64(list.Len())), c.store.Put(key, e.WithValue(list)), nil
}

// LPOP key
//
// Popping the last element removes the key.
func handleLPop(c *call) (resp.Reply, *domain.Store, error) {
	key := c.args[0]
	list, e, found, err := lookupAs[domain.List](c, key)
	if err != nil {
		return resp.Reply{}, nil, err
	}
	if !found {
		return resp.Nil(), nil, nil
	}

	head, rest, ok := list.PopHead()
	if !ok {
		return resp.Nil(), nil, nil
	}
	if rest.Len() == 0 {
		next, _ := c.store.Delete(key)
		return resp.Bulk(head), next, nil
	}
	return resp.Bulk(head), c.store.Put(key, e.WithValue(rest)), nil
}

// LRANGE key start stop
func handleLRange(c *call) (resp.Reply, *domain.Store, error) {
	start, err := parseIndex(c.args[1])
	if err != nil {
		return resp.Reply{}, nil, err
	}
	stop, err := parseIndex(c.args[2])
	if err != nil {
		return resp.Reply{}, nil, err
	}

	list, _, found, err := lookupAs[domain.List](c, c.args[0])
	if err != nil {
		return resp.Reply{}, nil, err
	}
	if !found {
		return resp.Array(), nil, nil
	}
	return resp.Strings(list.Range(start, stop)), nil, nil
}

// parseIndex parses a list index, saturating at the int range.
func parseIndex(s string) (int, error) {
	n, err := parseInt(s)
	if err != nil {
		return 0, err
	}
	switch {
	case n > math.MaxInt:
		return math.MaxInt, nil
	case n < math.MinInt:
		return math.MinInt, nil
	}
	return int(n), nil
}
