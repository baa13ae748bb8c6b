package service

import (
	"github.com/yndnr/kvplay-go/internal/core/domain"
	"github.com/yndnr/kvplay-go/internal/protocol/resp"
)

// HSET key field value [field value ...]
func handleHSet(c *call) (resp.Reply, *domain.Store, error) {
	if (len(c.args)-1)%2 != 0 {
		return resp.Reply{}, nil, domain.ArityError(c.name)
	}

	key := c.args[0]
	hash, e, found, err := lookupAs[domain.Hash](c, key)
	if err != nil {
		return resp.Reply{}, nil, err
	}

	var created int64
	changed := false
	for i := 1; i+1 < len(c.args); i += 2 {
		field, value := c.args[i], c.args[i+1]
		if old, ok := hash.Get(field); ok && old == value {
			continue
		}
		var isNew bool
		hash, isNew = hash.Set(field, value)
		if isNew {
			created++
		}
		changed = true
	}

	if !found {
		store, _ := c.store.Delete(key)
		return resp.Int(created), store.Put(key, domain.NewEntry(hash)), nil
	}
	if !changed {
		return resp.Int(0), nil, nil
	}
	return resp.Int(created), c.store.Put(key, e.WithValue(hash)), nil
}

// HGET key field
func handleHGet(c *call) (resp.Reply, *domain.Store, error) {
	hash, _, found, err := lookupAs[domain.Hash](c, c.args[0])
	if err != nil {
		return resp.Reply{}, nil, err
	}
	if !found {
		return resp.Nil(), nil, nil
	}
	v, ok := hash.Get(c.args[1])
	if !ok {
		return resp.Nil(), nil, nil
	}
	return resp.Bulk(v), nil, nil
}

// HGETALL key
func handleHGetAll(c *call) (resp.Reply, *domain.Store, error) {
	hash, _, found, err := lookupAs[domain.Hash](c, c.args[0])
	if err != nil {
		return resp.Reply{}, nil, err
	}
	if !found {
		return resp.Array(), nil, nil
	}
	return resp.Strings(hash.Pairs()), nil, nil
}
