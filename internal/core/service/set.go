package service

import (
	"github.com/yndnr/kvplay-go/internal/core/domain"
	"github.com/yndnr/kvplay-go/internal/protocol/resp"
)

// SADD key member [member ...]
func handleSAdd(c *call) (resp.Reply, *domain.Store, error) {
	key := c.args[0]
	set, e, found, err := lookupAs[domain.Set](c, key)
	if err != nil {
		return resp.Reply{}, nil, err
	}

	set, added := set.Add(c.args[1:]...)
	if !found {
		store, _ := c.store.Delete(key)
		return resp.Int(int64(added)), store.Put(key, domain.NewEntry(set)), nil
	}
	if added == 0 {
		return resp.Int(0), nil, nil
	}
	return resp.Int(int64(added)), c.store.Put(key, e.WithValue(set)), nil
}

// SMEMBERS key
func handleSMembers(c *call) (resp.Reply, *domain.Store, error) {
	set, _, found, err := lookupAs[domain.Set](c, c.args[0])
	if err != nil {
		return resp.Reply{}, nil, err
	}
	if !found {
		return resp.Array(), nil, nil
	}
	return resp.Strings(set.Members()), nil, nil
}

// SISMEMBER key member
func handleSIsMember(c *call) (resp.Reply, *domain.Store, error) {
	set, _, found, err := lookupAs[domain.Set](c, c.args[0])
	if err != nil {
		return resp.Reply{}, nil, err
	}
	return resp.Bool(found && set.Contains(c.args[1])), nil, nil
}
