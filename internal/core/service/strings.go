package service

import (
	"math"
	"strings"

	"github.com/yndnr/kvplay-go/internal/core/domain"
	"github.com/yndnr/kvplay-go/internal/protocol/resp"
)

// setOptions holds the parsed options of SET.
type setOptions struct {
	expiresAt int64 // Unix ms, 0 for none
	nx        bool
	xx        bool
}

// SET key value [EX seconds|PX milliseconds] [NX|XX]
//
// SET replaces a value of any kind and clears any previous expiration.
func handleSet(c *call) (resp.Reply, *domain.Store, error) {
	key, value := c.args[0], c.args[1]
	opts, err := parseSetOptions(c, c.args[2:])
	if err != nil {
		return resp.Reply{}, nil, err
	}

	exists := c.store.Has(key, c.now)
	if (opts.nx && exists) || (opts.xx && !exists) {
		return resp.Nil(), nil, nil
	}

	e := domain.NewEntry(domain.String(value)).WithExpiresAt(opts.expiresAt)
	if !exists {
		// Drop a stale expired entry so the key is appended as new.
		store, _ := c.store.Delete(key)
		return resp.OK(), store.Put(key, e), nil
	}
	return resp.OK(), c.store.Put(key, e), nil
}

func parseSetOptions(c *call, args []string) (setOptions, error) {
	var opts setOptions
	hasExpire := false
	for i := 0; i < len(args); i++ {
		switch strings.ToUpper(args[i]) {
		case "NX":
			if opts.xx {
				return opts, domain.ErrSyntax
			}
			opts.nx = true
		case "XX":
			if opts.nx {
				return opts, domain.ErrSyntax
			}
			opts.xx = true
		case "EX", "PX":
			if hasExpire || i+1 >= len(args) {
				return opts, domain.ErrSyntax
			}
			unit := int64(1000)
			if strings.EqualFold(args[i], "PX") {
				unit = 1
			}
			n, err := parseInt(args[i+1])
			if err != nil {
				return opts, err
			}
			nowMs := c.now.UnixMilli()
			if n <= 0 || n > (math.MaxInt64-nowMs)/unit {
				return opts, domain.InvalidExpireError(c.name)
			}
			opts.expiresAt = nowMs + n*unit
			hasExpire = true
			i++
		default:
			return opts, domain.ErrSyntax
		}
	}
	return opts, nil
}

// GET key
func handleGet(c *call) (resp.Reply, *domain.Store, error) {
	v, _, found, err := lookupAs[domain.String](c, c.args[0])
	if err != nil {
		return resp.Reply{}, nil, err
	}
	if !found {
		return resp.Nil(), nil, nil
	}
	return resp.Bulk(string(v)), nil, nil
}
