// Package resp models command replies and their two renderings:
// redis-cli style text and RESP2 wire bytes.
package resp

import "strconv"

// Kind is the shape of a reply.
type Kind uint8

const (
	KindStatus   Kind = iota + 1 // +OK
	KindError                    // -ERR ...
	KindInteger                  // :1
	KindBulk                     // $3 foo
	KindNil                      // $-1
	KindArray                    // *2 ...
	KindVerbatim                 // multi-line text printed raw (INFO)
)

// Reply is a structured command reply.
type Reply struct {
	Kind  Kind
	Str   string  // status, error, bulk and verbatim payload
	Int   int64   // integer payload
	Items []Reply // array elements
}

// OK is the "+OK" status reply.
func OK() Reply {
	return Status("OK")
}

// Status creates a simple status reply.
func Status(s string) Reply {
	return Reply{Kind: KindStatus, Str: s}
}

// Err creates an error reply. msg includes the error prefix, e.g. "ERR syntax error".
func Err(msg string) Reply {
	return Reply{Kind: KindError, Str: msg}
}

// Int creates an integer reply.
func Int(n int64) Reply {
	return Reply{Kind: KindInteger, Int: n}
}

// Bool creates a 1/0 integer reply.
func Bool(b bool) Reply {
	if b {
		return Int(1)
	}
	return Int(0)
}

// Bulk creates a bulk string reply.
func Bulk(s string) Reply {
	return Reply{Kind: KindBulk, Str: s}
}

// Nil creates a null bulk reply.
func Nil() Reply {
	return Reply{Kind: KindNil}
}

// Verbatim creates a reply whose text is shown as is, without quoting.
func Verbatim(s string) Reply {
	return Reply{Kind: KindVerbatim, Str: s}
}

// Array creates an array reply.
func Array(items ...Reply) Reply {
	if items == nil {
		items = []Reply{}
	}
	return Reply{Kind: KindArray, Items: items}
}

// Strings creates an array reply of bulk strings.
func Strings(values []string) Reply {
	items := make([]Reply, len(values))
	for i, v := range values {
		items[i] = Bulk(v)
	}
	return Array(items...)
}

// IsError reports whether the reply is an error.
func (r Reply) IsError() bool {
	return r.Kind == KindError
}

// String returns the redis-cli rendering of the reply.
func (r Reply) String() string {
	return Render(r)
}

// GoString helps test failure output.
func (r Reply) GoString() string {
	switch r.Kind {
	case KindInteger:
		return "resp.Int(" + strconv.FormatInt(r.Int, 10) + ")"
	case KindNil:
		return "resp.Nil()"
	default:
		return "resp.Reply(" + strconv.Quote(Render(r)) + ")"
	}
}
