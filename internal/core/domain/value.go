package domain

import "slices"

// Kind identifies the type of value held by an entry.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindList
	KindSet
	KindHash
)

// String returns the lowercase type name, as reported by TYPE.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindHash:
		return "hash"
	default:
		return "none"
	}
}

// Value is the payload of an entry. It is a closed set: String, List, Set and Hash
// are the only implementations. Values are immutable; every mutating helper returns
// a new value and leaves the receiver untouched.
type Value interface {
	Kind() Kind
	// Len is the number of elements (1 for a string).
	Len() int
	sealed()
}

// String is a single text value.
type String string

func (String) Kind() Kind { return KindString }
func (String) Len() int { return 1 }
func (String) sealed() {}

// List is an ordered sequence of text values. Index 0 is the head.
type List struct {
	items []string
}

// NewList creates a list holding items in order.
func NewList(items ...string) List {
	return List{items: slices.Clone(items)}
}

func (List) Kind() Kind { return KindList }
func (l List) Len() int { return len(l.items) }
func (List) sealed() {}

// Items returns a copy of the list elements, head first.
func (l List) Items() []string {
	return slices.Clone(l.items)
}

// PushHead inserts each value at the head in the order given, so the last
// value ends up at index 0.
func (l List) PushHead(values ...string) List {
	out := make([]string, 0, len(l.items)+len(values))
	for i := len(values) - 1; i >= 0; i-- {
		out = append(out, values[i])
	}
	out = append(out, l.items...)
	return List{items: out}
}

// PushTail appends values at the tail.
func (l List) PushTail(values ...string) List {
	out := make([]string, 0, len(l.items)+len(values))
	out = append(out, l.items...)
	out = append(out, values...)
	return List{items: out}
}

// PopHead removes the head element. ok is false for an empty list.
func (l List) PopHead() (head string, rest List, ok bool) {
	if len(l.items) == 0 {
		return "", l, false
	}
	return l.items[0], List{items: slices.Clone(l.items[1:])}, true
}

// Range returns the elements between start and stop, both inclusive.
// Negative indices count from the tail (-1 is the last element). Out of
// range indices are clamped; an empty slice is returned when the range
// selects nothing.
func (l List) Range(start, stop int) []string {
	n := len(l.items)
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return []string{}
	}
	return slices.Clone(l.items[start : stop+1])
}

// Set is a collection of unique members. Members are kept in insertion
// order so replies are deterministic; the order has no meaning.
type Set struct {
	members []string
	index   map[string]struct{}
}

// NewSet creates a set from members, ignoring duplicates.
func NewSet(members ...string) Set {
	s, _ := Set{}.Add(members...)
	return s
}

func (Set) Kind() Kind { return KindSet }
func (s Set) Len() int { return len(s.members) }
func (Set) sealed() {}

// Contains reports whether member is in the set.
func (s Set) Contains(member string) bool {
	_, ok := s.index[member]
	return ok
}

// Members returns a copy of all members.
func (s Set) Members() []string {
	return slices.Clone(s.members)
}

// Add returns a set including members and the number of members that were
// not present before.
func (s Set) Add(members ...string) (Set, int) {
	out := Set{
		members: slices.Clone(s.members),
		index:   make(map[string]struct{}, len(s.members)+len(members)),
	}
	for _, m := range s.members {
		out.index[m] = struct{}{}
	}

	added := 0
	for _, m := range members {
		if _, ok := out.index[m]; ok {
			continue
		}
		out.index[m] = struct{}{}
		out.members = append(out.members, m)
		added++
	}
	return out, added
}

// Hash maps unique field names to text values. Fields keep insertion order.
type Hash struct {
	fields []string
	values map[string]string
}

// NewHash creates a hash from alternating field/value pairs.
// A trailing field without a value is ignored.
func NewHash(pairs ...string) Hash {
	h := Hash{}
	for i := 0; i+1 < len(pairs); i += 2 {
		h, _ = h.Set(pairs[i], pairs[i+1])
	}
	return h
}

func (Hash) Kind() Kind { return KindHash }
func (h Hash) Len() int { return len(h.fields) }
func (Hash) sealed() {}

// Get returns the value stored at field.
func (h Hash) Get(field string) (string, bool) {
	v, ok := h.values[field]
	return v, ok
}

// Set returns a hash with field set to value. created is true when the field
// did not exist before.
func (h Hash) Set(field, value string) (out Hash, created bool) {
	out = Hash{
		fields: slices.Clone(h.fields),
		values: make(map[string]string, len(h.values)+1),
	}
	for k, v := range h.values {
		out.values[k] = v
	}
	if _, ok := out.values[field]; !ok {
		out.fields = append(out.fields, field)
		created = true
	}
	out.values[field] = value
	return out, created
}

// Fields returns the field names in insertion order.
func (h Hash) Fields() []string {
	return slices.Clone(h.fields)
}

// Pairs returns field, value, field, value... in insertion order.
func (h Hash) Pairs() []string {
	out := make([]string, 0, 2*len(h.fields))
	for _, f := range h.fields {
		out = append(out, f, h.values[f])
	}
	return out
}
