package domain

import (
	"slices"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindString, "string"},
		{KindList, "list"},
		{KindSet, "set"},
		{KindHash, "hash"},
		{Kind(0), "none"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestList_PushHead(t *testing.T) {
	l := NewList("x")
	got := l.PushHead("a", "b", "c")

	if want := []string{"c", "b", "a", "x"}; !slices.Equal(got.Items(), want) {
		t.Errorf("PushHead() = %v, want %v", got.Items(), want)
	}
	if !slices.Equal(l.Items(), []string{"x"}) {
		t.Errorf("receiver modified: %v", l.Items())
	}
}

func TestList_PushTail(t *testing.T) {
	l := NewList("x")
	got := l.PushTail("a", "b")

	if want := []string{"x", "a", "b"}; !slices.Equal(got.Items(), want) {
		t.Errorf("PushTail() = %v, want %v", got.Items(), want)
	}
	if l.Len() != 1 {
		t.Errorf("receiver modified: %v", l.Items())
	}
}

func TestList_PopHead(t *testing.T) {
	l := NewList("a", "b")

	head, rest, ok := l.PopHead()
	if !ok || head != "a" {
		t.Fatalf("PopHead() = %q, %v", head, ok)
	}
	if !slices.Equal(rest.Items(), []string{"b"}) {
		t.Errorf("rest = %v", rest.Items())
	}
	if l.Len() != 2 {
		t.Errorf("receiver modified: %v", l.Items())
	}

	if _, _, ok := NewList().PopHead(); ok {
		t.Error("PopHead() on empty list should fail")
	}
}

func TestList_Range(t *testing.T) {
	l := NewList("a", "b", "c", "d")

	tests := []struct {
		name        string
		start, stop int
		want        []string
	}{
		{"all", 0, -1, []string{"a", "b", "c", "d"}},
		{"prefix", 0, 1, []string{"a", "b"}},
		{"negative", -2, -1, []string{"c", "d"}},
		{"stop past end", 2, 100, []string{"c", "d"}},
		{"start before head", -100, 0, []string{"a"}},
		{"start after stop", 3, 1, []string{}},
		{"start past end", 10, 20, []string{}},
		{"single", 2, 2, []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.Range(tt.start, tt.stop)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Range(%d, %d) = %v, want %v", tt.start, tt.stop, got, tt.want)
			}
		})
	}

	if got := NewList().Range(0, -1); len(got) != 0 {
		t.Errorf("Range on empty list = %v", got)
	}
}

func TestSet_Add(t *testing.T) {
	s := NewSet("a")
	got, added := s.Add("b", "a", "c", "b")

	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}
	if want := []string{"a", "b", "c"}; !slices.Equal(got.Members(), want) {
		t.Errorf("Members() = %v, want %v", got.Members(), want)
	}
	if !got.Contains("c") || got.Contains("z") {
		t.Error("Contains() mismatch")
	}
	if s.Len() != 1 || s.Contains("b") {
		t.Errorf("receiver modified: %v", s.Members())
	}
}

func TestHash_Set(t *testing.T) {
	h := NewHash("name", "alice")

	h2, created := h.Set("age", "30")
	if !created {
		t.Error("Set() of new field should report created")
	}
	h3, created := h2.Set("name", "bob")
	if created {
		t.Error("Set() of existing field should not report created")
	}

	if v, _ := h3.Get("name"); v != "bob" {
		t.Errorf("Get(name) = %q, want bob", v)
	}
	if v, _ := h.Get("name"); v != "alice" {
		t.Errorf("receiver modified: name = %q", v)
	}
	if _, ok := h.Get("age"); ok {
		t.Error("receiver modified: age present")
	}
	if want := []string{"name", "bob", "age", "30"}; !slices.Equal(h3.Pairs(), want) {
		t.Errorf("Pairs() = %v, want %v", h3.Pairs(), want)
	}
	if want := []string{"name", "age"}; !slices.Equal(h3.Fields(), want) {
		t.Errorf("Fields() = %v, want %v", h3.Fields(), want)
	}
}

func TestNewHash_OddPairs(t *testing.T) {
	h := NewHash("a", "1", "b")
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}
