package service

import (
	"encoding/json"
	"slices"
	"testing"
	"time"

	"github.com/yndnr/kvplay-go/internal/core/domain"
)

func TestSweep(t *testing.T) {
	store, _ := run(t, nil, t0, "SET a 1", "EXPIRE a 1", "SET b 2", "RPUSH l x", "EXPIRE l 5")

	tests := []struct {
		name    string
		at      time.Time
		changed bool
		keys    []string
	}{
		{"before any expiry", t0.Add(500 * time.Millisecond), false, []string{"a", "b", "l"}},
		{"exactly at expiry", t0.Add(time.Second), true, []string{"b", "l"}},
		{"after first expiry", t0.Add(1001 * time.Millisecond), true, []string{"b", "l"}},
		{"after all expiries", t0.Add(time.Minute), true, []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changed := Sweep(store, tt.at)
			if changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
			if !slices.Equal(next.Keys(), tt.keys) {
				t.Errorf("Keys() = %v, want %v", next.Keys(), tt.keys)
			}
			if !changed && next != store {
				t.Error("unchanged sweep should return the input store")
			}
		})
	}

	if store.Len() != 3 {
		t.Errorf("input store modified: Len() = %d", store.Len())
	}
}

func TestSweep_Idempotent(t *testing.T) {
	store, _ := run(t, nil, t0, "SET a 1", "EXPIRE a 1", "SET b 2", "EXPIRE b 2", "SET c 3")
	at := t0.Add(1500 * time.Millisecond)

	once, _ := Sweep(store, at)
	twice, changed := Sweep(once, at)
	if changed {
		t.Error("second sweep should not change anything")
	}
	if once.Digest() != twice.Digest() {
		t.Error("sweep is not idempotent")
	}
}

func TestSweep_EmptyAndNil(t *testing.T) {
	if next, changed := Sweep(nil, t0); changed || next != nil {
		t.Error("Sweep(nil) should be a no-op")
	}
	empty := domain.NewStore()
	if next, changed := Sweep(empty, t0); changed || next != empty {
		t.Error("Sweep(empty) should be a no-op")
	}
}

func TestSweepCount(t *testing.T) {
	store, _ := run(t, nil, t0, "SET a 1 PX 10", "SET b 2 PX 20", "SET c 3")
	next, n := SweepCount(store, t0.Add(time.Second))
	if n != 2 {
		t.Errorf("SweepCount() removed %d, want 2", n)
	}
	if next.Len() != 1 {
		t.Errorf("Len() = %d, want 1", next.Len())
	}
}

func TestSnapshot(t *testing.T) {
	store, _ := run(t, nil, t0,
		"SET s v", "EXPIRE s 10",
		"RPUSH l a b",
		"SADD set m",
		"HSET h f 1",
		"SET gone x PX 1",
	)
	views := Snapshot(store, t0.Add(5*time.Millisecond))

	if len(views) != 4 {
		t.Fatalf("len(Snapshot()) = %d, want 4", len(views))
	}
	if views[0].Key != "s" || views[0].Type != "string" || views[0].TTL != 10 || views[0].Value != "v" {
		t.Errorf("views[0] = %+v", views[0])
	}
	if got, ok := views[1].Value.([]string); !ok || !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("views[1].Value = %#v", views[1].Value)
	}
	if views[1].TTL != -1 {
		t.Errorf("views[1].TTL = %d, want -1", views[1].TTL)
	}
	if got, ok := views[3].Value.(map[string]string); !ok || got["f"] != "1" {
		t.Errorf("views[3].Value = %#v", views[3].Value)
	}
}

func TestSnapshot_JSON(t *testing.T) {
	store, _ := run(t, nil, t0, "RPUSH l a b", "SADD s m", "HSET h f 1")

	data, err := json.Marshal(Snapshot(store, t0))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `[{"key":"l","type":"list","ttl":-1,"value":["a","b"]},` +
		`{"key":"s","type":"set","ttl":-1,"value":["m"]},` +
		`{"key":"h","type":"hash","ttl":-1,"value":{"f":"1"}}]`
	if string(data) != want {
		t.Errorf("Marshal() = %s\nwant %s", data, want)
	}
}
