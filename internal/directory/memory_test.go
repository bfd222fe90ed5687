package directory

import (
	"context"
	"sort"
	"testing"
	"time"
)

func TestMemorySetGet(t *testing.T) {
	m := NewMemory()
	if err := m.Set(context.Background(), "standup123", "Standup", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	name, ok, err := m.Get(context.Background(), "standup123")
	if err != nil || !ok || name != "Standup" {
		t.Fatalf("get = %q, %v, %v", name, ok, err)
	}

	if _, ok, _ := m.Get(context.Background(), "nosuchroom"); ok {
		t.Fatal("absent key resolved")
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	now := time.Now()
	m.now = func() time.Time { return now }

	if err := m.Set(context.Background(), "standup123", "Standup", 10*time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	now = now.Add(10*time.Minute + time.Second)
	if _, ok, _ := m.Get(context.Background(), "standup123"); ok {
		t.Fatal("expired key resolved")
	}
}

func TestMemoryKeysSkipsExpired(t *testing.T) {
	m := NewMemory()
	now := time.Now()
	m.now = func() time.Time { return now }

	_ = m.Set(context.Background(), "live000001", "a", time.Hour)
	_ = m.Set(context.Background(), "live000002", "b", time.Hour)
	_ = m.Set(context.Background(), "gone000003", "c", time.Minute)

	now = now.Add(30 * time.Minute)
	keys, err := m.Keys(context.Background())
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "live000001" || keys[1] != "live000002" {
		t.Fatalf("keys = %v", keys)
	}
}
