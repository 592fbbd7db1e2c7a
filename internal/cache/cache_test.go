package cache

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return s
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.Get(context.Background(), "usageStats_week")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Get reported a hit for an absent key")
	}
}

func TestSetAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	payload := json.RawMessage(`{"totalQueries": 17}`)
	if err := s.Set(ctx, "usageStats_week", payload); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entry, ok, err := s.Get(ctx, "usageStats_week")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("Get missed a key that was just written")
	}
	if string(entry.Value) != string(payload) {
		t.Errorf("Value = %s, want %s", entry.Value, payload)
	}
	if entry.WrittenAt.IsZero() {
		t.Error("WrittenAt should be set")
	}
}

func TestSetOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "activityLog_day", json.RawMessage(`[1]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "activityLog_day", json.RawMessage(`[1,2]`)); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}

	entry, ok, err := s.Get(ctx, "activityLog_day")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if string(entry.Value) != `[1,2]` {
		t.Errorf("latest write should win, got %s", entry.Value)
	}

	n, err := s.Len(ctx)
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 1 {
		t.Errorf("overwrite should not add rows, Len = %d", n)
	}
}

func TestSetIdenticalValueIsNoOp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	payload := json.RawMessage(`{"credits": 3.5}`)
	if err := s.Set(ctx, "creditConsumption_month", payload); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	first, _, _ := s.Get(ctx, "creditConsumption_month")

	if err := s.Set(ctx, "creditConsumption_month", payload); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}
	second, _, _ := s.Get(ctx, "creditConsumption_month")

	if string(first.Value) != string(second.Value) {
		t.Error("identical write changed the stored value")
	}
	n, _ := s.Len(ctx)
	if n != 1 {
		t.Errorf("identical write should not add rows, Len = %d", n)
	}
}

func TestKeysAcrossRanges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"usageStats_day", "usageStats_week", "topDocuments_week"} {
		if err := s.Set(ctx, key, json.RawMessage(`{}`)); err != nil {
			t.Fatalf("Set(%s) failed: %v", key, err)
		}
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("Keys returned %d entries, want 3", len(keys))
	}
	// Entries for one range never clobber another range.
	if keys[0] != "topDocuments_week" || keys[1] != "usageStats_day" || keys[2] != "usageStats_week" {
		t.Errorf("unexpected key order: %v", keys)
	}
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")
	ctx := context.Background()

	s, err := New(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := s.Set(ctx, "queryDistribution_year", json.RawMessage(`[{"category":"legal","count":9}]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	entry, ok, err := reopened.Get(ctx, "queryDistribution_year")
	if err != nil || !ok {
		t.Fatalf("Get after reopen failed: ok=%v err=%v", ok, err)
	}
	if string(entry.Value) == "" {
		t.Error("persisted value lost across reopen")
	}
}
