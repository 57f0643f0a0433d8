package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStore_SaveAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	reqs := []Request{
		{ID: "req-1", SourceText: "Hello", SourceLang: "auto", ResolvedSource: "en", TargetLang: "es", Timestamp: base},
		{ID: "req-2", SourceText: "Bonjour", SourceLang: "fr", ResolvedSource: "fr", TargetLang: "en", Timestamp: base.Add(time.Minute)},
	}
	for _, r := range reqs {
		if err := s.SaveRequest(ctx, r); err != nil {
			t.Fatalf("SaveRequest failed: %v", err)
		}
	}

	if err := s.SaveResult(ctx, Result{RequestID: "req-1", ServiceName: "libretranslate", TranslatedText: "Hola", StatusCode: 200, Latency: 120 * time.Millisecond}); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}
	if err := s.SaveResult(ctx, Result{RequestID: "req-2", ServiceName: "libretranslate", StatusCode: 502, Error: "Translation service error"}); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	entries, err := s.ListHistory(ctx, 0)
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "req-2" {
		t.Errorf("expected newest first, got %q", entries[0].ID)
	}
	if entries[1].TranslatedText != "Hola" || entries[1].ResolvedSource != "en" {
		t.Errorf("unexpected entry: %+v", entries[1])
	}
	if entries[1].LatencyMs != 120 {
		t.Errorf("expected latency 120ms, got %d", entries[1].LatencyMs)
	}

	limited, err := s.ListHistory(ctx, 1)
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 entry, got %d", len(limited))
	}
}

func TestStore_RequestWithoutResult(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveRequest(ctx, Request{ID: "req-1", SourceText: "Hi", SourceLang: "en", ResolvedSource: "en", TargetLang: "de", Timestamp: time.Now()}); err != nil {
		t.Fatalf("SaveRequest failed: %v", err)
	}

	entries, err := s.ListHistory(ctx, 10)
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(entries) != 1 || entries[0].StatusCode != 0 {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalRequests != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}

	now := time.Now()
	for i, code := range []int{200, 200, 400} {
		id := string(rune('a' + i))
		if err := s.SaveRequest(ctx, Request{ID: id, SourceText: "x", SourceLang: "en", ResolvedSource: "en", TargetLang: "es", Timestamp: now}); err != nil {
			t.Fatalf("SaveRequest failed: %v", err)
		}
		if err := s.SaveResult(ctx, Result{RequestID: id, ServiceName: "mymemory", StatusCode: code, Latency: 100 * time.Millisecond}); err != nil {
			t.Fatalf("SaveResult failed: %v", err)
		}
	}

	stats, err = s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalRequests != 3 || stats.Succeeded != 2 || stats.Failed != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.AvgLatencyMs != 100 {
		t.Errorf("expected avg latency 100, got %v", stats.AvgLatencyMs)
	}
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if err := s.SaveRequest(ctx, Request{ID: id, SourceText: "x", SourceLang: "en", ResolvedSource: "en", TargetLang: "es", Timestamp: time.Now()}); err != nil {
			t.Fatalf("SaveRequest failed: %v", err)
		}
	}

	n, err := s.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted, got %d", n)
	}

	entries, err := s.ListHistory(ctx, 0)
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty history, got %d", len(entries))
	}
}
