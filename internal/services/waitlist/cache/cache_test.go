package cache

import (
	"context"
	"testing"
)

func TestNilCacheIsSafe(t *testing.T) {
	var counts *Counts

	if _, ok := counts.Get(context.Background()); ok {
		t.Fatal("nil cache reported a hit")
	}
	counts.Set(context.Background(), 42)
	counts.Invalidate(context.Background())
	if err := counts.Close(); err != nil {
		t.Fatalf("Close() on nil cache = %v, want nil", err)
	}
}

func TestNewCountsRejectsUnreachableAddress(t *testing.T) {
	if _, err := NewCounts("127.0.0.1:1", "", 0, 0, nil); err == nil {
		t.Fatal("expected connection error for unreachable redis")
	}
}
