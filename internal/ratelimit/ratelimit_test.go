package ratelimit

import (
	"testing"
	"time"
)

func TestBudget_Allow(t *testing.T) {
	b := NewBudget("test", 2, time.Hour)

	if !b.Allow() || !b.Allow() {
		t.Fatal("Expected first two calls to be allowed")
	}
	if b.Allow() {
		t.Error("Expected third call to be denied")
	}

	stats := b.GetStats()
	if stats["used"] != 2 || stats["denied"] != 1 || stats["limit"] != 2 {
		t.Errorf("Unexpected stats: %v", stats)
	}
}

func TestBudget_Unlimited(t *testing.T) {
	b := NewBudget("test", 0, time.Hour)
	for i := 0; i < 100; i++ {
		if !b.Allow() {
			t.Fatalf("Expected unlimited budget to allow call %d", i)
		}
	}
}

func TestBudget_ResetsAfterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBudget("test", 1, time.Minute)
	b.now = func() time.Time { return now }
	b.resetTime = now.Add(time.Minute)

	if !b.Allow() {
		t.Fatal("Expected first call to be allowed")
	}
	if b.Allow() {
		t.Fatal("Expected second call to be denied")
	}

	now = now.Add(2 * time.Minute)
	if !b.Allow() {
		t.Error("Expected call after window to be allowed")
	}
	if got := b.GetStats()["denied"]; got != 0 {
		t.Errorf("Expected denied counter reset, got: %v", got)
	}
}
