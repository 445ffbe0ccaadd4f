package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowWithinCapacity(t *testing.T) {
	l := New()
	for i := 0; i < 5; i++ {
		if !l.Allow("k", 5, 0) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if l.Allow("k", 5, 0) {
		t.Fatalf("bucket should be empty")
	}
}

func TestAllowRefills(t *testing.T) {
	l := New()
	if !l.Allow("k", 1, 100) {
		t.Fatalf("first request should be allowed")
	}
	if l.Allow("k", 1, 100) {
		t.Fatalf("bucket should be empty")
	}
	time.Sleep(20 * time.Millisecond)
	if !l.Allow("k", 1, 100) {
		t.Fatalf("bucket should have refilled")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("key a should be allowed")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("key b should have its own bucket")
	}
}

func TestWaitRespectsContext(t *testing.T) {
	l := New()
	if !l.Allow("k", 1, 0.001) {
		t.Fatalf("first request should be allowed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "k", 1, 0.001); err == nil {
		t.Fatalf("expected context error from empty slow bucket")
	}
}

func TestWaitEventuallyAllows(t *testing.T) {
	l := New()
	if !l.Allow("k", 1, 50) {
		t.Fatalf("first request should be allowed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := l.Wait(ctx, "k", 1, 50); err != nil {
		t.Fatalf("expected token after refill, got %v", err)
	}
}
