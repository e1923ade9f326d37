package proctor

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func testSession(key string) *Session {
	now := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)
	return NewSession(key, "candidate@example.com", "company@example.com", nil, nil, Config{}, now)
}

func TestRegistry_RejectsDuplicateKey(t *testing.T) {
	r := NewRegistry()

	first := testSession("interview-1")
	if err := r.Register("interview-1", first); err != nil {
		t.Fatalf("Expected first register to succeed, got %v", err)
	}

	second := testSession("interview-1")
	if err := r.Register("interview-1", second); !errors.Is(err, ErrAlreadyActive) {
		t.Fatalf("Expected ErrAlreadyActive, got %v", err)
	}

	if r.Active() != 1 {
		t.Errorf("Expected 1 active session, got %d", r.Active())
	}
}

func TestRegistry_UnregisterIdempotent(t *testing.T) {
	r := NewRegistry()

	r.Register("interview-1", testSession("interview-1"))
	r.Unregister("interview-1")
	r.Unregister("interview-1") // absent key is a no-op
	r.Unregister("never-registered")

	if r.Active() != 0 {
		t.Errorf("Expected 0 active sessions, got %d", r.Active())
	}
}

func TestRegistry_ReRegisterAfterTeardown(t *testing.T) {
	r := NewRegistry()

	r.Register("interview-1", testSession("interview-1"))
	r.Unregister("interview-1")

	if err := r.Register("interview-1", testSession("interview-1")); err != nil {
		t.Fatalf("Expected re-register after full teardown to succeed, got %v", err)
	}
}

func TestRegistry_ConcurrentLifecycles(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n%8))
			if err := r.Register(key, testSession(key)); err == nil {
				r.Unregister(key)
			}
		}(i)
	}
	wg.Wait()

	if r.Active() != 0 {
		t.Errorf("Expected registry drained after all lifecycles, got %d", r.Active())
	}
}
