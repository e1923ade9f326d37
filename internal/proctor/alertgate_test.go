package proctor

import (
	"sync"
	"testing"
	"time"
)

func TestAlertGate_FirstCallFires(t *testing.T) {
	now := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)
	g := NewAlertGate(60 * time.Second)

	if !g.TryFire(now) {
		t.Fatal("Expected the very first call to fire")
	}
}

func TestAlertGate_CooldownBlocks(t *testing.T) {
	now := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)
	g := NewAlertGate(60 * time.Second)

	g.TryFire(now)

	if g.TryFire(now.Add(30 * time.Second)) {
		t.Error("Expected fire within cooldown to be blocked")
	}
	if g.TryFire(now.Add(60 * time.Second)) {
		t.Error("Expected fire exactly at cooldown boundary to be blocked")
	}
	if !g.TryFire(now.Add(60*time.Second + time.Millisecond)) {
		t.Error("Expected fire past cooldown to be allowed")
	}
}

func TestAlertGate_BlockedCallDoesNotExtendCooldown(t *testing.T) {
	now := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)
	g := NewAlertGate(60 * time.Second)

	g.TryFire(now)
	g.TryFire(now.Add(59 * time.Second)) // blocked, must not mutate state

	if !g.TryFire(now.Add(61 * time.Second)) {
		t.Error("Expected blocked call to leave the cooldown clock untouched")
	}
}

func TestAlertGate_ConcurrentSingleWinner(t *testing.T) {
	now := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)
	g := NewAlertGate(60 * time.Second)

	var wg sync.WaitGroup
	fired := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fired <- g.TryFire(now)
		}()
	}
	wg.Wait()
	close(fired)

	wins := 0
	for ok := range fired {
		if ok {
			wins++
		}
	}
	if wins != 1 {
		t.Errorf("Expected exactly one winner, got %d", wins)
	}
}
