package proctor

import (
	"sync"
	"time"
)

// AlertGate is the single serialization point for "at most one notification
// per cooldown window per session". Both the face and eyes reasons share
// one cooldown clock: they target the same recipient, and independent
// clocks would double the alert volume for a single incident.
type AlertGate struct {
	mu        sync.Mutex
	cooldown  time.Duration
	lastFired time.Time
}

func NewAlertGate(cooldown time.Duration) *AlertGate {
	return &AlertGate{cooldown: cooldown}
}

// TryFire reports whether the caller may notify, recording the fire
// timestamp when it does. The first call always fires. Check and set happen
// under one lock so concurrent callers cannot both win the same window.
func (g *AlertGate) TryFire(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.lastFired.IsZero() && now.Sub(g.lastFired) <= g.cooldown {
		return false
	}
	g.lastFired = now
	return true
}
