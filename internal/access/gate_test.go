package access

import (
	"strings"
	"testing"
	"time"
)

func minutes(n int) *int { return &n }

func TestEvaluate(t *testing.T) {
	now := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)

	startIn10 := now.Add(10 * time.Minute)
	started5Ago := now.Add(-5 * time.Minute)
	started20Ago := now.Add(-20 * time.Minute)

	tests := []struct {
		name     string
		window   Window
		expected Decision
	}{
		{"no schedule is always allowed", Window{}, Allowed},
		{"starts in 10 minutes", Window{Start: &startIn10}, NotYetOpen},
		{"inside window", Window{Start: &started5Ago, DurationMinutes: minutes(10)}, Allowed},
		{"past window", Window{Start: &started20Ago, DurationMinutes: minutes(10)}, Expired},
		{"started with no duration never expires", Window{Start: &started20Ago}, Allowed},
		{"exactly at start is allowed", Window{Start: &now, DurationMinutes: minutes(10)}, Allowed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Evaluate(now, tc.window)
			if result.Decision != tc.expected {
				t.Errorf("Expected decision %d, got %d", tc.expected, result.Decision)
			}
		})
	}
}

func TestEvaluate_WindowCloseBoundary(t *testing.T) {
	start := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)
	w := Window{Start: &start, DurationMinutes: minutes(10)}

	atEnd := start.Add(10 * time.Minute)
	if got := Evaluate(atEnd, w).Decision; got != Allowed {
		t.Errorf("Expected Allowed exactly at window end, got %d", got)
	}

	pastEnd := atEnd.Add(time.Second)
	if got := Evaluate(pastEnd, w).Decision; got != Expired {
		t.Errorf("Expected Expired one second past window end, got %d", got)
	}
}

func TestEvaluate_RemainingTime(t *testing.T) {
	now := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)
	start := now.Add(10 * time.Minute)

	result := Evaluate(now, Window{Start: &start})
	if result.Decision != NotYetOpen {
		t.Fatalf("Expected NotYetOpen, got %d", result.Decision)
	}
	if result.Remaining != 10*time.Minute {
		t.Errorf("Expected 10m remaining, got %s", result.Remaining)
	}
}

func TestEvaluate_NormalizesZones(t *testing.T) {
	// A "naive" timestamp already normalized to UTC compared against a
	// local-zone now must not produce a multi-hour gating error.
	loc := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2026, 3, 12, 19, 0, 0, 0, loc) // 14:00 UTC
	start := time.Date(2026, 3, 12, 13, 55, 0, 0, time.UTC)

	result := Evaluate(now, Window{Start: &start, DurationMinutes: minutes(10)})
	if result.Decision != Allowed {
		t.Errorf("Expected Allowed after zone normalization, got %d", result.Decision)
	}
}

func TestResultMessage(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		contains string
	}{
		{"hours and minutes", Result{Decision: NotYetOpen, Remaining: 70 * time.Minute}, "1h 10m"},
		{"minutes only", Result{Decision: NotYetOpen, Remaining: 10 * time.Minute}, "10m"},
		{"rounds down", Result{Decision: NotYetOpen, Remaining: 9*time.Minute + 59*time.Second}, "9m"},
		{"under a minute", Result{Decision: NotYetOpen, Remaining: 30 * time.Second}, "less than a minute"},
		{"expired", Result{Decision: Expired}, "expired"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := tc.result.Message()
			if !strings.Contains(msg, tc.contains) {
				t.Errorf("Expected message to contain %q, got %q", tc.contains, msg)
			}
		})
	}
}
