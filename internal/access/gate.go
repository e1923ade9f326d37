// Package access decides, from wall-clock time, whether an interview
// session may be used. All comparisons happen in UTC; timestamps read from
// storage without zone information must be normalized to UTC before they
// reach Evaluate.
package access

import (
	"fmt"
	"time"
)

type Decision int

const (
	Allowed Decision = iota
	NotYetOpen
	Expired
)

// Window is the interview's access window as stored. A nil Start means the
// interview is accessible immediately and never expires. A nil Duration
// means the window opens at Start and never closes.
type Window struct {
	Start           *time.Time
	DurationMinutes *int
}

type Result struct {
	Decision Decision
	// Remaining is the time until the window opens. Only set for NotYetOpen.
	Remaining time.Duration
}

// Evaluate classifies an access attempt at the given instant. It is a pure
// function and safe to call concurrently.
func Evaluate(now time.Time, w Window) Result {
	if w.Start == nil {
		return Result{Decision: Allowed}
	}

	now = now.UTC()
	start := w.Start.UTC()

	if now.Before(start) {
		return Result{Decision: NotYetOpen, Remaining: start.Sub(now)}
	}

	if w.DurationMinutes != nil {
		end := start.Add(time.Duration(*w.DurationMinutes) * time.Minute)
		if now.After(end) {
			return Result{Decision: Expired}
		}
	}

	return Result{Decision: Allowed}
}

// Message renders a user-facing reason for a rejection. Remaining time is
// rounded down to whole minutes; under one minute it reads "less than a
// minute".
func (r Result) Message() string {
	switch r.Decision {
	case NotYetOpen:
		return fmt.Sprintf("This interview has not started yet. It starts in %s.", formatRemaining(r.Remaining))
	case Expired:
		return "This interview's time window has expired."
	default:
		return ""
	}
}

func formatRemaining(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 1 {
		return "less than a minute"
	}

	hours := minutes / 60
	minutes = minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
