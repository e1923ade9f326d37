// Package proctor implements the live proctoring stream engine: per-session
// frame ingestion, presence tracking with sustained-absence debounce, and
// cooldown-limited suspicious-activity alerts.
package proctor

import (
	"errors"
	"time"
)

// ErrDecode marks a frame that could not be decoded. Callers must treat it
// as "no information this frame" and skip it; an undecodable frame never
// counts as absence.
var ErrDecode = errors.New("proctor: frame could not be decoded")

// Classification is the per-frame presence result. EyesPresent is only
// meaningful when FacePresent is true.
type Classification struct {
	FacePresent bool
	EyesPresent bool
	At          time.Time
}

// Detector classifies one encoded image frame. Implementations must be
// safe for concurrent use across sessions.
type Detector interface {
	Classify(frame []byte) (Classification, error)
}
