package proctor

import "time"

// condition is a debounce-by-timestamp cell: it remembers the last instant
// a tracked condition held. One implementation, instantiated per condition.
type condition struct {
	lastSeen time.Time
}

// mark records that the condition holds now. lastSeen never rewinds.
func (c *condition) mark(now time.Time) {
	if now.After(c.lastSeen) {
		c.lastSeen = now
	}
}

func (c *condition) absentFor(now time.Time, threshold time.Duration) bool {
	return now.Sub(c.lastSeen) > threshold
}

// Tracker is the per-session presence state machine. Both conditions start
// at the session-open instant, which gives the first threshold seconds as a
// grace period even if no frame ever arrives.
//
// Tracker is not safe for concurrent use; each session feeds it from a
// single frame-processing goroutine.
type Tracker struct {
	face condition
	eyes condition
}

func NewTracker(now time.Time) *Tracker {
	return &Tracker{
		face: condition{lastSeen: now},
		eyes: condition{lastSeen: now},
	}
}

// Observe folds one frame classification into the tracker. The eyes
// condition is only meaningful while a face is present: a frame with no
// face does not independently count as "no eyes".
func (t *Tracker) Observe(facePresent, eyesPresent bool, now time.Time) {
	if !facePresent {
		return
	}
	t.face.mark(now)
	if eyesPresent {
		t.eyes.mark(now)
	}
}

func (t *Tracker) FaceAbsent(now time.Time, threshold time.Duration) bool {
	return t.face.absentFor(now, threshold)
}

func (t *Tracker) EyesAbsent(now time.Time, threshold time.Duration) bool {
	return t.eyes.absentFor(now, threshold)
}

// LastFaceSeen reports the last instant a face was observed.
func (t *Tracker) LastFaceSeen() time.Time { return t.face.lastSeen }

// LastEyesSeen reports the last instant an eye pair was observed.
func (t *Tracker) LastEyesSeen() time.Time { return t.eyes.lastSeen }
