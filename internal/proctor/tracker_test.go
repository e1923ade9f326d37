package proctor

import (
	"testing"
	"time"
)

var trackerEpoch = time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)

func TestTracker_GracePeriod(t *testing.T) {
	tr := NewTracker(trackerEpoch)

	// No frames at all: inside the threshold nothing is absent yet.
	at := trackerEpoch.Add(9 * time.Second)
	if tr.FaceAbsent(at, 10*time.Second) {
		t.Error("Expected no sustained face absence within grace period")
	}
	if tr.EyesAbsent(at, 10*time.Second) {
		t.Error("Expected no sustained eyes absence within grace period")
	}
}

func TestTracker_SustainedAbsence(t *testing.T) {
	tr := NewTracker(trackerEpoch)

	at := trackerEpoch.Add(10*time.Second + time.Millisecond)
	if !tr.FaceAbsent(at, 10*time.Second) {
		t.Error("Expected sustained face absence past threshold")
	}

	// Exactly at threshold is not yet sustained (strictly greater).
	if tr.FaceAbsent(trackerEpoch.Add(10*time.Second), 10*time.Second) {
		t.Error("Expected no sustained absence exactly at threshold")
	}
}

func TestTracker_ObserveResetsClock(t *testing.T) {
	tr := NewTracker(trackerEpoch)

	tr.Observe(true, true, trackerEpoch.Add(8*time.Second))

	at := trackerEpoch.Add(15 * time.Second)
	if tr.FaceAbsent(at, 10*time.Second) {
		t.Error("Expected face seen at t+8s to hold until t+18s")
	}
	if tr.EyesAbsent(at, 10*time.Second) {
		t.Error("Expected eyes seen at t+8s to hold until t+18s")
	}
}

func TestTracker_EyesRequireFace(t *testing.T) {
	tr := NewTracker(trackerEpoch)

	// A frame with no face must not advance either condition. Eyes reported
	// without a face carry no signal.
	tr.Observe(false, true, trackerEpoch.Add(5*time.Second))
	if got := tr.LastFaceSeen(); !got.Equal(trackerEpoch) {
		t.Errorf("Expected face clock untouched, got %s", got)
	}
	if got := tr.LastEyesSeen(); !got.Equal(trackerEpoch) {
		t.Errorf("Expected eyes clock untouched, got %s", got)
	}

	// Face without eyes advances only the face clock.
	seen := trackerEpoch.Add(6 * time.Second)
	tr.Observe(true, false, seen)
	if got := tr.LastFaceSeen(); !got.Equal(seen) {
		t.Errorf("Expected face clock at %s, got %s", seen, got)
	}
	if got := tr.LastEyesSeen(); !got.Equal(trackerEpoch) {
		t.Errorf("Expected eyes clock untouched, got %s", got)
	}
}

func TestTracker_ClockNeverRewinds(t *testing.T) {
	tr := NewTracker(trackerEpoch)

	later := trackerEpoch.Add(10 * time.Second)
	tr.Observe(true, true, later)

	// An out-of-order observation must not rewind the timestamps.
	tr.Observe(true, true, trackerEpoch.Add(3*time.Second))

	if got := tr.LastFaceSeen(); !got.Equal(later) {
		t.Errorf("Expected face clock to stay at %s, got %s", later, got)
	}
	if got := tr.LastEyesSeen(); !got.Equal(later) {
		t.Errorf("Expected eyes clock to stay at %s, got %s", later, got)
	}
}
