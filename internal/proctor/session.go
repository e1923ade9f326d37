package proctor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Alert is one suspicious-activity notification.
type Alert struct {
	Recipient  string
	Candidate  string
	SessionKey string
	Reason     string
	// Screenshot is the most recently decoded frame, still encoded. Nil
	// when no frame decoded successfully before the alert.
	Screenshot []byte
}

// Sink delivers alerts to the company. Implemented by the email service.
type Sink interface {
	SendAlert(ctx context.Context, alert Alert) error
}

type Config struct {
	// AbsenceThreshold is how long a condition must be continuously absent
	// before it counts as sustained.
	AbsenceThreshold time.Duration
	// AlertCooldown is the minimum time between two notifications for the
	// same session.
	AlertCooldown time.Duration
	// NotifyTimeout bounds a single Sink call so a slow delivery cannot
	// stall the frame loop.
	NotifyTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.AbsenceThreshold <= 0 {
		c.AbsenceThreshold = 10 * time.Second
	}
	if c.AlertCooldown <= 0 {
		c.AlertCooldown = 60 * time.Second
	}
	if c.NotifyTimeout <= 0 {
		c.NotifyTimeout = 5 * time.Second
	}
	return c
}

// Session owns the proctoring state for one interview attempt: one tracker,
// one alert gate, and the live connection. Frames are processed in arrival
// order on a single goroutine; nothing here persists past teardown.
type Session struct {
	key       string
	candidate string
	recipient string

	detector Detector
	sink     Sink
	cfg      Config

	tracker *Tracker
	gate    *AlertGate

	lastFrame []byte

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewSession initializes the tracker with now as the last-seen instant for
// both conditions, so the first AbsenceThreshold seconds never alert.
func NewSession(key, candidate, recipient string, detector Detector, sink Sink, cfg Config, now time.Time) *Session {
	cfg = cfg.withDefaults()
	return &Session{
		key:       key,
		candidate: candidate,
		recipient: recipient,
		detector:  detector,
		sink:      sink,
		cfg:       cfg,
		tracker:   NewTracker(now),
		gate:      NewAlertGate(cfg.AlertCooldown),
	}
}

// Key returns the session key (interview identifier).
func (s *Session) Key() string { return s.key }

// HandleFrame runs one frame through decode → detect → track → gate →
// notify. Per-frame errors never escape: a decode failure skips the frame
// and a delivery failure is logged and swallowed.
func (s *Session) HandleFrame(ctx context.Context, frame []byte, now time.Time) {
	c, err := s.detector.Classify(frame)
	if err != nil {
		// No information this frame. Do not touch the tracker.
		return
	}

	s.lastFrame = frame
	s.tracker.Observe(c.FacePresent, c.EyesPresent, now)

	threshold := s.cfg.AbsenceThreshold
	if s.tracker.FaceAbsent(now, threshold) {
		s.alert(ctx, now, fmt.Sprintf("face not detected for %ds", int(threshold.Seconds())))
		return
	}
	if s.tracker.EyesAbsent(now, threshold) {
		s.alert(ctx, now, fmt.Sprintf("eyes not detected for %ds", int(threshold.Seconds())))
	}
}

func (s *Session) alert(ctx context.Context, now time.Time, reason string) {
	if !s.gate.TryFire(now) {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.NotifyTimeout)
	defer cancel()

	err := s.sink.SendAlert(ctx, Alert{
		Recipient:  s.recipient,
		Candidate:  s.candidate,
		SessionKey: s.key,
		Reason:     reason,
		Screenshot: s.lastFrame,
	})
	if err != nil {
		// The cooldown is not rolled back: a failed send still counts,
		// preventing retry storms against a broken sink.
		log.Printf("proctor: alert delivery failed for session %s: %v", s.key, err)
	}
}

// Attach hands the session its connection. Must happen before the session
// is registered, so that Close always reaches a live connection; a Close
// racing registration would otherwise find no conn and the read loop would
// outlive the interview.
func (s *Session) Attach(conn *websocket.Conn) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
}

// Run processes frames until the client disconnects, sends the "end"
// signal, or Close is called. Non-binary messages other than "end" are
// ignored.
func (s *Session) Run(ctx context.Context) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			s.HandleFrame(ctx, data, time.Now().UTC())
		case websocket.TextMessage:
			if string(data) == "end" {
				return
			}
		}
	}
}

// Close terminates the session's connection, unblocking the Run loop. Safe
// to call from any goroutine, and more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
	}
}
