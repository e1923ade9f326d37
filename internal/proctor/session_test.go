package proctor

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// scriptedDetector returns canned classifications in order, cycling on the
// last one. A nil entry means a decode failure.
type scriptedDetector struct {
	script []*Classification
	calls  int
}

func (d *scriptedDetector) Classify(frame []byte) (Classification, error) {
	i := d.calls
	if i >= len(d.script) {
		i = len(d.script) - 1
	}
	d.calls++

	c := d.script[i]
	if c == nil {
		return Classification{}, ErrDecode
	}
	return *c, nil
}

type capturingSink struct {
	alerts []Alert
	err    error
}

func (s *capturingSink) SendAlert(ctx context.Context, alert Alert) error {
	s.alerts = append(s.alerts, alert)
	return s.err
}

func present() *Classification {
	return &Classification{FacePresent: true, EyesPresent: true}
}

func absent() *Classification {
	return &Classification{}
}

var sessionEpoch = time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)

func newTestSession(det Detector, sink Sink) *Session {
	cfg := Config{
		AbsenceThreshold: 10 * time.Second,
		AlertCooldown:    60 * time.Second,
		NotifyTimeout:    time.Second,
	}
	return NewSession("interview-1", "candidate@example.com", "company@example.com", det, sink, cfg, sessionEpoch)
}

func TestSession_PresenceNeverAlerts(t *testing.T) {
	sink := &capturingSink{}
	s := newTestSession(&scriptedDetector{script: []*Classification{present()}}, sink)

	// One present frame inside every threshold window, over two minutes.
	for i := 1; i <= 24; i++ {
		s.HandleFrame(context.Background(), []byte("frame"), sessionEpoch.Add(time.Duration(i)*5*time.Second))
	}

	if len(sink.alerts) != 0 {
		t.Fatalf("Expected no alerts while candidate present, got %d", len(sink.alerts))
	}
}

func TestSession_SustainedAbsenceFiresExactlyOnce(t *testing.T) {
	sink := &capturingSink{}
	s := newTestSession(&scriptedDetector{script: []*Classification{absent()}}, sink)

	// Absent frames every second for 30s: the condition qualifies on many
	// ticks, but the cooldown allows exactly one alert.
	for i := 1; i <= 30; i++ {
		s.HandleFrame(context.Background(), []byte("frame"), sessionEpoch.Add(time.Duration(i)*time.Second))
	}

	if len(sink.alerts) != 1 {
		t.Fatalf("Expected exactly one alert, got %d", len(sink.alerts))
	}
	if !strings.Contains(sink.alerts[0].Reason, "face not detected for 10s") {
		t.Errorf("Unexpected alert reason %q", sink.alerts[0].Reason)
	}
}

func TestSession_SecondAlertAfterCooldown(t *testing.T) {
	sink := &capturingSink{}
	s := newTestSession(&scriptedDetector{script: []*Classification{absent()}}, sink)

	for i := 1; i <= 90; i++ {
		s.HandleFrame(context.Background(), []byte("frame"), sessionEpoch.Add(time.Duration(i)*time.Second))
	}

	// First alert at ~t+11s, cooldown of 60s, second at ~t+72s.
	if len(sink.alerts) != 2 {
		t.Fatalf("Expected two alerts across 90s of absence, got %d", len(sink.alerts))
	}
}

func TestSession_EyesAbsenceAlerts(t *testing.T) {
	sink := &capturingSink{}
	faceOnly := &Classification{FacePresent: true, EyesPresent: false}
	s := newTestSession(&scriptedDetector{script: []*Classification{faceOnly}}, sink)

	for i := 1; i <= 15; i++ {
		s.HandleFrame(context.Background(), []byte("frame"), sessionEpoch.Add(time.Duration(i)*time.Second))
	}

	if len(sink.alerts) != 1 {
		t.Fatalf("Expected one eyes alert, got %d", len(sink.alerts))
	}
	if !strings.Contains(sink.alerts[0].Reason, "eyes not detected for 10s") {
		t.Errorf("Unexpected alert reason %q", sink.alerts[0].Reason)
	}
}

func TestSession_SharedCooldownAcrossReasons(t *testing.T) {
	sink := &capturingSink{}
	faceOnly := &Classification{FacePresent: true, EyesPresent: false}
	// Eyes go sustained-absent first, then the face disappears too.
	script := []*Classification{
		faceOnly, faceOnly, faceOnly, faceOnly, faceOnly, faceOnly,
		faceOnly, faceOnly, faceOnly, faceOnly, faceOnly, faceOnly,
		absent(),
	}
	s := newTestSession(&scriptedDetector{script: script}, sink)

	for i := 1; i <= 30; i++ {
		s.HandleFrame(context.Background(), []byte("frame"), sessionEpoch.Add(time.Duration(i)*time.Second))
	}

	// The eyes alert fired; the face condition tripping inside the same
	// cooldown window must not fire a second notification.
	if len(sink.alerts) != 1 {
		t.Fatalf("Expected one alert under the shared cooldown, got %d", len(sink.alerts))
	}
}

func TestSession_DecodeFailureIsNoInformation(t *testing.T) {
	sink := &capturingSink{}
	// A present frame, then undecodable frames forever.
	script := []*Classification{present(), nil}
	s := newTestSession(&scriptedDetector{script: script}, sink)

	s.HandleFrame(context.Background(), []byte("good"), sessionEpoch.Add(time.Second))
	for i := 2; i <= 30; i++ {
		s.HandleFrame(context.Background(), []byte("garbage"), sessionEpoch.Add(time.Duration(i)*time.Second))
	}

	// Decode failures never advance nor reset the tracker.
	if got := s.tracker.LastFaceSeen(); !got.Equal(sessionEpoch.Add(time.Second)) {
		t.Errorf("Expected face clock frozen at t+1s, got %s", got)
	}

	// An undecodable frame carries no information: it is skipped before
	// the absence evaluation, so it can never trigger an alert.
	if len(sink.alerts) != 0 {
		t.Fatalf("Expected no alerts from undecodable frames, got %d", len(sink.alerts))
	}
}

func TestSession_ScreenshotIsLastDecodedFrame(t *testing.T) {
	sink := &capturingSink{}
	script := []*Classification{present(), nil, absent()}
	s := newTestSession(&scriptedDetector{script: script}, sink)

	s.HandleFrame(context.Background(), []byte("decoded-frame"), sessionEpoch.Add(time.Second))
	s.HandleFrame(context.Background(), []byte("garbage"), sessionEpoch.Add(2*time.Second))
	for i := 3; i <= 15; i++ {
		s.HandleFrame(context.Background(), []byte("absent-frame"), sessionEpoch.Add(time.Duration(i)*time.Second))
	}

	if len(sink.alerts) != 1 {
		t.Fatalf("Expected one alert, got %d", len(sink.alerts))
	}
	// The undecodable frame must not become the screenshot; the absent
	// frames decoded fine and are the most recent image.
	if !bytes.Equal(sink.alerts[0].Screenshot, []byte("absent-frame")) {
		t.Errorf("Expected screenshot from last decoded frame, got %q", sink.alerts[0].Screenshot)
	}
}

func TestSession_CloseBetweenRegisterAndRunStopsLoop(t *testing.T) {
	serverConn := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up := websocket.Upgrader{}
		c, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConn <- c
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer client.Close()

	conn := <-serverConn

	sink := &capturingSink{}
	s := newTestSession(&scriptedDetector{script: []*Classification{present()}}, sink)
	s.Attach(conn)

	reg := NewRegistry()
	if err := reg.Register("interview-1", s); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// The interview ends via answer submission before the read loop has
	// started. The attached connection must already be reachable, so the
	// loop exits immediately instead of reading from a dead interview.
	reg.Close("interview-1")

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run kept reading after the interview ended")
	}
}

func TestSession_FailedDeliveryStillCountsAgainstCooldown(t *testing.T) {
	sink := &capturingSink{err: errors.New("smtp down")}
	s := newTestSession(&scriptedDetector{script: []*Classification{absent()}}, sink)

	for i := 1; i <= 30; i++ {
		s.HandleFrame(context.Background(), []byte("frame"), sessionEpoch.Add(time.Duration(i)*time.Second))
	}

	// Delivery failed every time, but the cooldown still applies: one
	// attempt, not a retry storm.
	if len(sink.alerts) != 1 {
		t.Fatalf("Expected one delivery attempt despite failures, got %d", len(sink.alerts))
	}
}
