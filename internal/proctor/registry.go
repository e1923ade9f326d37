package proctor

import (
	"errors"
	"sync"
)

// ErrAlreadyActive is returned when a session key is already registered. The
// new connection is rejected and the pre-existing session continues; a
// reconnect is only possible after the prior instance finished teardown.
var ErrAlreadyActive = errors.New("proctor: session already active for this interview")

// Registry maps session keys to live proctoring sessions. It is the only
// structure shared across session goroutines; each entry's lifecycle is
// owned solely by the session that registered it.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func (r *Registry) Register(key string, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[key]; exists {
		return ErrAlreadyActive
	}
	r.sessions[key] = s
	return nil
}

// Unregister is idempotent; removing an absent key is a no-op.
func (r *Registry) Unregister(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
}

// Close stops the live session for a key, if any. Used by the answer
// submission path as the explicit interview-end signal. The session's own
// goroutine still performs the unregister during teardown.
func (r *Registry) Close(key string) {
	r.mu.Lock()
	s := r.sessions[key]
	r.mu.Unlock()

	if s != nil {
		s.Close()
	}
}

// Shutdown closes every live session. In-flight notifications may complete
// or be abandoned; delivery is best-effort on shutdown.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// Active reports the number of registered sessions.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
