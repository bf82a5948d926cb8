package authstate

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var ErrStoreClosed = errors.New("authstate: store closed")

type session struct {
	state    *State
	lastSeen time.Time
}

// Store owns every persisted session's State, keyed by the session cookie
// value. Visitors who never sign in get a transient State that is not kept.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ids      map[*State]string
	closed   bool

	logger *slog.Logger
	gauge  *prometheus.GaugeVec
	now    func() time.Time
}

// NewStore creates an empty store and registers the sessions gauge.
func NewStore(logger *slog.Logger, reg prometheus.Registerer) *Store {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "ordertracker",
		Name:      "web_sessions",
		Help:      "Live browser sessions by auth state.",
	}, []string{"state"})
	reg.MustRegister(gauge)
	gauge.WithLabelValues(string(Anonymous)).Set(0)
	gauge.WithLabelValues(string(Authenticated)).Set(0)

	return &Store{
		sessions: make(map[string]*session),
		ids:      make(map[*State]string),
		logger:   logger.With("component", "sessions"),
		gauge:    gauge,
		now:      time.Now,
	}
}

// Open returns the State for a known id. For an empty or unknown id it returns
// a transient anonymous State and an empty id; nothing is stored until Persist.
func (s *Store) Open(id string) (*State, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, "", ErrStoreClosed
	}
	if sess, ok := s.sessions[id]; ok && id != "" {
		sess.lastSeen = s.now()
		return sess.state, id, nil
	}
	return newState(), "", nil
}

// Persist stores st under a fresh id and returns it. Persisting a State that
// is already stored returns its existing id.
func (s *Store) Persist(st *State) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrStoreClosed
	}
	if id, ok := s.ids[st]; ok {
		return id, nil
	}

	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	status, err := st.attach(s.track)
	if err != nil {
		return "", err
	}
	s.sessions[id] = &session{state: st, lastSeen: s.now()}
	s.ids[st] = id
	s.gauge.WithLabelValues(string(status)).Inc()
	return id, nil
}

// Get returns the State for a known id without creating one.
func (s *Store) Get(id string) (*State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.state, true
}

// Drop closes and forgets one session.
func (s *Store) Drop(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
		delete(s.ids, sess.state)
	}
	s.mu.Unlock()
	if ok {
		s.release(sess)
	}
}

// Sweep drops sessions not seen within idle and reports how many went.
func (s *Store) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	var stale []*session
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			stale = append(stale, sess)
			delete(s.sessions, id)
			delete(s.ids, sess.state)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		s.release(sess)
	}
	if len(stale) > 0 {
		s.logger.Info("swept idle sessions", "count", len(stale))
	}
	return len(stale)
}

// Counts returns the number of live sessions per status.
func (s *Store) Counts() map[Status]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[Status]int{Anonymous: 0, Authenticated: 0}
	for _, sess := range s.sessions {
		counts[sess.state.Status()]++
	}
	return counts
}

// Close closes every session. Open and Persist fail afterwards.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	all := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	s.sessions = make(map[string]*session)
	s.ids = make(map[*State]string)
	s.mu.Unlock()

	for _, sess := range all {
		s.release(sess)
	}
	s.logger.Info("session store closed", "sessions", len(all))
}

// release closes the State and removes its final status from the gauge.
// Transitions that won the race against close have already been counted or
// are still on their way to track with consistent From and To.
func (s *Store) release(sess *session) {
	s.gauge.WithLabelValues(string(sess.state.close())).Dec()
}

func (s *Store) track(ev Event) {
	if ev.From == ev.To {
		return
	}
	s.gauge.WithLabelValues(string(ev.From)).Dec()
	s.gauge.WithLabelValues(string(ev.To)).Inc()
}

func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Ping reports ErrStoreClosed once the store is shut down.
func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}
