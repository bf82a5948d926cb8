// Package authstate tracks who is signed in for each browser session.
//
// A State is owned by the Store and handed to page handlers explicitly; views
// never look it up on their own.
package authstate

import (
	"errors"
	"sync"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
)

var (
	ErrNilUser = errors.New("authstate: nil user")
	ErrClosed  = errors.New("authstate: state closed")
)

type Status string

const (
	Anonymous     Status = "anonymous"
	Authenticated Status = "authenticated"
)

// Event describes one transition. User is the signed-in user for
// SignIn and the user being signed out for Logout.
type Event struct {
	From Status
	To   Status
	User domain.User
}

// State holds the current user of one session.
type State struct {
	mu     sync.Mutex
	user   *domain.User
	subs   map[int]func(Event)
	nextID int
	closed bool
}

func newState() *State {
	return &State{subs: make(map[int]func(Event))}
}

// User returns a copy of the signed-in user.
func (s *State) User() (*domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, false
	}
	u := *s.user
	return &u, true
}

func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *State) statusLocked() Status {
	if s.user == nil {
		return Anonymous
	}
	return Authenticated
}

// SignIn replaces the current user. Signing in over an existing user is
// reported as a transition from Authenticated.
func (s *State) SignIn(user *domain.User) error {
	if user == nil {
		return ErrNilUser
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	from := s.statusLocked()
	u := *user
	s.user = &u
	subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, Event{From: from, To: Authenticated, User: u})
	return nil
}

// Logout clears the user. It is a no-op when nobody is signed in or the
// state is closed.
func (s *State) Logout() {
	s.mu.Lock()
	if s.closed || s.user == nil {
		s.mu.Unlock()
		return
	}
	prev := *s.user
	s.user = nil
	subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, Event{From: Authenticated, To: Anonymous, User: prev})
}

// Subscribe registers fn for every future transition. fn runs synchronously on
// the goroutine that caused the transition, after the state lock is released.
func (s *State) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Close drops all subscribers. Later SignIn calls fail with ErrClosed and
// Logout does nothing.
func (s *State) Close() {
	s.close()
}

// close freezes the state and returns the status it was frozen in.
func (s *State) close() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = make(map[int]func(Event))
	return s.statusLocked()
}

// attach subscribes fn and reports the status at that instant, so a caller
// counting states sees every later transition exactly once.
func (s *State) attach(fn func(Event)) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}
	s.subs[s.nextID] = fn
	s.nextID++
	return s.statusLocked(), nil
}

func (s *State) snapshotLocked() []func(Event) {
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}
