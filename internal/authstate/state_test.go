package authstate

import (
	"testing"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_StartsAnonymous(t *testing.T) {
	s := newState()
	u, ok := s.User()
	assert.False(t, ok)
	assert.Nil(t, u)
	assert.Equal(t, Anonymous, s.Status())
}

func TestState_SignInThenLogout(t *testing.T) {
	s := newState()
	require.NoError(t, s.SignIn(&domain.User{ID: "u1", Email: "a@b.com"}))

	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "a@b.com", u.Email)

	s.Logout()
	_, ok = s.User()
	assert.False(t, ok, "user should be cleared after logout")
	assert.Equal(t, Anonymous, s.Status())
}

func TestState_UserReturnsCopy(t *testing.T) {
	s := newState()
	require.NoError(t, s.SignIn(&domain.User{Email: "a@b.com"}))

	u, _ := s.User()
	u.Email = "mutated@b.com"

	again, _ := s.User()
	assert.Equal(t, "a@b.com", again.Email)
}

func TestState_SignInNil(t *testing.T) {
	assert.ErrorIs(t, newState().SignIn(nil), ErrNilUser)
}

func TestState_SubscribersSeeTransitions(t *testing.T) {
	s := newState()
	var events []Event
	unsubscribe := s.Subscribe(func(ev Event) { events = append(events, ev) })

	require.NoError(t, s.SignIn(&domain.User{Email: "a@b.com"}))
	s.Logout()
	s.Logout()

	require.Len(t, events, 2, "a no-op logout must not notify")
	assert.Equal(t, Event{From: Anonymous, To: Authenticated, User: domain.User{Email: "a@b.com"}}, events[0])
	assert.Equal(t, Authenticated, events[1].From)
	assert.Equal(t, Anonymous, events[1].To)
	assert.Equal(t, "a@b.com", events[1].User.Email)

	unsubscribe()
	unsubscribe()
	require.NoError(t, s.SignIn(&domain.User{Email: "c@d.com"}))
	assert.Len(t, events, 2, "unsubscribed callbacks must not run")
}

func TestState_SubscriberMayReadState(t *testing.T) {
	s := newState()
	var seen bool
	s.Subscribe(func(Event) {
		_, seen = s.User()
	})
	require.NoError(t, s.SignIn(&domain.User{Email: "a@b.com"}))
	assert.True(t, seen)
}

func TestState_Close(t *testing.T) {
	s := newState()
	called := false
	s.Subscribe(func(Event) { called = true })
	require.NoError(t, s.SignIn(&domain.User{Email: "a@b.com"}))
	called = false

	s.Close()
	assert.ErrorIs(t, s.SignIn(&domain.User{Email: "a@b.com"}), ErrClosed)
	assert.NotPanics(t, s.Logout)
	assert.False(t, called, "closed state must not notify")
}
