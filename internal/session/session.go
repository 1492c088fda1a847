// Package session holds the process-wide current user session.
//
// Views subscribe when they start and release the subscription when they are
// torn down; every change is pushed to all live subscribers.
package session

import (
	"errors"
	"sync"
)

// ErrNoSession is returned when no user is signed in.
var ErrNoSession = errors.New("no active session")

// Session identifies the signed-in user.
type Session struct {
	UserID string
}

// Store is an observable holder of the current session. The zero value is ready to use.
type Store struct {
	mu          sync.RWMutex
	current     *Session
	nextID      int
	subscribers map[int]func(*Session)
}

// Current returns a copy of the current session or ErrNoSession.
func (s *Store) Current() (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return Session{}, ErrNoSession
	}

	return *s.current, nil
}

// Set replaces the current session and notifies subscribers.
func (s *Store) Set(session Session) {
	s.publish(&session)
}

// Clear signs the user out and notifies subscribers with nil.
func (s *Store) Clear() {
	s.publish(nil)
}

// Subscribe registers fn and immediately calls it with the current session.
// The returned function removes the subscription; calling it again is a no-op.
func (s *Store) Subscribe(fn func(*Session)) (unsubscribe func()) {
	s.mu.Lock()

	if s.subscribers == nil {
		s.subscribers = make(map[int]func(*Session))
	}

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	current := clone(s.current)

	s.mu.Unlock()

	fn(current)

	var once sync.Once

	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			delete(s.subscribers, id)
		})
	}
}

func (s *Store) publish(session *Session) {
	s.mu.Lock()
	s.current = session

	subscribers := make([]func(*Session), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}

	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(clone(session))
	}
}

func clone(s *Session) *Session {
	if s == nil {
		return nil
	}

	cloned := *s

	return &cloned
}
