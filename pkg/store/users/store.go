// Package users holds the process-wide, in-memory record store.
//
// Every operation, read or write, takes the same exclusive lock, and the lock
// only covers the slice itself: callers serialize results after List returns.
// Nothing is persisted; the store lives as long as the server that owns it.
package users

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrInvalidRecord is returned by Append for a record with an empty name.
	ErrInvalidRecord = errors.New("invalid user record")

	// ErrStoreClosed is returned once the owning server has shut the store
	// down. Handlers report it as an internal error.
	ErrStoreClosed = errors.New("user store is closed")
)

// User is one stored record. Records are never mutated after Append.
type User struct {
	Name string
	Age  uint8
}

// Filter selects records. A nil field matches everything.
type Filter struct {
	// NameContains keeps records whose name contains this substring
	// (case-sensitive).
	NameContains *string

	// Age keeps records with exactly this age.
	Age *uint8
}

// Matches reports whether u satisfies every present filter.
func (f Filter) Matches(u User) bool {
	if f.NameContains != nil && !strings.Contains(u.Name, *f.NameContains) {
		return false
	}
	if f.Age != nil && u.Age != *f.Age {
		return false
	}
	return true
}

// Repository is what request handlers need from a record store.
type Repository interface {
	Append(u User) error
	List(f Filter) ([]User, error)
	Len() int
}

// Store is an insertion-ordered, mutex-guarded list of users.
type Store struct {
	mu     sync.Mutex
	users  []User
	closed bool
}

// NewStore returns an empty open store.
func NewStore() *Store {
	return &Store{}
}

// Append adds u at the end.
func (s *Store) Append(u User) error {
	if u.Name == "" {
		return fmt.Errorf("append: %w", ErrInvalidRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	s.users = append(s.users, u)
	return nil
}

// List returns a copy of the records matching f, in insertion order.
func (s *Store) List(f Filter) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	matched := make([]User, 0, len(s.users))
	for _, u := range s.users {
		if f.Matches(u) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// Close drops all records; later calls fail with ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.users = nil
	return nil
}
