// Package session holds the current authentication state of the process.
package session

import "sync"

// Store is the single source of truth for the logged-in session: the auth
// token and the user's email. All access is serialized so a login finishing
// concurrently with a logout can never leave a mixed state. Construct one
// Store per process and inject it; there is no package-level instance.
type Store struct {
	mu        sync.Mutex
	token     string
	userEmail string
}

// NewStore returns an empty, logged-out store.
func NewStore() *Store {
	return &Store{}
}

// SetToken records the auth token.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the current auth token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetUserEmail records the logged-in user's email.
func (s *Store) SetUserEmail(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userEmail = email
}

// UserEmail returns the logged-in user's email, or "" when logged out.
func (s *Store) UserEmail() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userEmail
}

// SetSession records token and email in one critical section, so readers
// never observe a token without its matching email.
func (s *Store) SetSession(token, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.userEmail = email
}

// Snapshot returns the token and email as of a single point in time.
// Callers dispatching a network operation read the token exactly once,
// here, and use it for the whole operation.
func (s *Store) Snapshot() (token, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.userEmail
}

// IsAuthenticated reports whether a non-empty token is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// Clear removes the token and email. It is idempotent and has no effect
// when the store is already empty.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.userEmail = ""
}
