package crypto

import "sync"

// ErrNoSession is returned by Sessions.Get when no cipher is registered for
// the user. Callers must treat it as "re-authentication required", never as
// an anonymous session.
var ErrNoSession = sessionsError("no session registered for user")

type sessionsError string

func (e sessionsError) Error() string { return string(e) }

// Sessions maps authenticated user IDs to their session ciphers. A user has
// at most one entry; a new login replaces the previous cipher. Entries live
// until replaced, evicted, or process exit.
//
// The registry is shared by all request handlers and is safe for concurrent
// use. Cipher construction happens outside the write lock so one login never
// serializes behind another.
type Sessions struct {
	mu      sync.RWMutex
	ciphers map[int64]*Cipher
}

// NewSessions returns an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{ciphers: make(map[int64]*Cipher)}
}

// Register binds a fresh cipher for the given passphrase to userID,
// replacing any existing entry.
func (s *Sessions) Register(userID int64, passphrase string) error {
	c, err := New(passphrase)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ciphers[userID] = c
	s.mu.Unlock()
	return nil
}

// Get returns the cipher registered for userID, or ErrNoSession.
func (s *Sessions) Get(userID int64) (*Cipher, error) {
	s.mu.RLock()
	c, ok := s.ciphers[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNoSession
	}
	return c, nil
}

// Evict drops the session entry for userID, if any.
func (s *Sessions) Evict(userID int64) {
	s.mu.Lock()
	delete(s.ciphers, userID)
	s.mu.Unlock()
}
