/*
session.go - Shared-passphrase gate and session store

PURPOSE:
  The clinic uses one shared passphrase, not per-user accounts. The gate
  is a capability check performed at the presentation boundary: a correct
  passphrase (compared against a bcrypt hash) yields an opaque session
  token in a cookie, and the session middleware guards every core entry
  point. Nothing below the API layer knows sessions exist.

STORAGE:
  Sessions are in-memory with a fixed TTL. Losing them on restart just
  means logging in again with the passphrase - acceptable for two users.
*/
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// CookieName carries the session token.
	CookieName = "leave_session"

	sessionTTL = 7 * 24 * time.Hour
)

// SessionStore issues and validates opaque session tokens.
type SessionStore struct {
	passphraseHash []byte

	mu       sync.Mutex
	sessions map[string]time.Time // token -> expiry
}

// NewSessionStore takes the bcrypt hash of the shared passphrase.
func NewSessionStore(passphraseHash string) *SessionStore {
	return &SessionStore{
		passphraseHash: []byte(passphraseHash),
		sessions:       make(map[string]time.Time),
	}
}

// Login checks the passphrase and on success returns a fresh token.
func (s *SessionStore) Login(passphrase string) (string, bool) {
	if bcrypt.CompareHashAndPassword(s.passphraseHash, []byte(passphrase)) != nil {
		return "", false
	}
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = time.Now().Add(sessionTTL)
	s.mu.Unlock()
	return token, true
}

// Valid reports whether a token names a live session, evicting it when
// expired.
func (s *SessionStore) Valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.sessions[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Logout drops a session token.
func (s *SessionStore) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// RequireSession rejects requests without a live session cookie.
func RequireSession(store *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || !store.Valid(cookie.Value) {
				writeError(w, http.StatusUnauthorized, "login required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
