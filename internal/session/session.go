// Package session holds the authenticated identity of the client: the session token and
// the cached user profile, persisted in durable client storage.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonathan/freelance-agent/internal/types"
)

// Well-known storage keys. They are always cleared together.
const (
	KeyToken   = "token"
	KeyUser    = "user"
	KeyCookies = "cookies"
)

// ErrIncompleteSession is returned by Save when the token or the user is missing.
var ErrIncompleteSession = errors.New("session requires both a token and a user")

// Session is the authenticated identity of the current client.
type Session struct {
	Token string
	User  *types.User
}

// Valid reports whether both the token and the user are present.
func (s Session) Valid() bool {
	return s.Token != "" && s.User != nil
}

// ExpiresAt returns the exp claim when the token is a JWT. Opaque tokens report false.
// The claim is read without verifying the signature; the backend remains the authority.
func (s Session) ExpiresAt() (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Store persists the session. Writers are login, register, logout and the gateway's
// expiry handler; everything else only reads.
type Store struct {
	mu      sync.Mutex
	storage Storage
	logger  *slog.Logger
}

// NewStore creates a Store on top of the given storage backend.
func NewStore(storage Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{storage: storage, logger: logger}
}

// Save persists the token and user profile, overwriting any prior session.
func (s *Store) Save(sess Session) error {
	if !sess.Valid() {
		return ErrIncompleteSession
	}

	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("failed to encode user profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(map[string]string{
		KeyToken: sess.Token,
		KeyUser:  string(userJSON),
	}); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	s.logger.Debug("session saved", slog.Int64("user_id", sess.User.ID))
	return nil
}

// Current returns the persisted session. It reports false when either field is missing,
// the user record cannot be decoded, or the storage cannot be read.
func (s *Store) Current() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

func (s *Store) current() (Session, bool) {
	token, ok, err := s.storage.Get(KeyToken)
	if err != nil {
		s.logger.Warn("failed to read session token", slog.Any("error", err))
		return Session{}, false
	}
	if !ok || token == "" {
		return Session{}, false
	}

	rawUser, ok, err := s.storage.Get(KeyUser)
	if err != nil {
		s.logger.Warn("failed to read session user", slog.Any("error", err))
		return Session{}, false
	}
	if !ok || rawUser == "" {
		return Session{}, false
	}

	var user types.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.logger.Warn("discarding malformed session user", slog.Any("error", err))
		return Session{}, false
	}

	return Session{Token: token, User: &user}, true
}

// Clear removes the token, the user profile and the persisted cookies. It is idempotent.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(KeyToken, KeyUser, KeyCookies); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Debug("session cleared")
	return nil
}

// IsAuthenticated reports whether a complete session is present.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}
