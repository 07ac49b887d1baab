// Package session owns the authenticated identity of the running client:
// who is logged in, the token set, and its persistence across restarts.
//
// The store is the single writer of its state. Components read it through
// accessors; mutation happens only via SetAuth, Logout and LoadStoredAuth.
package session

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/sigtbr/sigt-cli/internal/client/api"
	"github.com/sigtbr/sigt-cli/internal/client/keystore"
	"github.com/sigtbr/sigt-cli/internal/logging"
)

// Keystore entries making up one persisted session. The expiry is a decimal
// string of a Unix-millisecond instant.
const (
	KeyAccessToken    = "access_token"
	KeyRefreshToken   = "refresh_token"
	KeyTokenExpiresIn = "token_expires_in"
	KeyUserData       = "user_data"
)

var sessionKeys = []string{KeyAccessToken, KeyRefreshToken, KeyTokenExpiresIn, KeyUserData}

// storedProfile is the JSON shape of the user_data entry.
type storedProfile struct {
	User   *api.User   `json:"user"`
	Driver *api.Driver `json:"driver,omitempty"`
}

// Store holds the session state and keeps it in sync with the keystore.
// After any of SetAuth/Logout/LoadStoredAuth returns, exactly one of
// {authenticated, unauthenticated} holds and storage agrees with memory.
type Store struct {
	keys keystore.Store
	log  logging.Logger
	now  func() time.Time

	mu            sync.RWMutex
	user          *api.User
	driver        *api.Driver
	tokens        *api.TokenSet
	authenticated bool
	loading       bool
}

// NewStore returns a store in the initial "loading" state. Callers run
// LoadStoredAuth before making any routing decision on IsAuthenticated.
func NewStore(keys keystore.Store, log logging.Logger) *Store {
	return &Store{
		keys:    keys,
		log:     log,
		now:     time.Now,
		loading: true,
	}
}

// SetAuth persists the session and marks the store authenticated.
//
// The four entries are written in a single keystore transaction, so storage
// holds either the whole session or none of it. A persistence failure is
// logged and swallowed: the user who just logged in keeps the in-memory
// session for this process; only restore-after-restart is affected.
func (s *Store) SetAuth(ctx context.Context, user api.User, tokens api.TokenSet, driver *api.Driver) {
	profile, err := json.Marshal(storedProfile{User: &user, Driver: driver})
	if err != nil {
		s.log.Error(ctx, "failed to encode session profile", "error", err)
		return
	}

	entries := map[string][]byte{
		KeyAccessToken:    []byte(tokens.AccessToken),
		KeyRefreshToken:   []byte(tokens.RefreshToken),
		KeyTokenExpiresIn: []byte(strconv.FormatInt(tokens.ExpiresIn, 10)),
		KeyUserData:       profile,
	}
	if err := s.keys.SetAll(ctx, entries); err != nil {
		s.log.Error(ctx, "failed to persist session", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.driver = driver
	s.tokens = &tokens
	s.authenticated = true
	s.loading = false
}

// Logout removes the persisted session and resets the in-memory state.
// Safe to call when no session exists.
func (s *Store) Logout(ctx context.Context) {
	if err := s.keys.DeleteAll(ctx, sessionKeys...); err != nil {
		s.log.Error(ctx, "failed to clear persisted session", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// LoadStoredAuth restores a previously persisted session, if any.
//
// All four entries must be present; a session whose expiry has passed is
// cleared (logout side effect) instead of restored. Whatever the outcome,
// the store leaves the loading state exactly once.
func (s *Store) LoadStoredAuth(ctx context.Context) {
	accessToken := s.read(ctx, KeyAccessToken)
	refreshToken := s.read(ctx, KeyRefreshToken)
	expiresIn := s.read(ctx, KeyTokenExpiresIn)
	userData := s.read(ctx, KeyUserData)

	if accessToken == nil || refreshToken == nil || expiresIn == nil || userData == nil {
		s.finishLoading()
		return
	}

	var profile storedProfile
	if err := json.Unmarshal(userData, &profile); err != nil || profile.User == nil {
		s.log.Error(ctx, "failed to decode stored session", "error", err)
		s.finishLoading()
		return
	}

	expiry, err := strconv.ParseInt(string(expiresIn), 10, 64)
	if err != nil {
		// Unreadable expiry is treated as an expired session.
		s.Logout(ctx)
		return
	}

	tokens := api.TokenSet{
		AccessToken:  string(accessToken),
		RefreshToken: string(refreshToken),
		ExpiresIn:    expiry,
	}

	if !s.now().Before(tokens.ExpiresAt()) {
		s.Logout(ctx)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = profile.User
	s.driver = profile.Driver
	s.tokens = &tokens
	s.authenticated = true
	s.loading = false
}

// AccessToken returns the access token when an unexpired session exists.
func (s *Store) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tokens == nil || s.expired() {
		return "", false
	}
	return s.tokens.AccessToken, true
}

// TokenExpired reports whether no session exists or its expiry has passed.
func (s *Store) TokenExpired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expired()
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// IsLoading is true until the first LoadStoredAuth/SetAuth/Logout completes.
// The UI layer waits on it before rendering a route decision.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) Driver() *api.Driver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.driver
}

func (s *Store) Tokens() *api.TokenSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}

func (s *Store) expired() bool {
	if s.tokens == nil {
		return true
	}
	return !s.now().Before(s.tokens.ExpiresAt())
}

func (s *Store) reset() {
	s.user = nil
	s.driver = nil
	s.tokens = nil
	s.authenticated = false
	s.loading = false
}

func (s *Store) finishLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

// read fetches one keystore entry, mapping read errors to "missing" so a
// broken store degrades to the unauthenticated route.
func (s *Store) read(ctx context.Context, key string) []byte {
	value, err := s.keys.Get(ctx, key)
	if err != nil {
		s.log.Error(ctx, "failed to read stored session entry", "key", key, "error", err)
		return nil
	}
	return value
}
