// Package session is the auth session store: it holds the current
// bearer credential and identity, persists the token across restarts,
// and exposes the login/register/logout/verify operations. The store is
// the transport's TokenSource, closing the loop between credential
// state and outbound requests.
package session

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/reconsole/reconsole/pkg/apiclient"
	"github.com/reconsole/reconsole/pkg/jsonutil"
)

// Identity is the authenticated user record from GET /api/auth/me.
type Identity struct {
	ID        int           `json:"id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	IsActive  bool          `json:"is_active"`
	CreatedAt jsonutil.Time `json:"created_at"`
}

// tokenResponse is the login endpoint's envelope.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// registerRequest is the account creation body.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Transport is the slice of the API client the store needs. Satisfied
// by *apiclient.Client; narrowed for tests.
type Transport interface {
	Do(ctx context.Context, method, path string, body, out any) error
	DoForm(ctx context.Context, method, path string, form url.Values, out any) error
}

// Store holds credential session state. All mutations are synchronous
// critical sections; network calls happen outside the lock so a failed
// call can never leave the store half-updated.
type Store struct {
	mu            sync.Mutex
	token         string
	identity      *Identity
	authenticated bool
	lastError     string

	path   string // "" disables persistence
	client Transport
	logger *slog.Logger
}

// NewStore creates a session store backed by the state file at path.
// An empty path keeps the session in memory only. A pre-existing token
// is loaded but not trusted until CheckAuth validates it.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{path: path, logger: logger}
	if path != "" {
		tok, err := loadToken(path)
		if err != nil {
			return nil, err
		}
		s.token = tok
	}
	return s, nil
}

// SetClient attaches the transport. Done after construction because the
// transport itself needs the store as its TokenSource.
func (s *Store) SetClient(c Transport) { s.client = c }

// Token implements apiclient.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Authenticated reports whether the current token has been validated
// and not yet rejected.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Identity returns a copy of the current identity, or nil.
func (s *Store) Identity() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// LastError returns the most recent operation error message, cleared by
// the next successful operation.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Login exchanges credentials for a token, persists it, then hydrates
// the identity. On any failure the prior session state is left exactly
// as it was; the failure is reported through LastError.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	form := url.Values{
		"username": {username},
		"password": {password},
	}
	var tr tokenResponse
	if err := s.client.DoForm(ctx, http.MethodPost, "/api/auth/login", form, &tr); err != nil {
		s.setError(apiclient.ErrorMessage(err, "Login failed"))
		return false
	}

	// Token accepted. Hydrate identity with it before committing,
	// so a failed identity fetch does not half-establish a session.
	prev := s.swapToken(tr.AccessToken)
	var id Identity
	if err := s.client.Do(ctx, http.MethodGet, "/api/auth/me", nil, &id); err != nil {
		s.swapToken(prev)
		s.setError(apiclient.ErrorMessage(err, "Login failed"))
		return false
	}

	s.mu.Lock()
	s.identity = &id
	s.authenticated = true
	s.lastError = ""
	s.mu.Unlock()
	s.persist(tr.AccessToken)
	s.logger.Info("session established", "username", id.Username)
	return true
}

// Register creates an account, then delegates to Login for session
// establishment. A registration failure surfaces its own error and no
// login is attempted.
func (s *Store) Register(ctx context.Context, username, email, password string) bool {
	body := registerRequest{Username: username, Email: email, Password: password}
	if err := s.client.Do(ctx, http.MethodPost, "/api/auth/register", body, nil); err != nil {
		s.setError(apiclient.ErrorMessage(err, "Registration failed"))
		return false
	}
	return s.Login(ctx, username, password)
}

// Logout clears the token and identity unconditionally. Never fails;
// a state-file removal error is logged and otherwise ignored.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.identity = nil
	s.authenticated = false
	s.mu.Unlock()
	if s.path != "" {
		if err := removeToken(s.path); err != nil {
			s.logger.Warn("failed to remove session file", "path", s.path, "error", err)
		}
	}
}

// CheckAuth is the sole re-entry point after a restart. With no token
// on disk it reports unauthenticated without a network call; otherwise
// it validates the token against the identity endpoint. A rejected
// token is cleared so the next call short-circuits.
func (s *Store) CheckAuth(ctx context.Context) bool {
	s.mu.Lock()
	tok := s.token
	s.mu.Unlock()
	if tok == "" {
		return false
	}

	var id Identity
	if err := s.client.Do(ctx, http.MethodGet, "/api/auth/me", nil, &id); err != nil {
		s.Logout()
		return false
	}
	s.mu.Lock()
	s.identity = &id
	s.authenticated = true
	s.mu.Unlock()
	return true
}

// Invalidate drops the credential after the server rejected it. Wired
// as the transport's auth-reject handler.
func (s *Store) Invalidate() {
	s.logger.Warn("credential rejected by server, clearing session")
	s.Logout()
}

// swapToken replaces the in-memory token and returns the previous one.
func (s *Store) swapToken(tok string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.token
	s.token = tok
	return prev
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}

func (s *Store) persist(tok string) {
	if s.path == "" {
		return
	}
	if err := saveToken(s.path, tok); err != nil {
		s.logger.Warn("failed to persist session", "path", s.path, "error", err)
	}
}
