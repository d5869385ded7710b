package session

import (
	"crypto/subtle"

	"github.com/gemcompare/gemcompare-backend/pkg/util"
)

// CSRFTokenSentinel is stored in place of a token when the entropy source
// fails. It never validates, so forms carrying it are rejected on submit.
const CSRFTokenSentinel = "token_error"

const csrfTokenBytes = 32

// Session is the per-visitor state kept in the session store. Flash entries
// are consumed on first read.
type Session struct {
	ID         string            `json:"id"`
	UserID     uint              `json:"user_id"`
	Username   string            `json:"username"`
	Email      string            `json:"email"`
	LoggedIn   bool              `json:"logged_in"`
	CSRFToken  string            `json:"csrf_token"`
	RememberMe bool              `json:"remember_me"`
	Flash      map[string]string `json:"flash,omitempty"`
}

// New returns an anonymous session with a fresh ID.
func New(id string) *Session {
	return &Session{ID: id}
}

// EnsureCSRFToken generates a CSRF token if the session has none, or if a
// previous generation left the sentinel behind. Returns the active token.
func (s *Session) EnsureCSRFToken() string {
	if s.CSRFToken != "" && s.CSRFToken != CSRFTokenSentinel {
		return s.CSRFToken
	}
	token, err := util.GenerateSecureToken(csrfTokenBytes)
	if err != nil {
		s.CSRFToken = CSRFTokenSentinel
		return s.CSRFToken
	}
	s.CSRFToken = token
	return s.CSRFToken
}

// ValidateCSRF reports whether a submitted token matches the stored one.
// The sentinel never validates, even against itself.
func (s *Session) ValidateCSRF(submitted string) bool {
	if s.CSRFToken == "" || s.CSRFToken == CSRFTokenSentinel {
		return false
	}
	if submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.CSRFToken), []byte(submitted)) == 1
}

// SetFlash stores a one-shot message under key, replacing any previous value.
func (s *Session) SetFlash(key, value string) {
	if s.Flash == nil {
		s.Flash = make(map[string]string)
	}
	s.Flash[key] = value
}

// PopFlash returns and removes the flash message under key.
func (s *Session) PopFlash(key string) (string, bool) {
	if s.Flash == nil {
		return "", false
	}
	value, ok := s.Flash[key]
	if ok {
		delete(s.Flash, key)
	}
	return value, ok
}

// Login marks the session as authenticated for the given user and rotates
// the CSRF token.
func (s *Session) Login(userID uint, username, email string, rememberMe bool) {
	s.UserID = userID
	s.Username = username
	s.Email = email
	s.LoggedIn = true
	s.RememberMe = rememberMe
	s.CSRFToken = ""
	s.EnsureCSRFToken()
}

// Logout clears the authenticated state but keeps the session usable.
func (s *Session) Logout() {
	s.UserID = 0
	s.Username = ""
	s.Email = ""
	s.LoggedIn = false
	s.RememberMe = false
	s.CSRFToken = ""
	s.Flash = nil
}
