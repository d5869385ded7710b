package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnsureCSRFToken(t *testing.T) {
	s := New("sid-1")

	token := s.EnsureCSRFToken()
	assert.NotEmpty(t, token)
	assert.NotEqual(t, CSRFTokenSentinel, token)
	assert.Len(t, token, 64)

	// Stable across calls
	assert.Equal(t, token, s.EnsureCSRFToken())
}

func TestEnsureCSRFTokenReplacesSentinel(t *testing.T) {
	s := New("sid-1")
	s.CSRFToken = CSRFTokenSentinel

	token := s.EnsureCSRFToken()
	assert.NotEqual(t, CSRFTokenSentinel, token)
	assert.NotEmpty(t, token)
}

func TestValidateCSRF(t *testing.T) {
	s := New("sid-1")
	token := s.EnsureCSRFToken()

	tests := []struct {
		name      string
		stored    string
		submitted string
		want      bool
	}{
		{
			name:      "Matching token",
			stored:    token,
			submitted: token,
			want:      true,
		},
		{
			name:      "Wrong token",
			stored:    token,
			submitted: "deadbeef",
			want:      false,
		},
		{
			name:      "Empty submitted",
			stored:    token,
			submitted: "",
			want:      false,
		},
		{
			name:      "Sentinel never validates",
			stored:    CSRFTokenSentinel,
			submitted: CSRFTokenSentinel,
			want:      false,
		},
		{
			name:      "No stored token",
			stored:    "",
			submitted: token,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.CSRFToken = tt.stored
			assert.Equal(t, tt.want, s.ValidateCSRF(tt.submitted))
		})
	}
}

func TestFlashPopSemantics(t *testing.T) {
	s := New("sid-1")

	_, ok := s.PopFlash("login_message")
	assert.False(t, ok)

	s.SetFlash("login_message", "You have been logged out")

	msg, ok := s.PopFlash("login_message")
	assert.True(t, ok)
	assert.Equal(t, "You have been logged out", msg)

	// Consumed on first read
	_, ok = s.PopFlash("login_message")
	assert.False(t, ok)
}

func TestLoginRotatesCSRFToken(t *testing.T) {
	s := New("sid-1")
	before := s.EnsureCSRFToken()

	s.Login(7, "alice", "alice@example.com", false)

	assert.True(t, s.LoggedIn)
	assert.Equal(t, uint(7), s.UserID)
	assert.NotEqual(t, before, s.CSRFToken)
	assert.NotEmpty(t, s.CSRFToken)
}

func TestLogoutClearsState(t *testing.T) {
	s := New("sid-1")
	s.Login(7, "alice", "alice@example.com", true)
	s.SetFlash("profile_message", "Saved")

	s.Logout()

	assert.False(t, s.LoggedIn)
	assert.Zero(t, s.UserID)
	assert.Empty(t, s.Username)
	assert.Empty(t, s.CSRFToken)
	assert.Nil(t, s.Flash)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := New("sid-1")
	s.Login(3, "bob", "bob@example.com", false)
	s.SetFlash("register_message", "Welcome")

	err := store.Save(ctx, s, time.Minute)
	assert.NoError(t, err)

	loaded, err := store.Get(ctx, "sid-1")
	assert.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Equal(t, uint(3), loaded.UserID)
	assert.Equal(t, "bob", loaded.Username)

	msg, ok := loaded.PopFlash("register_message")
	assert.True(t, ok)
	assert.Equal(t, "Welcome", msg)

	// Popping a copy does not touch the stored session
	again, err := store.Get(ctx, "sid-1")
	assert.NoError(t, err)
	_, ok = again.PopFlash("register_message")
	assert.True(t, ok)
}

func TestMemoryStoreMissAndDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	loaded, err := store.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	s := New("sid-2")
	assert.NoError(t, store.Save(ctx, s, time.Minute))
	assert.NoError(t, store.Delete(ctx, "sid-2"))

	loaded, err = store.Get(ctx, "sid-2")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := New("sid-3")
	assert.NoError(t, store.Save(ctx, s, -time.Second))

	loaded, err := store.Get(ctx, "sid-3")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}
