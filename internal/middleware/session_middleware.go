package middleware

import (
	"net/http"

	"github.com/gemcompare/gemcompare-backend/config"
	"github.com/gemcompare/gemcompare-backend/internal/errors"
	"github.com/gemcompare/gemcompare-backend/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context key for the loaded session
const SessionKey = "session"

type SessionMiddleware struct {
	store session.Store
	cfg   *config.SessionConfig
}

func NewSessionMiddleware(store session.Store, cfg *config.SessionConfig) *SessionMiddleware {
	return &SessionMiddleware{
		store: store,
		cfg:   cfg,
	}
}

// Handle loads the visitor's session from the cookie, creating a fresh
// anonymous session when none exists, and persists it after the handler
// runs. A CSRF token is guaranteed to be present before handlers execute.
func (m *SessionMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		var s *session.Session
		sessionID, err := c.Cookie(m.cfg.CookieName)
		if err == nil && sessionID != "" {
			s, err = m.store.Get(c.Request.Context(), sessionID)
			if err != nil {
				log.Error("Failed to load session", err, map[string]interface{}{
					"session_id": sessionID,
				})
				errors.RespondWithError(c, http.StatusInternalServerError,
					errors.InternalSessionError, "Session storage is unavailable. Please try again later")
				c.Abort()
				return
			}
		}

		isNew := s == nil
		if isNew {
			s = session.New(uuid.NewString())
			log.Debug("Created new session", map[string]interface{}{
				"session_id": s.ID,
			})
		}

		s.EnsureCSRFToken()
		c.Set(SessionKey, s)

		if s.LoggedIn {
			c.Set(UserIDKey, s.UserID)
			c.Set(UsernameKey, s.Username)
			c.Set(UserEmailKey, s.Email)
		}

		if isNew {
			m.writeCookie(c, s)
		}

		c.Next()

		ttl := m.cfg.TTL
		if s.RememberMe {
			ttl = m.cfg.RememberTTL
		}
		if err := m.store.Save(c.Request.Context(), s, ttl); err != nil {
			log.Error("Failed to persist session", err, map[string]interface{}{
				"session_id": s.ID,
			})
		}
	}
}

func (m *SessionMiddleware) writeCookie(c *gin.Context, s *session.Session) {
	maxAge := int(m.cfg.TTL.Seconds())
	if s.RememberMe {
		maxAge = int(m.cfg.RememberTTL.Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, s.ID, maxAge, "/", m.cfg.CookieDomain, m.cfg.Secure, true)
}

// RefreshCookie rewrites the session cookie, used after login when the
// remember-me TTL changes.
func (m *SessionMiddleware) RefreshCookie(c *gin.Context, s *session.Session) {
	m.writeCookie(c, s)
}

// ClearCookie expires the session cookie, used on logout.
func (m *SessionMiddleware) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, "", -1, "/", m.cfg.CookieDomain, m.cfg.Secure, true)
}

// GetSession extracts the session from gin context
func GetSession(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(SessionKey)
	if !exists {
		return nil, false
	}
	s, ok := value.(*session.Session)
	return s, ok
}
