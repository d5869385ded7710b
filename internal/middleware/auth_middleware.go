package middleware

import (
	"net/http"

	"github.com/gemcompare/gemcompare-backend/internal/errors"
	"github.com/gin-gonic/gin"
)

// Context keys for user information
const (
	UserIDKey    = "user_id"
	UsernameKey  = "username"
	UserEmailKey = "user_email"
)

// Flash keys consumed by the login page
const (
	FlashLoginMessage = "login_message"
	FlashRedirectURL  = "redirect_url"
)

type AuthMiddleware struct{}

func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{}
}

// RequireAuth rejects requests without a logged-in session. The original
// URL is stashed in a flash entry so the login flow can redirect back.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		// A session is only trusted when the flag and a real user ID agree
		s, ok := GetSession(c)
		if !ok || !s.LoggedIn || s.UserID == 0 {
			log.Warn("Unauthenticated request to protected route", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			if s != nil {
				s.SetFlash(FlashLoginMessage, "Please log in to continue")
				s.SetFlash(FlashRedirectURL, c.Request.URL.RequestURI())
			}
			errors.RespondWithError(c, http.StatusUnauthorized,
				errors.AuthUnauthorized, "Please log in to continue")
			c.Abort()
			return
		}

		log.Debug("User authenticated", map[string]interface{}{
			"user_id":  s.UserID,
			"username": s.Username,
		})

		c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUsername extracts username from context
func GetUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(UsernameKey)
	if !exists {
		return "", false
	}
	return username.(string), true
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	return email.(string), true
}
