package middleware

import (
	"net/http"

	"github.com/gemcompare/gemcompare-backend/internal/errors"
	"github.com/gin-gonic/gin"
)

// CSRFHeader carries the token for JSON clients. Form posts send it in
// the csrf_token field instead.
const CSRFHeader = "X-CSRF-Token"

const CSRFFormField = "csrf_token"

type CSRFMiddleware struct{}

func NewCSRFMiddleware() *CSRFMiddleware {
	return &CSRFMiddleware{}
}

// RequireCSRF validates the submitted CSRF token against the session.
// A session whose stored token is the generation-failure sentinel always
// fails validation.
func (m *CSRFMiddleware) RequireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		s, ok := GetSession(c)
		if !ok {
			errors.RespondWithError(c, http.StatusForbidden,
				errors.AuthCsrfInvalid, "Request could not be verified. Please reload and try again")
			c.Abort()
			return
		}

		submitted := c.GetHeader(CSRFHeader)
		if submitted == "" {
			submitted = c.PostForm(CSRFFormField)
		}

		if !s.ValidateCSRF(submitted) {
			log.Warn("CSRF validation failed", map[string]interface{}{
				"path":      c.Request.URL.Path,
				"has_token": submitted != "",
			})
			errors.RespondWithError(c, http.StatusForbidden,
				errors.AuthCsrfInvalid, "Request could not be verified. Please reload and try again")
			c.Abort()
			return
		}

		c.Next()
	}
}
