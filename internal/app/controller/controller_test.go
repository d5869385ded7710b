package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func performRequest(router http.Handler, method, path string, body interface{}, cookies []*http.Cookie, csrfToken string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if csrfToken != "" {
		req.Header.Set("X-CSRF-Token", csrfToken)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	return response
}

// mergeCookies keeps the latest value per cookie name so a refreshed
// session cookie replaces the original.
func mergeCookies(existing []*http.Cookie, w *httptest.ResponseRecorder) []*http.Cookie {
	byName := make(map[string]*http.Cookie)
	for _, cookie := range existing {
		byName[cookie.Name] = cookie
	}
	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(byName, cookie.Name)
			continue
		}
		byName[cookie.Name] = cookie
	}
	merged := make([]*http.Cookie, 0, len(byName))
	for _, cookie := range byName {
		merged = append(merged, cookie)
	}
	return merged
}

// fetchCSRF grabs a CSRF token (and session cookie) from the csrf endpoint.
func fetchCSRF(t *testing.T, router http.Handler, cookies []*http.Cookie) (string, []*http.Cookie) {
	t.Helper()
	w := performRequest(router, "GET", "/api/v1/auth/csrf", nil, cookies, "")
	require.Equal(t, http.StatusOK, w.Code)

	response := decodeBody(t, w)
	token, ok := response["csrf_token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	return token, mergeCookies(cookies, w)
}
