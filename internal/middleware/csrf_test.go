package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfTestHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCSRFAllowsSafeMethodsAndSetsCookie(t *testing.T) {
	protected := CSRFProtection(false)(csrfTestHandler())

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clients", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(t, rec, csrfCookieName)
	assert.NotEmpty(t, cookie.Value)
	assert.False(t, cookie.HttpOnly)
}

func TestCSRFRejectsMutationWithoutHeader(t *testing.T) {
	protected := CSRFProtection(false)(csrfTestHandler())

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/clients", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFAcceptsEchoedToken(t *testing.T) {
	protected := CSRFProtection(false)(csrfTestHandler())

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clients", nil))
	token := findCookie(t, rec, csrfCookieName)

	req := httptest.NewRequest(http.MethodPost, "/api/clients", nil)
	req.AddCookie(token)
	req.Header.Set(csrfHeader, token.Value)

	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	require.FailNow(t, "cookie not set", name)
	return nil
}
