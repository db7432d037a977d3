package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCredential(t *testing.T) {
	assert.Equal(t, "", EncodeCredential(""))
	assert.Equal(t, "dTpw", EncodeCredential("u:p"))
	// é is 0xE9 in Latin-1, not the two UTF-8 bytes.
	assert.Equal(t, "6Tpw", EncodeCredential("é:p"))
	assert.Equal(t, "Basic dTpw", Header("u:p"))
}

func TestParseCredentials(t *testing.T) {
	c := ParseCredentials(" alice:one , bob:two,,")
	require.Equal(t, 2, c.Len())
	assert.True(t, c.Authorized(Header("alice:one")))
	assert.True(t, c.Authorized(Header("bob:two")))
	assert.False(t, c.Authorized(Header("bob:one")))
	assert.False(t, c.Authorized(""))

	assert.True(t, ParseCredentials("").Empty())
	assert.True(t, ParseCredentials("").Authorized("anything"))
}

func TestMiddleware(t *testing.T) {
	var seen User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUser(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := ParseCredentials("admin:secret").Middleware()(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scrape", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"response":"NotAuthorized"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/scrape", nil)
	req.Header.Set("Authorization", Header("admin:secret"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "admin", seen.Username)
}

func TestMiddlewareWithoutCredentials(t *testing.T) {
	h := Credentials{}.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.False(t, IsAuthenticated(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", RequestUser(req))
	req.Header.Set("Authorization", Header("carol:pw"))
	assert.Equal(t, "carol", RequestUser(req))
	req.Header.Set("Authorization", "Basic !!!")
	assert.Equal(t, "", RequestUser(req))
}
