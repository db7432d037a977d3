package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChiRouterFallback(t *testing.T) {
	r := NewChi()
	var trail []string
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			trail = append(trail, "mw")
			next.ServeHTTP(w, req)
		})
	})
	r.Handle(http.MethodGet, "/_ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	r.Fallback(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		trail = append(trail, "fallback")
		w.WriteHeader(http.StatusAccepted)
	}))
	mux := r.Mux()

	cases := []struct {
		method, path string
		code         int
	}{
		{http.MethodGet, "/_ping", http.StatusNoContent},
		{http.MethodGet, "/", http.StatusAccepted},
		{http.MethodDelete, "/a/b/c", http.StatusAccepted},
		{http.MethodPost, "/_ping", http.StatusAccepted},
		{"PATCH", "/x", http.StatusAccepted},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		require.Equal(t, tc.code, rec.Code, "%s %s", tc.method, tc.path)
	}
	require.Contains(t, trail, "mw")
}
