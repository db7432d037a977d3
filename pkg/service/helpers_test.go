package service

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func newTestContext(method, target string) *Context {
	return &Context{
		MatchedPath: target,
		Request:     httptest.NewRequest(method, target, nil),
		Response:    NewRawResponse(),
	}
}

func staticGet(name, content string) Methods {
	return Methods{Get: func(c *Context) *Response {
		return SuccessResponse(c, name, http.StatusOK, content)
	}}
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	if err != nil {
		t.Fatalf("atoi %q: %v", s, err)
	}
	return n
}
