package service

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Context carries one request through dispatch.
type Context struct {
	MatchedPath       string
	UnmatchedSegments []string
	Request           *http.Request
	Response          *RawResponse
}

// NewContext prepares a context for r with an empty buffered response.
func NewContext(r *http.Request, m Match) *Context {
	return &Context{
		MatchedPath:       m.Path,
		UnmatchedSegments: m.Unmatched,
		Request:           r,
		Response:          NewRawResponse(),
	}
}

// ReadBody returns the request body as text.
func (c *Context) ReadBody() (string, error) {
	if c.Request == nil || c.Request.Body == nil {
		return "", nil
	}
	b, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(b), nil
}

// ReadDecodedBody returns the request body form-decoded: "+" becomes a space
// and %XX escapes become bytes. Malformed escapes such as "100%" are kept
// as written.
func (c *Context) ReadDecodedBody() (string, error) {
	raw, err := c.ReadBody()
	if err != nil {
		return "", err
	}
	return decodeLenient(raw), nil
}

func decodeLenient(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch == '+':
			b.WriteByte(' ')
		case ch == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	}
	return c - '0'
}

// RawResponse buffers the status line and headers a handler chooses. Nothing
// reaches the client until the Host commits it with the serialized body.
type RawResponse struct {
	StatusCode        int
	StatusDescription string
	ContentLength     int64
	KeepAlive         bool
	header            http.Header
}

func NewRawResponse() *RawResponse {
	r := &RawResponse{header: make(http.Header)}
	r.SetStatus(http.StatusOK)
	return r
}

func (r *RawResponse) Header() http.Header { return r.header }

func (r *RawResponse) ContentType() string { return r.header.Get("Content-Type") }

func (r *RawResponse) SetContentType(ct string) { r.header.Set("Content-Type", ct) }

// SetStatus records code and its standard description.
func (r *RawResponse) SetStatus(code int) {
	r.StatusCode = code
	r.StatusDescription = http.StatusText(code)
}
