// Package client calls services exposed by a steeze host.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joeydtaylor/steeze-host/pkg/codec"
	"github.com/joeydtaylor/steeze-host/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-host/pkg/service"
	"go.uber.org/zap"
)

// HTTPDoer is satisfied by *http.Client and allows easy mocking in tests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

const (
	DefaultPort    = 80
	DefaultTimeout = 10 * time.Second
)

// Result is a completed exchange, whatever its status.
type Result struct {
	StatusCode int
	Body       string
	Elapsed    time.Duration
}

// StatusError is returned alongside a Result whose status is 300 or above.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Stats counts non-success statuses and transport failures since New.
type Stats struct {
	StatusErrors int64
	Failures     int64
}

type Option func(*Client)

func WithHTTPClient(d HTTPDoer) Option   { return func(c *Client) { c.http = d } }
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }
func WithLogger(l *zap.Logger) Option    { return func(c *Client) { c.log = l } }
func WithKeepAlive(on bool) Option       { return func(c *Client) { c.keepAlive = on } }
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Set(key, value) }
}

type Client struct {
	base      string
	authz     string
	http      HTTPDoer
	timeout   time.Duration
	keepAlive bool
	headers   http.Header
	log       *zap.Logger

	statusErrors atomic.Int64
	failures     atomic.Int64
}

// New targets serverAndPort ("host" or "host:port", port 80 by default).
// userAndPassword ("user:password") enables Basic authentication; a missing
// password is sent as empty.
func New(serverAndPort, userAndPassword string, opts ...Option) (*Client, error) {
	host, port, err := splitServer(serverAndPort)
	if err != nil {
		return nil, err
	}
	c := &Client{
		base:    "http://" + net.JoinHostPort(host, strconv.Itoa(port)),
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
		headers: http.Header{},
		log:     zap.NewNop(),
	}
	if userAndPassword != "" {
		user, pass, _ := strings.Cut(userAndPassword, ":")
		c.authz = auth.Header(user + ":" + pass)
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func splitServer(s string) (string, int, error) {
	if s == "" {
		return "", 0, errors.New("client: server required")
	}
	host, p, err := net.SplitHostPort(s)
	if err != nil {
		// no port: a bare name, IPv4 or IPv6 literal
		host = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
		if strings.Contains(s, ":") && !strings.HasPrefix(s, "[") && net.ParseIP(host) == nil {
			return "", 0, fmt.Errorf("client: invalid server %q", s)
		}
		return host, DefaultPort, nil
	}
	port, err := strconv.Atoi(p)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("client: invalid port in %q", s)
	}
	return host, port, nil
}

// BaseURL is "http://host:port".
func (c *Client) BaseURL() string { return c.base }

func (c *Client) Stats() Stats {
	return Stats{StatusErrors: c.statusErrors.Load(), Failures: c.failures.Load()}
}

// URL joins path onto the base URL.
func (c *Client) URL(path string) string {
	return c.base + "/" + strings.TrimPrefix(path, "/")
}

// Get requests path. A status of 300 or above yields both the Result and a
// *StatusError.
func (c *Client) Get(ctx context.Context, path string) (Result, error) {
	return c.do(ctx, http.MethodGet, path, "")
}

// Post sends json to path.
func (c *Client) Post(ctx context.Context, path, json string) (Result, error) {
	return c.do(ctx, http.MethodPost, path, json)
}

func (c *Client) Put(ctx context.Context, path, json string) (Result, error) {
	return c.do(ctx, http.MethodPut, path, json)
}

func (c *Client) Delete(ctx context.Context, path string) (Result, error) {
	return c.do(ctx, http.MethodDelete, path, "")
}

// Discover reads the descriptor list served by a discovery endpoint at path.
func (c *Client) Discover(ctx context.Context, path string) ([]service.Descriptor, error) {
	res, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	var out []service.Descriptor
	if err := codec.JSONIndented.Unmarshal([]byte(res.Body), &out); err != nil {
		return nil, fmt.Errorf("decode discovery: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path, body string) (Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	url := c.URL(path)
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header[k] = append([]string(nil), v...)
	}
	if c.authz != "" {
		req.Header.Set("Authorization", c.authz)
	}
	req.Close = !c.keepAlive

	c.log.Debug("request", zap.String("method", method), zap.String("url", url))
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.failures.Add(1)
		return Result{}, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	res := Result{StatusCode: resp.StatusCode, Body: string(b), Elapsed: time.Since(start)}
	if err != nil {
		c.failures.Add(1)
		return res, fmt.Errorf("%s %s: read body: %w", method, url, err)
	}

	c.log.Info("response",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", res.StatusCode),
		zap.Int("contentLength", len(b)),
		zap.Duration("elapsed", res.Elapsed),
	)
	if res.StatusCode >= http.StatusMultipleChoices {
		c.statusErrors.Add(1)
		return res, &StatusError{URL: url, StatusCode: res.StatusCode, Body: res.Body}
	}
	return res, nil
}
