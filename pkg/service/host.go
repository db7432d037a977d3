package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-host/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-host/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-host/pkg/transport/httpx"
	"go.uber.org/zap"
)

// ---------- Options ----------

type hostConfig struct {
	log           *zap.Logger
	keepAlive     bool
	metricsPath   string
	metricsCreds  auth.Credentials
	metricsScrape http.Handler
	heartbeat     string
	readTimeout   time.Duration
	writeTimeout  time.Duration
	idleTimeout   time.Duration
}

type HostOption func(*hostConfig)

func WithLogger(l *zap.Logger) HostOption { return func(c *hostConfig) { c.log = l } }
func WithKeepAlive(on bool) HostOption    { return func(c *hostConfig) { c.keepAlive = on } }
func WithHeartbeat(path string) HostOption {
	return func(c *hostConfig) { c.heartbeat = path }
}

// WithMetricsPath exposes the prometheus scrape handler at path, guarded by
// the comma-separated credentials when non-empty.
func WithMetricsPath(path, credentials string) HostOption {
	return func(c *hostConfig) {
		c.metricsPath = path
		c.metricsCreds = auth.ParseCredentials(credentials)
	}
}

// WithMetricsHandler replaces the default prometheus scrape handler.
func WithMetricsHandler(scrape http.Handler) HostOption {
	return func(c *hostConfig) { c.metricsScrape = scrape }
}

func WithTimeouts(read, write, idle time.Duration) HostOption {
	return func(c *hostConfig) { c.readTimeout, c.writeTimeout, c.idleTimeout = read, write, idle }
}

func defaultHostConfig() hostConfig {
	return hostConfig{
		log:          zap.NewNop(),
		readTimeout:  15 * time.Second,
		writeTimeout: 30 * time.Second,
		idleTimeout:  60 * time.Second,
	}
}

// ---------- Host ----------

// Host owns the listener and runs one resolve, dispatch, write and log cycle
// per request. Each request is served on its own goroutine.
type Host struct {
	prefix string
	reg    *Registry
	cfg    hostConfig

	mu       sync.Mutex
	prefixes []string
	chain    http.Handler
	srv      *http.Server
	ln       net.Listener
}

// NewHost creates a host for serverPrefix (e.g. "http://*:5678").
func NewHost(serverPrefix string, reg *Registry, opts ...HostOption) *Host {
	cfg := defaultHostConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.log == nil {
		cfg.log = zap.NewNop()
	}
	return &Host{prefix: serverPrefix, reg: reg, cfg: cfg}
}

func (h *Host) ServerPrefix() string { return h.prefix }

func (h *Host) Registry() *Registry { return h.reg }

// Prefixes lists server prefix + path for every handler known at Init.
func (h *Host) Prefixes() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.prefixes...)
}

// Init snapshots the registered paths and builds the handler chain.
// Registration must be complete before it is called.
func (h *Host) Init() *Host {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.initLocked()
	return h
}

func (h *Host) initLocked() {
	h.prefixes = h.prefixes[:0]
	for _, p := range h.reg.Paths() {
		h.prefixes = append(h.prefixes, h.prefix+p)
	}
	h.chain = h.buildChain()
	h.cfg.log.Info("service host initialized",
		zap.String("root", h.prefix),
		zap.Int("handlers", len(h.prefixes)),
		zap.String("listening", strings.Join(h.prefixes, ",")),
	)
}

func (h *Host) buildChain() http.Handler {
	r := httpx.NewChi()
	collect := []metrics.Option{metrics.WithPathNormalizer(h.metricsLabel)}
	if h.cfg.metricsPath != "" {
		collect = append(collect, metrics.WithSkipPaths(h.cfg.metricsPath))
	}
	r.Use(chimd.RequestID, chimd.Recoverer, metrics.Collect(collect...))
	if h.cfg.heartbeat != "" {
		r.Use(chimd.Heartbeat(h.cfg.heartbeat))
	}
	if h.cfg.metricsPath != "" {
		scrape := h.cfg.metricsScrape
		if scrape == nil {
			scrape = metrics.NewPromHttpHandler()
		}
		guarded := h.cfg.metricsCreds.Middleware()(scrape)
		r.Handle(http.MethodGet, h.cfg.metricsPath, guarded)
		r.Handle(http.MethodHead, h.cfg.metricsPath, guarded)
	}
	r.Fallback(h)
	return r.Mux()
}

// metricsLabel collapses request paths to their matched handler path.
func (h *Host) metricsLabel(r *http.Request) string {
	m, err := h.reg.Resolve(r.URL.Path)
	if err != nil {
		return "unresolved"
	}
	return m.Handler.Path()
}

// Handler returns the full chain (request id, metrics, heartbeat, host).
// It calls Init when that has not happened yet.
func (h *Host) Handler() http.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.chain == nil {
		h.initLocked()
	}
	return h.chain
}

// Start binds the listener and serves in the background.
func (h *Host) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.srv != nil {
		return errors.New("service host already started")
	}
	if h.chain == nil {
		h.initLocked()
	}
	addr, err := ListenAddress(h.prefix)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:      h.chain,
		ReadTimeout:  h.cfg.readTimeout,
		WriteTimeout: h.cfg.writeTimeout,
		IdleTimeout:  h.cfg.idleTimeout,
		ErrorLog:     zap.NewStdLog(h.cfg.log),
	}
	h.srv, h.ln = srv, ln

	h.cfg.log.Info("service host starting", zap.String("addr", ln.Addr().String()))
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.cfg.log.Error("service host failed", zap.Error(err))
		}
	}()
	return nil
}

// Addr is the bound listener address, or "" when not started.
func (h *Host) Addr() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ln == nil {
		return ""
	}
	return h.ln.Addr().String()
}

// Stop shuts the listener down. It is a no-op when the host is not running.
func (h *Host) Stop(ctx context.Context) error {
	h.mu.Lock()
	srv := h.srv
	h.srv, h.ln = nil, nil
	h.mu.Unlock()

	h.cfg.log.Info("service host stopping")
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// ListenAddress derives host:port from a server prefix such as
// "http://*:5678" or "http://localhost". "*" and "+" bind all interfaces.
func ListenAddress(prefix string) (string, error) {
	rest := prefix
	scheme := "http"
	if i := strings.Index(rest, "://"); i >= 0 {
		scheme = strings.ToLower(rest[:i])
		rest = rest[i+3:]
	}
	if scheme != "http" {
		return "", fmt.Errorf("server prefix %q: scheme %q not served; terminate TLS in front of the host", prefix, scheme)
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "", fmt.Errorf("server prefix %q: missing host", prefix)
	}
	host, port, err := net.SplitHostPort(rest)
	if err != nil {
		host, port = rest, "80"
	}
	if host == "*" || host == "+" {
		host = ""
	}
	return net.JoinHostPort(host, port), nil
}

// ---------- request cycle ----------

// ServeHTTP resolves, dispatches, writes and logs one request.
func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	m, err := h.reg.Resolve(r.URL.Path)
	c := NewContext(r, m)
	var resp *Response
	if err != nil {
		metrics.ObserveUnresolved()
		resp = BadRequest(c, "", err.Error())
	} else {
		resp = h.dispatch(c, m.Handler)
	}

	handlerName := ""
	if m.Handler != nil {
		handlerName = m.Handler.Name()
	}
	resp, body := h.serialize(c, resp, handlerName)
	if err := commit(w, c.Response, body); err != nil {
		h.cfg.log.Warn("response write failed", zap.String("handler", handlerName), zap.Error(err))
	}
	if handlerName != "" {
		metrics.ObserveHandler(handlerName, c.Response.StatusCode)
	}
	h.logOutcome(r, c, resp, time.Since(start))
}

// dispatch is the boundary that keeps a panicking handler from reaching the
// accept loop.
func (h *Host) dispatch(c *Context, hd Handler) (resp *Response) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.ObservePanic(hd.Name())
			c.Response = NewRawResponse()
			resp = InternalError(c, hd.Name(), fmt.Sprintf("panic: %v\n%s", rec, debug.Stack()))
		}
	}()
	return hd.ProcessRequest(c)
}

// serialize fixes the final body and head. Nothing has been sent yet, so a
// failure here still produces a consistent 500.
func (h *Host) serialize(c *Context, resp *Response, handlerName string) (*Response, []byte) {
	if resp == nil {
		c.Response = NewRawResponse()
		resp = InternalError(c, handlerName, "handler returned no response")
	}
	if !utf8.ValidString(resp.Content) {
		c.Response = NewRawResponse()
		resp = InternalError(c, handlerName, "response content is not valid UTF-8")
	}
	body := []byte(resp.Content)
	raw := c.Response
	raw.ContentLength = int64(len(body))
	raw.KeepAlive = h.cfg.keepAlive
	if raw.ContentType() == "" {
		raw.SetContentType(contentTypeJSON)
	}
	if raw.StatusCode == 0 {
		raw.SetStatus(http.StatusOK)
	}
	return resp, body
}

func commit(w http.ResponseWriter, raw *RawResponse, body []byte) error {
	hdr := w.Header()
	for k, v := range raw.Header() {
		hdr[k] = append([]string(nil), v...)
	}
	if !raw.KeepAlive {
		hdr.Set("Connection", "close")
	}
	if !bodyAllowed(raw.StatusCode) {
		hdr.Del("Content-Length")
		w.WriteHeader(raw.StatusCode)
		return nil
	}
	hdr.Set("Content-Length", strconv.FormatInt(raw.ContentLength, 10))
	w.WriteHeader(raw.StatusCode)
	_, err := w.Write(body)
	return err
}

func bodyAllowed(code int) bool {
	switch {
	case code >= 100 && code <= 199:
		return false
	case code == http.StatusNoContent, code == http.StatusNotModified:
		return false
	}
	return true
}

func (h *Host) logOutcome(r *http.Request, c *Context, resp *Response, lat time.Duration) {
	fields := []zap.Field{
		zap.String("requestId", chimd.GetReqID(r.Context())),
		zap.String("httpMethod", r.Method),
		zap.String("url", RootURL(r)+r.URL.RequestURI()),
		zap.Int("status", c.Response.StatusCode),
		zap.String("statusDescription", c.Response.StatusDescription),
		zap.String("handler", resp.HandlerName),
		zap.String("matchedPath", c.MatchedPath),
		zap.Strings("unmatchedSegments", c.UnmatchedSegments),
		zap.String("username", auth.RequestUser(r)),
		zap.String("remoteAddr", r.RemoteAddr),
		zap.Duration("lat", lat),
		zap.String("content", resp.Content),
		zap.String("error", resp.ErrorMessage),
	}
	if c.Response.StatusCode >= http.StatusInternalServerError {
		h.cfg.log.Error("request", fields...)
		return
	}
	h.cfg.log.Info("request", fields...)
}
