package service

import (
	"fmt"
	"strings"
	"sync"
)

// Registry maps paths to handlers. Keys are case-insensitive and unique;
// registering a path again replaces the prior handler in place.
// Registration normally completes before serving, reads are safe concurrently.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

func key(path string) string { return strings.ToLower(path) }

// Register upserts h under path.
func (r *Registry) Register(path string, h Handler) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("register %q: %w", path, ErrInvalidPath)
	}
	if h == nil {
		return fmt.Errorf("register %q: nil handler", path)
	}
	k := key(path)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[k]; !ok {
		r.order = append(r.order, k)
	}
	r.handlers[k] = h
	return nil
}

// RegisterEndpoint constructs an Endpoint and inserts it at path.
// credentials is an optional comma-separated list of user:password pairs.
func (r *Registry) RegisterEndpoint(name, typ, path, credentials string, m Methods) (*Endpoint, error) {
	e := NewEndpoint(name, typ, path, credentials, m)
	if err := r.Register(path, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Lookup is an exact, case-insensitive match.
func (r *Registry) Lookup(path string) (Handler, bool) {
	r.mu.RLock()
	h, ok := r.handlers[key(path)]
	r.mu.RUnlock()
	return h, ok
}

// Handlers returns a snapshot in registration order.
func (r *Registry) Handlers() []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Handler, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.handlers[k])
	}
	return out
}

// Paths returns the registered paths in registration order, as the handlers report them.
func (r *Registry) Paths() []string {
	hs := r.Handlers()
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.Path())
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}
