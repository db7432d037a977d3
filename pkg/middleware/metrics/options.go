package metrics

import (
	"net/http"
	"strings"
)

// Option configures one Collect middleware instance.
type Option func(*collectConfig)

type collectConfig struct {
	skip      map[string]struct{}
	normalize func(*http.Request) string
}

// WithSkipPaths excludes exact request paths (e.g. the scrape route) from collection.
func WithSkipPaths(paths ...string) Option {
	return func(c *collectConfig) {
		for _, p := range paths {
			if p = strings.TrimSpace(p); p != "" {
				c.skip[p] = struct{}{}
			}
		}
	}
}

// WithPathNormalizer sets the uri label function (e.g., collapse IDs).
// By default it returns r.URL.Path unchanged.
func WithPathNormalizer(fn func(*http.Request) string) Option {
	return func(c *collectConfig) {
		if fn != nil {
			c.normalize = fn
		}
	}
}

func newCollectConfig(opts []Option) collectConfig {
	c := collectConfig{
		skip:      map[string]struct{}{},
		normalize: func(r *http.Request) string { return r.URL.Path },
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func (c *collectConfig) isSkipPath(r *http.Request) bool {
	_, ok := c.skip[r.URL.Path]
	return ok
}
