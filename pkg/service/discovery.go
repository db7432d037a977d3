package service

import (
	"net"
	"net/http"
	"strings"

	"github.com/joeydtaylor/steeze-host/pkg/codec"
)

// DiscoveryType is the Type reported by the discovery handler.
const DiscoveryType = "ServiceEndpoint"

// Descriptor is the discovery projection of a registered handler.
type Descriptor struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Path   string `json:"path"`
	Parent string `json:"parent,omitempty"`
	URL    string `json:"url"`
}

// NewDiscovery returns an Endpoint that lists every handler in reg. It only
// answers GET at exactly path; register it at the service root.
func NewDiscovery(name, path, credentials string, reg *Registry) *Endpoint {
	e := NewEndpoint(name, DiscoveryType, path, credentials, Methods{})
	e.methods.Get = func(c *Context) *Response {
		reqPath := c.Request.URL.Path
		if !strings.EqualFold(e.path, reqPath) {
			return BadRequest(c, e.name, "InvalidRootPath: "+reqPath)
		}
		root := RootURL(c.Request)
		items := make([]Descriptor, 0, reg.Len())
		for _, h := range reg.Handlers() {
			items = append(items, Describe(reg, h, root))
		}
		b, err := codec.JSONIndented.Marshal(items)
		if err != nil {
			return InternalErrorFrom(c, e.name, err)
		}
		return SuccessResponse(c, e.name, http.StatusOK, string(b))
	}
	return e
}

// Describe projects h, resolving its parent as the nearest registered ancestor.
func Describe(reg *Registry, h Handler, rootURL string) Descriptor {
	d := Descriptor{
		Name: h.Name(),
		Type: h.Type(),
		Path: h.Path(),
		URL:  rootURL + h.Path(),
	}
	if p := h.Path(); p != "/" {
		if i := strings.LastIndexByte(strings.TrimSuffix(p, "/"), '/'); i >= 0 {
			parent := p[:i]
			if parent == "" {
				parent = "/"
			}
			if m, err := reg.Resolve(parent); err == nil {
				d.Parent = m.Handler.Path()
			}
		}
	}
	return d
}

// RootURL renders scheme://host:port for r, filling in the default port.
func RootURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host, port, err := net.SplitHostPort(r.Host)
	if err != nil {
		host = r.Host
		port = "80"
		if scheme == "https" {
			port = "443"
		}
	}
	return scheme + "://" + net.JoinHostPort(host, port)
}
