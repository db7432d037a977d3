package service

import (
	"net/http"
	"strings"

	"github.com/joeydtaylor/steeze-host/pkg/middleware/auth"
)

// Handler is a unit of logic bound to one registered path.
type Handler interface {
	Name() string
	Type() string
	Path() string
	ProcessRequest(c *Context) *Response
}

// VerbFunc serves one HTTP verb for an Endpoint.
type VerbFunc func(c *Context) *Response

// Methods is the verb table of an Endpoint. A nil entry falls back to the
// default: 400 for GET, POST and DELETE, and the POST entry for PUT.
type Methods struct {
	Get    VerbFunc
	Post   VerbFunc
	Put    VerbFunc
	Delete VerbFunc
}

// Endpoint is the generic path-bound handler.
type Endpoint struct {
	name    string
	typ     string
	path    string
	creds   auth.Credentials
	methods Methods
}

// NewEndpoint builds an Endpoint. credentials is a comma-separated list of
// user:password pairs; empty disables authentication.
func NewEndpoint(name, typ, path, credentials string, m Methods) *Endpoint {
	return &Endpoint{
		name:    name,
		typ:     typ,
		path:    path,
		creds:   auth.ParseCredentials(credentials),
		methods: m,
	}
}

func (e *Endpoint) Name() string { return e.name }
func (e *Endpoint) Type() string { return e.typ }
func (e *Endpoint) Path() string { return e.path }

// Authorized reports whether r may reach this endpoint.
func (e *Endpoint) Authorized(r *http.Request) bool { return e.creds.AuthorizedRequest(r) }

// ProcessRequest checks credentials, then dispatches by verb.
func (e *Endpoint) ProcessRequest(c *Context) *Response {
	if !e.Authorized(c.Request) {
		return ErrorResponse(c, e.name, http.StatusUnauthorized, "NotAuthorized")
	}

	switch strings.ToUpper(c.Request.Method) {
	case http.MethodGet:
		return e.processGet(c)
	case http.MethodPost:
		return e.processPost(c)
	case http.MethodPut:
		return e.processPut(c)
	case http.MethodDelete:
		return e.processDelete(c)
	default:
		return BadRequest(c, e.name, "MethodNotSupported: "+c.Request.Method)
	}
}

func (e *Endpoint) processGet(c *Context) *Response {
	if e.methods.Get != nil {
		return e.methods.Get(c)
	}
	return BadRequest(c, e.name, "GetMethodNotSupported")
}

func (e *Endpoint) processPost(c *Context) *Response {
	if e.methods.Post != nil {
		return e.methods.Post(c)
	}
	return BadRequest(c, e.name, "Post/PutMethodNotSupported")
}

func (e *Endpoint) processPut(c *Context) *Response {
	if e.methods.Put != nil {
		return e.methods.Put(c)
	}
	return e.processPost(c)
}

func (e *Endpoint) processDelete(c *Context) *Response {
	if e.methods.Delete != nil {
		return e.methods.Delete(c)
	}
	return BadRequest(c, e.name, "DeleteMethodNotSupported")
}
