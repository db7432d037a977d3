package manifest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-multierror"
	"github.com/joeydtaylor/steeze-host/pkg/service"
)

// Funcs maps the names used in [endpoint.inproc] blocks to verb functions.
type Funcs map[string]service.VerbFunc

// Build registers every manifest endpoint into reg, in declaration order.
// Unknown inproc names are collected and reported together; nothing is
// registered in that case.
func Build(cfg Config, reg *service.Registry, funcs Funcs) error {
	var result *multierror.Error
	handlers := make([]service.Handler, 0, len(cfg.Endpoints))

	for i, ep := range cfg.Endpoints {
		h, err := endpointHandler(ep, reg, funcs)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("endpoint %d (%s): %w", i, ep.Name, err))
			continue
		}
		handlers = append(handlers, h)
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}
	for _, h := range handlers {
		if err := reg.Register(h.Path(), h); err != nil {
			return err
		}
	}
	return nil
}

func endpointHandler(ep Endpoint, reg *service.Registry, funcs Funcs) (service.Handler, error) {
	typ := ep.Type
	switch ep.Kind {
	case KindDiscovery:
		d := service.NewDiscovery(ep.Name, ep.Path, ep.Credentials, reg)
		return d, nil
	case KindStatic:
		if ep.Static == nil {
			return nil, errors.New("static block required")
		}
		if typ == "" {
			typ = "Static"
		}
		return service.NewEndpoint(ep.Name, typ, ep.Path, ep.Credentials, service.Methods{
			Get: staticGet(ep.Name, *ep.Static),
		}), nil
	case KindInproc:
		if ep.Inproc == nil {
			return nil, errors.New("inproc block required")
		}
		m, err := inprocMethods(*ep.Inproc, funcs)
		if err != nil {
			return nil, err
		}
		if typ == "" {
			typ = "Inproc"
		}
		return service.NewEndpoint(ep.Name, typ, ep.Path, ep.Credentials, m), nil
	}
	return nil, fmt.Errorf("unknown kind %q", ep.Kind)
}

func staticGet(name string, s StaticSpec) service.VerbFunc {
	status := s.Status
	if status == 0 {
		status = http.StatusOK
	}
	return func(c *service.Context) *service.Response {
		resp := service.SuccessResponse(c, name, status, s.Content)
		if s.ContentType != "" {
			c.Response.SetContentType(s.ContentType)
		}
		return resp
	}
}

func inprocMethods(s InprocSpec, funcs Funcs) (service.Methods, error) {
	var result *multierror.Error
	lookup := func(verb, fn string) service.VerbFunc {
		if fn == "" {
			return nil
		}
		f, ok := funcs[fn]
		if !ok || f == nil {
			result = multierror.Append(result, fmt.Errorf("%s: no function registered as %q", verb, fn))
			return nil
		}
		return f
	}
	m := service.Methods{
		Get:    lookup("get", s.Get),
		Post:   lookup("post", s.Post),
		Put:    lookup("put", s.Put),
		Delete: lookup("delete", s.Delete),
	}
	return m, result.ErrorOrNil()
}
