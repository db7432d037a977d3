package manifest

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Validate reports every problem in the manifest, not just the first.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := c.Server.validate(); err != nil {
		result = multierror.Append(result, err)
	}

	names := map[string]int{}
	paths := map[string]int{}
	for i := range c.Endpoints {
		ep := &c.Endpoints[i]
		if err := ep.validate(i); err != nil {
			result = multierror.Append(result, err)
		}
		if ep.Name != "" {
			if j, dup := names[ep.Name]; dup {
				result = multierror.Append(result, fmt.Errorf("endpoint %d: name %q already used by endpoint %d", i, ep.Name, j))
			} else {
				names[ep.Name] = i
			}
		}
		if ep.Path != "" {
			k := strings.ToLower(ep.Path)
			if j, dup := paths[k]; dup {
				result = multierror.Append(result, fmt.Errorf("endpoint %d: path %q already used by endpoint %d", i, ep.Path, j))
			} else {
				paths[k] = i
			}
		}
	}
	return result.ErrorOrNil()
}

func (s *Server) validate() error {
	var result *multierror.Error
	if p := strings.ToLower(s.Prefix); !strings.HasPrefix(p, "http://") {
		result = multierror.Append(result, fmt.Errorf("server: prefix %q must start with http://", s.Prefix))
	}
	for _, p := range []struct {
		key, val string
	}{{"metrics_path", s.MetricsPath}, {"heartbeat_path", s.HeartbeatPath}} {
		if p.val != "" && !strings.HasPrefix(p.val, "/") {
			result = multierror.Append(result, fmt.Errorf("server: %s %q must start with /", p.key, p.val))
		}
	}
	if s.MetricsPath != "" && s.MetricsPath == s.HeartbeatPath {
		result = multierror.Append(result, fmt.Errorf("server: metrics_path and heartbeat_path must differ"))
	}
	if s.ReadTimeoutMS < 0 || s.WriteTimeoutMS < 0 || s.IdleTimeoutMS < 0 {
		result = multierror.Append(result, fmt.Errorf("server: timeouts must be >= 0"))
	}
	return result.ErrorOrNil()
}

func (e *Endpoint) validate(i int) error {
	var result *multierror.Error
	fail := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf("endpoint %d: "+format, append([]any{i}, args...)...))
	}

	if strings.TrimSpace(e.Name) == "" {
		fail("name required")
	}
	if !strings.HasPrefix(e.Path, "/") {
		fail("path %q must start with /", e.Path)
	}
	for _, pair := range strings.Split(e.Credentials, ",") {
		if pair = strings.TrimSpace(pair); pair != "" && !strings.Contains(pair, ":") {
			fail("credential %q must be user:password", pair)
		}
	}

	switch e.Kind {
	case KindDiscovery:
		if e.Static != nil || e.Inproc != nil {
			fail("discovery takes no static or inproc block")
		}
	case KindStatic:
		if e.Static == nil {
			fail("static block required for kind=static")
		} else if e.Static.Status != 0 && (e.Static.Status < 100 || e.Static.Status > 599) {
			fail("static status %d out of range", e.Static.Status)
		}
	case KindInproc:
		if e.Inproc == nil {
			fail("inproc block required for kind=inproc")
			break
		}
		empty := true
		for _, n := range e.Inproc.names() {
			if n != "" {
				empty = false
			}
		}
		if empty {
			fail("inproc needs at least one of get, post, put, delete")
		}
	case "":
		fail("kind required")
	default:
		fail("unknown kind %q", e.Kind)
	}
	return result.ErrorOrNil()
}
