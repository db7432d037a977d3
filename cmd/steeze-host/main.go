package main

import (
	"net/http"
	"time"

	"github.com/joeydtaylor/steeze-host/pkg/codec"
	"github.com/joeydtaylor/steeze-host/pkg/manifest"
	"github.com/joeydtaylor/steeze-host/pkg/serverfx"
	"github.com/joeydtaylor/steeze-host/pkg/service"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		serverfx.Module(serverfx.Options{
			Service: "steeze-host",
			Funcs:   builtins(),
		}),
	).Run()
}

// builtins are the functions a manifest can name in [endpoint.inproc].
func builtins() manifest.Funcs {
	return manifest.Funcs{
		"echo":  echo,
		"clock": clock,
		"path":  pathInfo,
	}
}

func echo(c *service.Context) *service.Response {
	body, err := c.ReadBody()
	if err != nil {
		return service.InternalErrorFrom(c, "echo", err)
	}
	return service.SuccessResponse(c, "echo", http.StatusOK, body)
}

func clock(c *service.Context) *service.Response {
	return service.JSONResponse(c, "clock", map[string]string{
		"utc": time.Now().UTC().Format(time.RFC3339),
	})
}

// pathInfo reports how the request path was split by the resolver.
func pathInfo(c *service.Context) *service.Response {
	b, err := codec.JSONStrict.Marshal(struct {
		Matched   string   `json:"matched"`
		Unmatched []string `json:"unmatched"`
	}{c.MatchedPath, c.UnmatchedSegments})
	if err != nil {
		return service.InternalErrorFrom(c, "path", err)
	}
	return service.SuccessResponse(c, "path", http.StatusOK, string(b))
}
