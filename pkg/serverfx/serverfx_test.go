package serverfx

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/joeydtaylor/steeze-host/pkg/client"
	"github.com/joeydtaylor/steeze-host/pkg/manifest"
	"github.com/joeydtaylor/steeze-host/pkg/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

const hostManifest = `
[server]
prefix = "http://127.0.0.1:5678"
heartbeat_path = "/_host/ping"

[[endpoint]]
name = "root"
path = "/"
kind = "discovery"

[[endpoint]]
name = "echo"
type = "Echo"
path = "/echo"
kind = "inproc"
  [endpoint.inproc]
  post = "echo"
`

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "host.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func echo(c *service.Context) *service.Response {
	body, err := c.ReadBody()
	if err != nil {
		return service.InternalErrorFrom(c, "echo", err)
	}
	return service.SuccessResponse(c, "echo", http.StatusOK, body)
}

func TestModuleStartsServesAndStops(t *testing.T) {
	t.Setenv("TEST_HOST_MANIFEST", writeManifest(t, hostManifest))
	t.Setenv("TEST_SERVER_PREFIX", "http://127.0.0.1:0")

	var host *service.Host
	app := fxtest.New(t,
		Module(Options{
			Service:     "test",
			ManifestEnv: "TEST_HOST_MANIFEST",
			PrefixEnv:   "TEST_SERVER_PREFIX",
			Funcs:       manifest.Funcs{"echo": echo},
			Logger:      zap.NewNop(),
		}),
		fx.Populate(&host),
	)
	app.RequireStart()

	addr := host.Addr()
	require.NotEmpty(t, addr)
	assert.Equal(t, "http://127.0.0.1:0", host.ServerPrefix())

	c, err := client.New(addr, "")
	require.NoError(t, err)
	res, err := c.Post(context.Background(), "/echo", `{"hello":"world"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"hello":"world"}`, res.Body)

	items, err := c.Discover(context.Background(), "/")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Echo", items[1].Type)

	resp, err := http.Get("http://" + addr + "/_host/ping")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	app.RequireStop()
	assert.Empty(t, host.Addr())
}

func TestModuleFailsOnMissingFunc(t *testing.T) {
	t.Setenv("TEST_HOST_MANIFEST", writeManifest(t, hostManifest))

	app := fx.New(
		Module(Options{ManifestEnv: "TEST_HOST_MANIFEST", Logger: zap.NewNop()}),
		fx.Invoke(func(*service.Host) {}),
	)
	require.Error(t, app.Err())
	assert.Contains(t, app.Err().Error(), `no function registered as "echo"`)
}

func TestModuleFailsOnMissingManifest(t *testing.T) {
	t.Setenv("TEST_HOST_MANIFEST", filepath.Join(t.TempDir(), "absent.toml"))
	app := fx.New(
		Module(Options{ManifestEnv: "TEST_HOST_MANIFEST", Logger: zap.NewNop()}),
		fx.Invoke(func(*service.Host) {}),
	)
	require.Error(t, app.Err())
}
