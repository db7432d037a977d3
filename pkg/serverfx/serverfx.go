package serverfx

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joeydtaylor/steeze-host/pkg/manifest"
	"github.com/joeydtaylor/steeze-host/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-host/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-host/pkg/service"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Options allow per-service env keys/defaults without code duplication.
type Options struct {
	Service         string         // for logs only
	ManifestEnv     string         // e.g. "STEEZE_HOST_MANIFEST"
	DefaultManifest string         // e.g. "host.toml"
	PrefixEnv       string         // e.g. "SERVER_PREFIX"; overrides [server].prefix
	Funcs           manifest.Funcs // verb functions referenced by inproc endpoints
	Logger          *zap.Logger    // nil: logger.Module (stdout + rotating file)
}

func (o Options) withDefaults() Options {
	if o.Service == "" {
		o.Service = "steeze-host"
	}
	if o.ManifestEnv == "" {
		o.ManifestEnv = "STEEZE_HOST_MANIFEST"
	}
	if o.DefaultManifest == "" {
		o.DefaultManifest = "host.toml"
	}
	if o.PrefixEnv == "" {
		o.PrefixEnv = "SERVER_PREFIX"
	}
	return o
}

// ---- Providers ----

func provideManifest(o Options, log *zap.Logger) (manifest.Config, error) {
	path := envOr(o.ManifestEnv, o.DefaultManifest)
	cfg, err := manifest.Load(path)
	if err != nil {
		log.Error("manifest load failed", zap.Error(err), zap.String("path", path))
		return manifest.Config{}, err
	}
	if p := os.Getenv(o.PrefixEnv); p != "" {
		cfg.Server.Prefix = p
	}
	log.Info("manifest loaded",
		zap.String("service", o.Service),
		zap.String("path", path),
		zap.Int("endpoints", len(cfg.Endpoints)),
	)
	return cfg, nil
}

func provideRegistry(o Options, cfg manifest.Config) (*service.Registry, error) {
	reg := service.NewRegistry()
	if err := manifest.Build(cfg, reg, o.Funcs); err != nil {
		return nil, err
	}
	return reg, nil
}

type hostDeps struct {
	fx.In

	Cfg     manifest.Config
	Reg     *service.Registry
	Log     *zap.Logger
	Metrics http.Handler `name:"metrics"`
}

func provideHost(d hostDeps) *service.Host {
	s := d.Cfg.Server
	opts := []service.HostOption{
		service.WithLogger(d.Log),
		service.WithKeepAlive(s.KeepAlive),
		service.WithMetricsHandler(d.Metrics),
	}
	if s.MetricsPath != "" {
		opts = append(opts, service.WithMetricsPath(s.MetricsPath, s.MetricsCredentials))
	}
	if s.HeartbeatPath != "" {
		opts = append(opts, service.WithHeartbeat(s.HeartbeatPath))
	}
	if s.ReadTimeoutMS > 0 || s.WriteTimeoutMS > 0 || s.IdleTimeoutMS > 0 {
		opts = append(opts, service.WithTimeouts(
			orDefault(s.ReadTimeoutMS, 15*time.Second),
			orDefault(s.WriteTimeoutMS, 30*time.Second),
			orDefault(s.IdleTimeoutMS, 60*time.Second),
		))
	}
	return service.NewHost(s.Prefix, d.Reg, opts...)
}

// ---- Server lifecycle ----

func registerHooks(lc fx.Lifecycle, o Options, h *service.Host, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			h.Init()
			if err := h.Start(); err != nil {
				return err
			}
			log.Info("server started",
				zap.String("service", o.Service),
				zap.String("prefix", h.ServerPrefix()),
				zap.String("addr", h.Addr()),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("server stopping", zap.String("service", o.Service))
			return h.Stop(ctx)
		},
	})
}

// ---- Public Fx module ----

// Module loads the manifest, builds the registry and runs the host for the
// lifetime of the fx app.
func Module(opts Options) fx.Option {
	opts = opts.withDefaults()

	logging := logger.Module
	if opts.Logger != nil {
		logging = fx.Supply(opts.Logger)
	}

	return fx.Options(
		fx.Supply(opts),
		logging,
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		metrics.Module,
		fx.Provide(provideManifest, provideRegistry, provideHost),
		fx.Invoke(registerHooks),
	)
}

// ---- helpers ----

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func orDefault(ms int, def time.Duration) time.Duration {
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}
