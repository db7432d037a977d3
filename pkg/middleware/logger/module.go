package logger

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Options(
	fx.Provide(ProvideLogger),
)

// ProvideLogger returns the host logger and flushes it when the app stops.
func ProvideLogger(lc fx.Lifecycle) *zap.Logger {
	l := NewLog("host.log")
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = l.Sync()
			return nil
		},
	})
	return l
}
