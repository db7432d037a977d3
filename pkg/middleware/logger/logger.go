package logger

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects where logs go. Dir empty disables the rotating file.
type Config struct {
	Dir     string
	File    string
	Level   zapcore.Level
	Console bool
}

// ConfigFromEnv reads LOG_DIR (default "log") and LOG_LEVEL (default info).
// LOG_DIR="-" logs to stdout only.
func ConfigFromEnv(file string) Config {
	cfg := Config{Dir: "log", File: file, Level: zap.InfoLevel, Console: true}
	if d, ok := os.LookupEnv("LOG_DIR"); ok {
		cfg.Dir = d
		if d == "-" {
			cfg.Dir = ""
		}
	}
	if lv := strings.TrimSpace(os.Getenv("LOG_LEVEL")); lv != "" {
		if l, err := zapcore.ParseLevel(lv); err == nil {
			cfg.Level = l
		}
	}
	return cfg
}

// New builds a JSON logger teed to stdout and a lumberjack rotated file.
func New(cfg Config) (*zap.Logger, error) {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, err
		}
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, cfg.File),
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), w, cfg.Level))
	}
	if cfg.Console {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(os.Stdout), cfg.Level))
	}
	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}

// NewLog is New(ConfigFromEnv(name)) falling back to stdout only when the
// log directory cannot be created.
func NewLog(name string) *zap.Logger {
	cfg := ConfigFromEnv(name)
	l, err := New(cfg)
	if err != nil {
		cfg.Dir = ""
		l, _ = New(cfg)
		l.Warn("log directory unavailable, logging to stdout", zap.Error(err))
	}
	return l
}
