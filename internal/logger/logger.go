package logger

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how verbosely the service logs.
type Config struct {
	Level      string // "debug" or anything else for info
	Path       string // empty logs to stdout
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type contextKey string

const loggerKey = contextKey("logger")

var (
	mu     sync.RWMutex
	global *zap.SugaredLogger
)

// Init builds the global logger. Calling it again replaces the previous one.
func Init(cfg Config) *zap.SugaredLogger {
	writeSyncer := zapcore.AddSync(os.Stdout)

	if cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			l := zap.NewExample().Sugar()
			l.Warnw("failed to create log directory, logging to stdout", "path", cfg.Path, "error", err)
		} else {
			writeSyncer = zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.Path,
				MaxSize:    cfg.MaxSizeMB,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAgeDays,
				Compress:   cfg.Compress,
			})
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	level := zapcore.InfoLevel
	if cfg.Level == "debug" {
		level = zapcore.DebugLevel
	}

	l := zap.New(zapcore.NewCore(encoder, writeSyncer, level), zap.AddCaller()).Sugar()

	mu.Lock()
	global = l
	mu.Unlock()

	l.Infow("logging initialized", "level", level.String(), "path", cfg.Path)
	return l
}

// Sync flushes any buffered log entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if global != nil {
		return global.Sync()
	}
	return nil
}

// Get returns the logger stored in ctx, the global logger, or a development
// logger when Init was never called.
func Get(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.SugaredLogger); ok {
			return l
		}
	}

	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}

	dev, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewExample().Sugar()
	}
	return dev.Sugar()
}

// WithContext attaches l to ctx.
func WithContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}
