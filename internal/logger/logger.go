package logger

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var (
	once   sync.Once
	mu     sync.RWMutex
	logger *zap.SugaredLogger
)

// Options configures a diagnostics logger.
type Options struct {
	// Level is a zap level name such as "debug" or "warn". Empty means info.
	Level string
	// Format is "console" or "json". Empty means console.
	Format string
	// Output receives the encoded entries. Nil means stderr.
	Output zapcore.WriteSyncer
}

// New builds a logger from opts.
func New(opts Options) (*zap.SugaredLogger, error) {
	level := zap.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "", "console":
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.TimeKey = ""
		encoder = zapcore.NewConsoleEncoder(cfg)
	case "json":
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "timestamp"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	default:
		return nil, fmt.Errorf("invalid log format %q (want console or json)", opts.Format)
	}

	out := opts.Output
	if out == nil {
		out = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(encoder, out, zap.NewAtomicLevelAt(level))
	return zap.New(core).Sugar(), nil
}

// Get returns the process wide logger, building it from TITLE_LENS_LOG_LEVEL
// and TITLE_LENS_LOG_FORMAT on first use.
func Get() *zap.SugaredLogger {
	once.Do(func() {
		l, err := New(Options{
			Level:  os.Getenv("TITLE_LENS_LOG_LEVEL"),
			Format: os.Getenv("TITLE_LENS_LOG_FORMAT"),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
			l, _ = New(Options{})
		}
		mu.Lock()
		if logger == nil {
			logger = l
		}
		mu.Unlock()
	})

	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Set replaces the process wide logger.
func Set(l *zap.SugaredLogger) {
	once.Do(func() {})
	mu.Lock()
	logger = l
	mu.Unlock()
}

// FromCtx returns the logger attached to ctx, falling back to Get. Extra
// key/value pairs in with are added to the returned logger.
func FromCtx(ctx context.Context, with ...any) *zap.SugaredLogger {
	l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger)
	if !ok || l == nil {
		l = Get()
	}
	if len(with) == 0 {
		return l
	}
	return l.With(with...)
}

// WithCtx returns a copy of ctx with l attached.
func WithCtx(ctx context.Context, l *zap.SugaredLogger) context.Context {
	if lp, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok && lp == l {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, l)
}
