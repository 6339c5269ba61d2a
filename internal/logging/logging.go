// Package logging builds zap loggers for the command-line tool and adapts
// them to parser.Logger.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/shapeerrors"
)

// Options selects the level and encoding of a logger.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// JSON selects the production JSON encoder instead of the console one.
	JSON bool
	// Output receives log lines. Nil means stderr.
	Output io.Writer
}

// ParseLevel converts a level name to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, &shapeerrors.ConfigError{Option: "log.level", Value: s, Message: "must be debug, info, warn or error"}
	}
	return lvl, nil
}

// New builds a zap logger from opts.
func New(opts Options) (*zap.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stderr
	if opts.Output != nil {
		out = opts.Output
	}

	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		if opts.Output != nil {
			cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		cfg.TimeKey = ""
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), zap.NewAtomicLevelAt(lvl))
	return zap.New(core), nil
}

// ZapAdapter wraps a *zap.SugaredLogger to implement parser.Logger.
type ZapAdapter struct {
	logger *zap.SugaredLogger
}

var _ parser.Logger = (*ZapAdapter)(nil)

// NewZapAdapter creates an adapter for l. A nil logger discards everything.
func NewZapAdapter(l *zap.Logger) *ZapAdapter {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapAdapter{logger: l.Sugar()}
}

// Debug implements parser.Logger.
func (z *ZapAdapter) Debug(msg string, attrs ...any) { z.logger.Debugw(msg, attrs...) }

// Info implements parser.Logger.
func (z *ZapAdapter) Info(msg string, attrs ...any) { z.logger.Infow(msg, attrs...) }

// Warn implements parser.Logger.
func (z *ZapAdapter) Warn(msg string, attrs ...any) { z.logger.Warnw(msg, attrs...) }

// Error implements parser.Logger.
func (z *ZapAdapter) Error(msg string, attrs ...any) { z.logger.Errorw(msg, attrs...) }

// With implements parser.Logger.
func (z *ZapAdapter) With(attrs ...any) parser.Logger {
	return &ZapAdapter{logger: z.logger.With(attrs...)}
}

// Sync flushes buffered log entries.
func (z *ZapAdapter) Sync() error {
	return z.logger.Sync()
}

// NewLogger builds a zap logger from opts and adapts it.
func NewLogger(opts Options) (*ZapAdapter, error) {
	l, err := New(opts)
	if err != nil {
		return nil, err
	}
	return NewZapAdapter(l), nil
}
