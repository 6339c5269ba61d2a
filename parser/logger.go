package parser

// Logger receives the progress of loading and generation. Attributes are
// alternating key-value pairs:
//
//	logger.Debug("loaded model", "shapes", 42, "namespaces", 3)
//
// internal/logging adapts a zap logger; NopLogger discards everything.
type Logger interface {
	Debug(msg string, attrs ...any)
	Info(msg string, attrs ...any)
	Warn(msg string, attrs ...any)
	Error(msg string, attrs ...any)
	// With returns a Logger that adds attrs to every entry.
	With(attrs ...any) Logger
}

// NopLogger discards every entry.
type NopLogger struct{}

var _ Logger = NopLogger{}

func (NopLogger) Debug(string, ...any)   {}
func (NopLogger) Info(string, ...any)    {}
func (NopLogger) Warn(string, ...any)    {}
func (NopLogger) Error(string, ...any)   {}
func (n NopLogger) With(...any) Logger { return n }

// OrNop returns l, or a NopLogger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
