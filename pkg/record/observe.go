package record

// Logger is the diagnostics sink the core notifies on recoverable anomalies
// (missing schema, unknown attribute, missing formatter). It is purely
// observational and never used for control flow. Implementations take
// alternating key/value pairs after the message.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// NopLogger discards all diagnostics. It is the default sink.
func NopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Metrics receives aggregate outcome counts. Implementations must be safe for
// concurrent use; the core calls them synchronously.
type Metrics interface {
	// ObserveValidation records a schema gate outcome for the named family.
	ObserveValidation(family string, valid bool)
	// ObserveMutation records whether a set/unset/clear call committed.
	ObserveMutation(family string, committed bool)
}

// NopMetrics discards all observations. It is the default recorder.
func NopMetrics() Metrics {
	return nopMetrics{}
}

type nopMetrics struct{}

func (nopMetrics) ObserveValidation(string, bool) {}
func (nopMetrics) ObserveMutation(string, bool)   {}
