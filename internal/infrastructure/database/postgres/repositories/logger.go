package repositories

// Logger is the minimal logging contract the repository implementations
// need. The platform's monitoring/logging.Logger is adapted to it at
// wiring time; most structured-logging libraries satisfy it directly.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// NopLogger discards all log output. Used in tests and as a default when
// no logger is supplied.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
