package logutil

type LogLevel int

const (
	// LogLevelDebug must be sent only by the Debugf method and only
	// when the debug key it was called with is enabled.
	LogLevelDebug LogLevel = iota

	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

type Log interface {
	Fatalf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Debugf(key string, format string, args ...interface{})

	Child(name string) Log
	SetLevel(level LogLevel)
}
