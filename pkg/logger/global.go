package logger

import (
	"sync/atomic"

	charm "github.com/charmbracelet/log"
)

// defaultLogger is the global default Logger instance stored atomically.
var defaultLogger atomic.Value

func init() {
	defaultLogger.Store(NewLogger(charm.Default()))
}

// Default returns the global default Logger instance.
func Default() *Logger {
	return defaultLogger.Load().(*Logger)
}

// SetDefault sets a new global default Logger instance.
func SetDefault(logger *Logger) {
	if logger != nil {
		defaultLogger.Store(logger)
	}
}

// Trace logs a message at TraceLevel using the default logger.
func Trace(msg interface{}, keyvals ...interface{}) {
	Default().Trace(msg, keyvals...)
}

// Debug logs a message at DebugLevel using the default logger.
func Debug(msg interface{}, keyvals ...interface{}) {
	Default().Debug(msg, keyvals...)
}

// Info logs a message at InfoLevel using the default logger.
func Info(msg interface{}, keyvals ...interface{}) {
	Default().Info(msg, keyvals...)
}

// Warn logs a message at WarnLevel using the default logger.
func Warn(msg interface{}, keyvals ...interface{}) {
	Default().Warn(msg, keyvals...)
}

// Error logs a message at ErrorLevel using the default logger.
func Error(msg interface{}, keyvals ...interface{}) {
	Default().Error(msg, keyvals...)
}

// GetLevel returns the level of the default logger.
func GetLevel() Level {
	return Default().GetLevel()
}
