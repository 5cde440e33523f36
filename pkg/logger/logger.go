package logger

import (
	"fmt"
	"io"
	"os"

	charm "github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

// Level is the charmbracelet log level.
type Level = charm.Level

const (
	// TraceLevel is one step more verbose than DebugLevel.
	TraceLevel Level = charm.DebugLevel - 1
	DebugLevel Level = charm.DebugLevel
	InfoLevel  Level = charm.InfoLevel
	WarnLevel  Level = charm.WarnLevel
	ErrorLevel Level = charm.ErrorLevel
	FatalLevel Level = charm.FatalLevel
	// OffLevel silences every message.
	OffLevel Level = charm.FatalLevel + 1
)

// LogLevel is the level name used in monarch.yaml and on the command line.
type LogLevel string

const (
	LogLevelOff     LogLevel = "Off"
	LogLevelTrace   LogLevel = "Trace"
	LogLevelDebug   LogLevel = "Debug"
	LogLevelInfo    LogLevel = "Info"
	LogLevelWarning LogLevel = "Warning"
)

// ErrInvalidLogLevel is returned by ParseLogLevel for unknown names.
var ErrInvalidLogLevel = errors.New("invalid log level")

// Logger wraps a charmbracelet logger and adds the trace level.
type Logger struct {
	*charm.Logger
}

// NewLogger wraps an existing charmbracelet logger.
func NewLogger(l *charm.Logger) *Logger {
	l.SetStyles(getMonarchLogStyles())
	return &Logger{Logger: l}
}

// New creates a new Logger writing to stderr.
func New() *Logger {
	return NewLogger(charm.New(os.Stderr))
}

// NewWithOutput creates a new Logger writing to w.
func NewWithOutput(w io.Writer) *Logger {
	return NewLogger(charm.New(w))
}

// ParseLogLevel validates a level name. The empty string means Info.
func ParseLogLevel(logLevel string) (LogLevel, error) {
	if logLevel == "" {
		return LogLevelInfo, nil
	}

	switch LogLevel(logLevel) {
	case LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelOff:
		return LogLevel(logLevel), nil
	default:
		return "", errors.Wrapf(ErrInvalidLogLevel, "%q, supported log levels are Trace, Debug, Info, Warning, Off", logLevel)
	}
}

// ToCharmLevel maps a level name to the charmbracelet level.
func (l LogLevel) ToCharmLevel() Level {
	switch l {
	case LogLevelTrace:
		return TraceLevel
	case LogLevelDebug:
		return DebugLevel
	case LogLevelWarning:
		return WarnLevel
	case LogLevelOff:
		return OffLevel
	default:
		return InfoLevel
	}
}

// Configure builds a Logger for the given level name and destination file.
// An empty file or "/dev/stderr" logs to stderr; "/dev/stdout" logs to stdout.
// The returned closer must be called once logging is finished.
func Configure(level, file string) (*Logger, io.Closer, error) {
	logLevel, err := ParseLogLevel(level)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer
	var closer io.Closer = nopCloser{}
	switch file {
	case "", "/dev/stderr":
		out = os.Stderr
	case "/dev/stdout":
		out = os.Stdout
	default:
		f, err := os.OpenFile(file, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", file, err)
		}
		out = f
		closer = f
	}

	l := NewWithOutput(out)
	l.SetLevel(logLevel.ToCharmLevel())
	return l, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Trace logs a message at TraceLevel.
func (l *Logger) Trace(msg interface{}, keyvals ...interface{}) {
	l.Log(TraceLevel, msg, keyvals...)
}

// GetLevelString returns the lower-case name of the current level.
func (l *Logger) GetLevelString() string {
	switch level := l.GetLevel(); level {
	case TraceLevel:
		return "trace"
	case OffLevel:
		return "off"
	default:
		return level.String()
	}
}
