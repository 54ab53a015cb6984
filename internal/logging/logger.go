package logging

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Logger defines the interface for logging operations.
// This interface is designed for easy mocking in tests.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})
	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})
	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})
	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
	// WithPrefix returns a new Logger with the given prefix.
	WithPrefix(prefix string) Logger
	// WithFields returns a new Logger with the given fields added to all messages.
	WithFields(keyvals ...interface{}) Logger
	// SetLevel sets the minimum log level.
	SetLevel(level Level)
	// GetLevel returns the current log level.
	GetLevel() Level
}

// Options configures the logger.
type Options struct {
	// Level is the minimum log level to output.
	Level Level
	// Output is the destination for log messages.
	Output io.Writer
	// TimeFormat is the format string for timestamps.
	TimeFormat string
	// Prefix is an optional prefix for all log messages.
	Prefix string
	// NoColor disables colorized output.
	NoColor bool
	// ReportTimestamp enables timestamp output.
	ReportTimestamp bool
}

// DefaultOptions returns console defaults: info level on stderr.
func DefaultOptions() Options {
	return Options{
		Level:           LevelInfo,
		Output:          os.Stderr,
		TimeFormat:      "15:04:05",
		ReportTimestamp: true,
	}
}

// FileOptions returns options for file logging (no color, full timestamp).
func FileOptions(w io.Writer) Options {
	return Options{
		Level:           LevelDebug,
		Output:          w,
		TimeFormat:      "2006-01-02 15:04:05.000",
		NoColor:         true,
		ReportTimestamp: true,
	}
}

type logger struct {
	mu     sync.RWMutex
	impl   *log.Logger
	level  Level
	fields []interface{}
}

// New creates a new logger with the given options.
func New(opts Options) Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	l := log.NewWithOptions(opts.Output, log.Options{
		TimeFormat:      opts.TimeFormat,
		Level:           toCharmLevel(opts.Level),
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.ReportTimestamp,
	})
	if opts.NoColor {
		l.SetColorProfile(termenv.Ascii)
	}
	return &logger{impl: l, level: opts.Level}
}

// NewFileLogger creates a logger appending to the file at path.
// The returned closer releases the file.
func NewFileLogger(path string, level Level) (Logger, io.Closer, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	opts := FileOptions(file)
	opts.Level = level
	return New(opts), file, nil
}

func (l *logger) Debug(msg string, keyvals ...interface{}) {
	l.log(LevelDebug, msg, keyvals)
}

func (l *logger) Info(msg string, keyvals ...interface{}) {
	l.log(LevelInfo, msg, keyvals)
}

func (l *logger) Warn(msg string, keyvals ...interface{}) {
	l.log(LevelWarn, msg, keyvals)
}

// Error is always logged regardless of level.
func (l *logger) Error(msg string, keyvals ...interface{}) {
	l.log(LevelError, msg, keyvals)
}

func (l *logger) log(level Level, msg string, keyvals []interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if level < l.level && level != LevelError {
		return
	}
	kv := append(append([]interface{}{}, l.fields...), keyvals...)
	switch level {
	case LevelDebug:
		l.impl.Debug(msg, kv...)
	case LevelInfo:
		l.impl.Info(msg, kv...)
	case LevelWarn:
		l.impl.Warn(msg, kv...)
	default:
		l.impl.Error(msg, kv...)
	}
}

func (l *logger) WithPrefix(prefix string) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &logger{
		impl:   l.impl.WithPrefix(prefix),
		level:  l.level,
		fields: l.fields,
	}
}

func (l *logger) WithFields(keyvals ...interface{}) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	fields := make([]interface{}, len(l.fields)+len(keyvals))
	copy(fields, l.fields)
	copy(fields[len(l.fields):], keyvals)

	return &logger{impl: l.impl, level: l.level, fields: fields}
}

func (l *logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.impl.SetLevel(toCharmLevel(level))
}

func (l *logger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func toCharmLevel(l Level) log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelInfo:
		return log.InfoLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
