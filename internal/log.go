package internal

import (
	"log"
	"strings"
)

// LogLevel represents different logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// Logger provides leveled logging with an optional component prefix
type Logger struct {
	level     LogLevel
	component string
}

// NewLogger creates a new logger with the specified level
func NewLogger(level LogLevel) *Logger {
	return &Logger{level: level}
}

// ParseLogLevel maps a LOG_LEVEL value to a level, defaulting to INFO
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LogLevelError
	case "WARN", "WARNING":
		return LogLevelWarn
	case "DEBUG":
		return LogLevelDebug
	case "TRACE":
		return LogLevelTrace
	default:
		return LogLevelInfo
	}
}

// With returns a logger that tags every line with [component]
func (l *Logger) With(component string) *Logger {
	return &Logger{level: l.level, component: component}
}

// SetLevel changes the verbosity
func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
}

func (l *Logger) printf(tag, format string, args ...interface{}) {
	if l.component != "" {
		log.Printf("["+tag+"] ["+l.component+"] "+format, args...)
		return
	}
	log.Printf("["+tag+"] "+format, args...)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LogLevelError {
		l.printf("ERROR", format, args...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LogLevelWarn {
		l.printf("WARN", format, args...)
	}
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LogLevelInfo {
		l.printf("INFO", format, args...)
	}
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LogLevelDebug {
		l.printf("DEBUG", format, args...)
	}
}

// Trace logs trace messages
func (l *Logger) Trace(format string, args ...interface{}) {
	if l.level >= LogLevelTrace {
		l.printf("TRACE", format, args...)
	}
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	return l.level
}
