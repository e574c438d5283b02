// internal/utils/logger.go

package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Logger defines the interface for logging throughout the application.
type Logger interface {
	Debug(msg string)
	Debugf(format string, args ...interface{})
	Info(msg string)
	Infof(format string, args ...interface{})
	Warn(msg string)
	Warnf(format string, args ...interface{})
	Error(msg string)
	Errorf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var (
	defaultLevel  = InfoLevel
	defaultOutput io.Writer = os.Stdout
	defaultsMu    sync.RWMutex
)

// SetDefaultLevel sets the minimum level for loggers created afterwards.
func SetDefaultLevel(level LogLevel) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaultLevel = level
}

// SetDefaultOutput redirects new loggers to the given writer. Tests use this
// to capture output.
func SetDefaultOutput(w io.Writer) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaultOutput = w
}

// SimpleLogger provides a leveled, field-carrying logger.
type SimpleLogger struct {
	level  LogLevel
	out    io.Writer
	fields map[string]interface{}
	mu     sync.Mutex
}

// NewLogger creates a new logger with the package defaults.
func NewLogger() Logger {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return &SimpleLogger{
		level:  defaultLevel,
		out:    defaultOutput,
		fields: make(map[string]interface{}),
	}
}

// NewComponentLogger creates a logger tagged with a component name. Each
// package in the pipeline owns one of these.
func NewComponentLogger(component string) Logger {
	return NewLogger().WithField("component", component)
}

func (l *SimpleLogger) Debug(msg string)                          { l.log(DebugLevel, msg) }
func (l *SimpleLogger) Debugf(format string, args ...interface{}) { l.log(DebugLevel, fmt.Sprintf(format, args...)) }
func (l *SimpleLogger) Info(msg string)                           { l.log(InfoLevel, msg) }
func (l *SimpleLogger) Infof(format string, args ...interface{})  { l.log(InfoLevel, fmt.Sprintf(format, args...)) }
func (l *SimpleLogger) Warn(msg string)                           { l.log(WarnLevel, msg) }
func (l *SimpleLogger) Warnf(format string, args ...interface{})  { l.log(WarnLevel, fmt.Sprintf(format, args...)) }
func (l *SimpleLogger) Error(msg string)                          { l.log(ErrorLevel, msg) }
func (l *SimpleLogger) Errorf(format string, args ...interface{}) { l.log(ErrorLevel, fmt.Sprintf(format, args...)) }

func (l *SimpleLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

func (l *SimpleLogger) WithFields(fields map[string]interface{}) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &SimpleLogger{
		level:  l.level,
		out:    l.out,
		fields: merged,
	}
}

// log formats and writes a message if it meets the minimum level.
func (l *SimpleLogger) log(level LogLevel, msg string) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	levelStr := [...]string{"DEBUG", "INFO", "WARN", "ERROR"}[level]
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	line := fmt.Sprintf("[%s] [%s] %s", timestamp, levelStr, msg)
	if len(l.fields) > 0 {
		line += " " + formatFields(l.fields)
	}

	fmt.Fprintln(l.out, line)
}

// formatFields renders fields deterministically (sorted by key).
func formatFields(fields map[string]interface{}) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
