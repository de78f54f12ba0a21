package logger

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]any)
	Debug(action, message, requestID string, details map[string]any)
	Warn(action, message, requestID string, details map[string]any)
	Error(action, message, requestID string, details map[string]any, err error)
}

type jsonLogger struct {
	service  string
	hostname string
	level    Level
	out      io.Writer
	mu       sync.Mutex
}

func New(service string, level Level) Logger {
	return NewWithWriter(service, level, os.Stdout)
}

func NewWithWriter(service string, level Level, out io.Writer) Logger {
	hostname, _ := os.Hostname()
	return &jsonLogger{
		service:  service,
		hostname: hostname,
		level:    level,
		out:      out,
	}
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]any) {
	l.log(LevelInfo, action, message, requestID, details, nil)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]any) {
	l.log(LevelDebug, action, message, requestID, details, nil)
}

func (l *jsonLogger) Warn(action, message, requestID string, details map[string]any) {
	l.log(LevelWarn, action, message, requestID, details, nil)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]any, err error) {
	l.log(LevelError, action, message, requestID, details, err)
}

func (l *jsonLogger) log(level Level, action, message, requestID string, details map[string]any, err error) {
	if level < l.level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Service:   l.service,
		Hostname:  l.hostname,
		RequestID: requestID,
		Action:    action,
		Message:   message,
		Details:   details,
	}
	if err != nil {
		entry.Error = &ErrorInfo{Msg: err.Error()}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_ = json.NewEncoder(l.out).Encode(entry)
}

type nopLogger struct{}

// Nop discards everything. Used by tests and by code paths that run
// before configuration is loaded.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Info(string, string, string, map[string]any)         {}
func (nopLogger) Debug(string, string, string, map[string]any)        {}
func (nopLogger) Warn(string, string, string, map[string]any)         {}
func (nopLogger) Error(string, string, string, map[string]any, error) {}
