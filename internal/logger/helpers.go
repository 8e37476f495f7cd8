package logger

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	defaultLogger   *PALLogger
	defaultLoggerMu sync.RWMutex
)

// SetDefaultLogger installs the process-wide default logger.
func SetDefaultLogger(l *PALLogger) {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = l
}

// GetDefaultLogger returns the process-wide default logger, creating a
// stdout text logger on first use if none was installed.
func GetDefaultLogger() *PALLogger {
	defaultLoggerMu.RLock()
	if defaultLogger != nil {
		l := defaultLogger
		defaultLoggerMu.RUnlock()
		return l
	}
	defaultLoggerMu.RUnlock()

	l, err := New(&Config{Level: INFO, Format: "text", Output: "stdout"})
	if err != nil {
		panic(fmt.Sprintf("logger: failed to create fallback logger: %v", err))
	}
	SetDefaultLogger(l)
	return l
}

type traceIDKey struct{}

// WithTraceID attaches a trace ID to a context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext extracts a trace ID previously attached with
// WithTraceID, returning "" if none is present.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(traceIDKey{}).(string); ok {
		return traceID
	}
	return ""
}

// LogError logs an error together with a truncated stack trace.
func LogError(component string, err error, fields ...map[string]interface{}) {
	if err == nil {
		return
	}
	merged := make(map[string]interface{})
	for _, field := range fields {
		for k, v := range field {
			merged[k] = v
		}
	}
	merged["error"] = err.Error()
	merged["stack_trace"] = stackTrace()

	GetDefaultLogger().Error(component, err.Error(), merged)
}

// LogPerformance logs the duration of an operation.
func LogPerformance(component string, operation string, duration time.Duration, metadata interface{}) {
	GetDefaultLogger().Info(component, fmt.Sprintf("%s took %v", operation, duration), map[string]interface{}{
		"operation": operation,
		"duration_ms": duration.Milliseconds(),
		"metadata":  metadata,
	})
}

func stackTrace() string {
	var buf [4096]byte
	n := runtime.Stack(buf[:], false)
	lines := strings.Split(string(buf[:n]), "\n")
	if len(lines) > 4 {
		return strings.Join(lines[4:], "\n")
	}
	return ""
}

// ComponentLogger is a thin wrapper that pins the component name so call
// sites don't have to repeat it on every line.
type ComponentLogger struct {
	component string
	logger    *PALLogger
}

// NewComponentLogger returns a ComponentLogger bound to the default
// process-wide logger.
func NewComponentLogger(component string) *ComponentLogger {
	return &ComponentLogger{component: component, logger: GetDefaultLogger()}
}

// WithContext returns a ComponentLogger carrying the trace ID found in ctx.
func (c *ComponentLogger) WithContext(ctx context.Context) *ComponentLogger {
	traceID := TraceIDFromContext(ctx)
	return &ComponentLogger{
		component: c.component,
		logger:    c.logger.WithTrace(traceID).(*PALLogger),
	}
}

func (c *ComponentLogger) Debug(message string, fields ...map[string]interface{}) {
	c.logger.Debug(c.component, message, fields...)
}

func (c *ComponentLogger) Info(message string, fields ...map[string]interface{}) {
	c.logger.Info(c.component, message, fields...)
}

func (c *ComponentLogger) Warn(message string, fields ...map[string]interface{}) {
	c.logger.Warn(c.component, message, fields...)
}

func (c *ComponentLogger) Error(message string, fields ...map[string]interface{}) {
	c.logger.Error(c.component, message, fields...)
}

func (c *ComponentLogger) Fatal(message string, fields ...map[string]interface{}) {
	c.logger.Fatal(c.component, message, fields...)
}
