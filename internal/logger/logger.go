package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// PALLogger implements the Logger and AuditLogger interfaces used
// throughout the validation pipeline.
type PALLogger struct {
	config      *Config
	logger      *log.Logger
	auditLogger *log.Logger
	mu          sync.RWMutex
	traceID     string
	rotation    *RotatingWriter
	auditRot    *RotatingWriter
}

// New creates a new PALLogger instance.
func New(config *Config) (*PALLogger, error) {
	l := &PALLogger{config: config}

	var output io.Writer
	switch config.Output {
	case "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		rot, err := NewRotatingWriter(config.Output, RotationConfig{
			MaxSizeBytes: int64(config.MaxFileSizeMB) * 1024 * 1024,
			MaxBackups:   config.MaxBackupFiles,
			Compress:     config.CompressBackups,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.rotation = rot
		output = rot
	}
	l.logger = log.New(output, "", 0)

	if config.EnableAudit {
		rot, err := NewRotatingWriter(config.AuditFile, RotationConfig{
			MaxSizeBytes: int64(config.MaxFileSizeMB) * 1024 * 1024,
			MaxBackups:   config.MaxBackupFiles,
			Compress:     config.CompressBackups,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open audit file: %w", err)
		}
		l.auditRot = rot
		l.auditLogger = log.New(rot, "", 0)
	}

	return l, nil
}

func (l *PALLogger) Debug(component string, message string, fields ...map[string]interface{}) {
	l.log(DEBUG, component, message, fields...)
}

func (l *PALLogger) Info(component string, message string, fields ...map[string]interface{}) {
	l.log(INFO, component, message, fields...)
}

func (l *PALLogger) Warn(component string, message string, fields ...map[string]interface{}) {
	l.log(WARN, component, message, fields...)
}

func (l *PALLogger) Error(component string, message string, fields ...map[string]interface{}) {
	l.log(ERROR, component, message, fields...)
}

func (l *PALLogger) Fatal(component string, message string, fields ...map[string]interface{}) {
	l.log(FATAL, component, message, fields...)
	os.Exit(1)
}

// WithTrace returns a logger carrying the given trace ID.
func (l *PALLogger) WithTrace(traceID string) Logger {
	newLogger := *l
	newLogger.traceID = traceID
	return &newLogger
}

func (l *PALLogger) log(level LogLevel, component string, message string, fields ...map[string]interface{}) {
	if level < l.config.Level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		Component: component,
		Fields:    make(map[string]interface{}),
		TraceID:   l.traceID,
	}
	for _, field := range fields {
		for k, v := range field {
			entry.Fields[k] = v
		}
	}

	var output string
	switch l.config.Format {
	case "json":
		data, err := json.Marshal(entry)
		if err != nil {
			output = fmt.Sprintf("{\"timestamp\":%q,\"level\":%q,\"component\":%q,\"message\":%q,\"error\":\"failed to marshal log entry\"}",
				entry.Timestamp.Format(time.RFC3339), level.String(), component, message)
		} else {
			output = string(data)
		}
	default:
		output = fmt.Sprintf("%s [%s] %s: %s", entry.Timestamp.Format(time.RFC3339), level.String(), component, message)
		if len(entry.Fields) > 0 {
			data, _ := json.Marshal(entry.Fields)
			output += " " + string(data)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Println(output)
}

// LogEvent writes an audit event to the audit trail.
func (l *PALLogger) LogEvent(entry AuditEntry) {
	if !l.config.EnableAudit || l.auditLogger == nil {
		return
	}

	entry.Timestamp = time.Now().UTC()
	data, err := json.Marshal(entry)
	if err != nil {
		l.Error("audit", "failed to marshal audit entry", map[string]interface{}{
			"error":      err.Error(),
			"event_type": entry.EventType,
		})
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.auditLogger.Println(string(data))
}

// LogConsistencyWarning records a consistency warning raised while
// reopening or appending to the analysis database.
func (l *PALLogger) LogConsistencyWarning(security string, details interface{}) {
	l.LogEvent(AuditEntry{
		EventType: ConsistencyWarningRaised,
		Security:  security,
		Metadata:  details,
	})
}

// LogSurvivorsChosen records the outcome of a multiple-testing correction
// pass: how many strategies out of a search mode's family survived.
func (l *PALLogger) LogSurvivorsChosen(searchMode string, survivorCount int, metadata interface{}) {
	l.LogEvent(AuditEntry{
		EventType:     CorrectionSurvivorsChosen,
		SearchMode:    searchMode,
		SurvivorCount: survivorCount,
		Metadata:      metadata,
	})
}

// GetTraceID returns the trace ID carried by this logger.
func (l *PALLogger) GetTraceID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.traceID
}

// Flush syncs any rotating writers to disk.
func (l *PALLogger) Flush() {
	if l.rotation != nil {
		l.rotation.Sync()
	}
	if l.auditRot != nil {
		l.auditRot.Sync()
	}
}

// Close closes the logger and any associated files.
func (l *PALLogger) Close() error {
	if l.rotation != nil {
		if err := l.rotation.Close(); err != nil {
			return err
		}
	}
	if l.auditRot != nil {
		return l.auditRot.Close()
	}
	return nil
}
