package logger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditConfig holds configuration for the asynchronous audit system.
type AuditConfig struct {
	Enabled       bool          `yaml:"enabled"`
	BufferSize    int           `yaml:"buffer_size"`
	Workers       int           `yaml:"workers"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	RetentionDays int           `yaml:"retention_days"`
}

// GetDefaultAuditConfig returns sensible defaults for a single-machine
// validation run.
func GetDefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		Enabled:       true,
		BufferSize:    1024,
		Workers:       2,
		FlushInterval: 5 * time.Second,
		RetentionDays: 30,
	}
}

// AuditPriority represents the priority of an audit event.
type AuditPriority int

const (
	PriorityLow AuditPriority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

func (p AuditPriority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// AuditEvent represents an audit event queued for asynchronous processing.
type AuditEvent struct {
	ID        string                 `json:"id"`
	Type      AuditEventType         `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Priority  AuditPriority          `json:"priority"`
	TraceID   string                 `json:"trace_id,omitempty"`
}

// AuditMetrics tracks audit system statistics.
type AuditMetrics struct {
	TotalEvents     int64
	EventsByType    map[AuditEventType]int64
	ProcessedEvents int64
	DroppedEvents   int64
	mu              sync.Mutex
}

func (m *AuditMetrics) record(event AuditEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalEvents++
	m.EventsByType[event.Type]++
}

func (m *AuditMetrics) markProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProcessedEvents++
}

func (m *AuditMetrics) markDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DroppedEvents++
}

// Snapshot returns a point-in-time copy of the metrics.
func (m *AuditMetrics) Snapshot() AuditMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	byType := make(map[AuditEventType]int64, len(m.EventsByType))
	for k, v := range m.EventsByType {
		byType[k] = v
	}
	return AuditMetrics{
		TotalEvents:     m.TotalEvents,
		EventsByType:    byType,
		ProcessedEvents: m.ProcessedEvents,
		DroppedEvents:   m.DroppedEvents,
	}
}

// AuditSystem fans audit events out to a worker pool that persists them
// through an AuditLogger, keeping the validation pipeline's hot path free
// of synchronous disk writes.
type AuditSystem struct {
	logger  AuditLogger
	config  *AuditConfig
	events  chan AuditEvent
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	metrics *AuditMetrics
}

// NewAuditSystem creates a new audit system backed by logger.
func NewAuditSystem(logger AuditLogger, config *AuditConfig) *AuditSystem {
	if config == nil {
		config = GetDefaultAuditConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())

	as := &AuditSystem{
		logger:  logger,
		config:  config,
		events:  make(chan AuditEvent, config.BufferSize),
		ctx:     ctx,
		cancel:  cancel,
		metrics: &AuditMetrics{EventsByType: make(map[AuditEventType]int64)},
	}

	workers := config.Workers
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		as.wg.Add(1)
		go as.worker()
	}

	return as
}

func (as *AuditSystem) worker() {
	defer as.wg.Done()
	for {
		select {
		case event := <-as.events:
			as.logger.LogEvent(AuditEntry{
				EventType: event.Type,
				Metadata:  event.Data,
			})
			as.metrics.markProcessed()
		case <-as.ctx.Done():
			for {
				select {
				case event := <-as.events:
					as.logger.LogEvent(AuditEntry{EventType: event.Type, Metadata: event.Data})
					as.metrics.markProcessed()
				default:
					return
				}
			}
		}
	}
}

// Submit enqueues an audit event for asynchronous processing. It never
// blocks the caller: a full queue drops the event and records the drop.
func (as *AuditSystem) Submit(eventType AuditEventType, data map[string]interface{}, priority AuditPriority) error {
	if !as.config.Enabled {
		return nil
	}

	event := AuditEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
		Priority:  priority,
	}

	select {
	case as.events <- event:
		as.metrics.record(event)
		return nil
	case <-as.ctx.Done():
		return fmt.Errorf("audit system is shutting down")
	default:
		as.metrics.markDropped()
		return fmt.Errorf("audit event queue is full")
	}
}

// Metrics returns a snapshot of the audit system's counters.
func (as *AuditSystem) Metrics() AuditMetrics {
	return as.metrics.Snapshot()
}

// Shutdown stops accepting new events and waits for queued events to drain.
func (as *AuditSystem) Shutdown() {
	as.cancel()
	as.wg.Wait()
}
