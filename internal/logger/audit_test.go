package logger

import (
	"context"
	"path/filepath"
	"testing"
)

func TestAuditSystemProcessesSubmittedEvents(t *testing.T) {
	dir := t.TempDir()
	l, err := New(&Config{
		Level:       INFO,
		Format:      "json",
		Output:      "stdout",
		EnableAudit: true,
		AuditFile:   filepath.Join(dir, "audit.log"),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	as := NewAuditSystem(l, &AuditConfig{Enabled: true, BufferSize: 8, Workers: 1})
	if err := as.Submit(PatternUniverseGenerated, map[string]interface{}{"count": 10}, PriorityNormal); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	as.Shutdown()

	metrics := as.Metrics()
	if metrics.TotalEvents != 1 {
		t.Errorf("expected 1 total event, got %d", metrics.TotalEvents)
	}
	if metrics.ProcessedEvents != 1 {
		t.Errorf("expected 1 processed event, got %d", metrics.ProcessedEvents)
	}
}

func TestAuditSystemDisabledSkipsSubmission(t *testing.T) {
	l, err := New(&Config{Level: INFO, Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	as := NewAuditSystem(l, &AuditConfig{Enabled: false, BufferSize: 8, Workers: 1})
	if err := as.Submit(SystemError, nil, PriorityCritical); err != nil {
		t.Errorf("expected no error when audit system is disabled, got %v", err)
	}
	as.Shutdown()
	if as.Metrics().TotalEvents != 0 {
		t.Error("expected no events recorded while disabled")
	}
}

func TestAuditSystemFullQueueDropsEvent(t *testing.T) {
	l, err := New(&Config{Level: INFO, Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	// Zero workers so the queue never drains, forcing the buffer to fill.
	as := &AuditSystem{
		logger:  l,
		config:  &AuditConfig{Enabled: true, BufferSize: 1},
		events:  make(chan AuditEvent, 1),
		metrics: &AuditMetrics{EventsByType: make(map[AuditEventType]int64)},
	}
	as.ctx, as.cancel = context.WithCancel(context.Background())
	defer as.cancel()

	if err := as.Submit(SystemError, nil, PriorityLow); err != nil {
		t.Fatalf("first submit should succeed, got %v", err)
	}
	if err := as.Submit(SystemError, nil, PriorityLow); err == nil {
		t.Error("expected the second submit to fail once the queue is full")
	}
	if as.Metrics().DroppedEvents != 1 {
		t.Errorf("expected 1 dropped event, got %d", as.Metrics().DroppedEvents)
	}
}
