package notify

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

type recordingChannel struct {
	name     string
	received []Alert
}

func (r *recordingChannel) Send(alert Alert) error {
	r.received = append(r.received, alert)
	return nil
}

func (r *recordingChannel) Name() string { return r.name }

func TestManagerFansOutToAllChannels(t *testing.T) {
	m := NewManager(10)
	a := &recordingChannel{name: "a"}
	b := &recordingChannel{name: "b"}
	m.RegisterChannel(a)
	m.RegisterChannel(b)

	errs := m.Notify(SeverityWarning, CategoryConsistencyWarning, "security XYZ has a gap", map[string]interface{}{"security": "XYZ"})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if len(a.received) != 1 || len(b.received) != 1 {
		t.Fatalf("expected both channels to receive the alert, got a=%d b=%d", len(a.received), len(b.received))
	}
	if a.received[0].ID == "" {
		t.Error("expected a generated alert ID")
	}
}

func TestManagerHistoryIsBounded(t *testing.T) {
	m := NewManager(3)
	for i := 0; i < 5; i++ {
		m.Notify(SeverityInfo, CategorySystem, "tick", nil)
	}
	if len(m.History()) != 3 {
		t.Errorf("expected history capped at 3, got %d", len(m.History()))
	}
}

func TestManagerRemoveChannelStopsDelivery(t *testing.T) {
	m := NewManager(10)
	a := &recordingChannel{name: "a"}
	m.RegisterChannel(a)
	m.RemoveChannel("a")

	m.Notify(SeverityInfo, CategorySystem, "tick", nil)
	if len(a.received) != 0 {
		t.Error("expected no delivery after the channel was removed")
	}
}

func TestWebhookChannelPostsJSON(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ch := NewWebhookChannel("hook", server.URL)
	if err := ch.Send(Alert{ID: "1", Severity: SeverityCritical, Message: "boom"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("expected 1 webhook hit, got %d", hits)
	}
}

func TestWebhookChannelReportsNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ch := NewWebhookChannel("hook", server.URL)
	if err := ch.Send(Alert{ID: "1", Severity: SeverityCritical, Message: "boom"}); err == nil {
		t.Error("expected an error for a non-2xx response")
	}
}
