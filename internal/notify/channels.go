package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ConsoleChannel prints alerts to stdout, useful for interactive runs
// and as the default channel when no webhook is configured.
type ConsoleChannel struct {
	name string
}

// NewConsoleChannel creates a console channel.
func NewConsoleChannel(name string) *ConsoleChannel {
	return &ConsoleChannel{name: name}
}

func (c *ConsoleChannel) Send(alert Alert) error {
	fmt.Printf("[%s] %s: %s\n", alert.Severity, alert.Category, alert.Message)
	if len(alert.Metadata) > 0 {
		data, _ := json.MarshalIndent(alert.Metadata, "  ", "  ")
		fmt.Printf("  %s\n", string(data))
	}
	return nil
}

func (c *ConsoleChannel) Name() string {
	return c.name
}

// WebhookChannel posts alerts as JSON to an HTTP endpoint, e.g. a Slack
// incoming webhook or a generic alert aggregator.
type WebhookChannel struct {
	name   string
	url    string
	client *http.Client
}

// NewWebhookChannel creates a webhook channel posting to url.
func NewWebhookChannel(name, url string) *WebhookChannel {
	return &WebhookChannel{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WebhookChannel) Send(alert Alert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("notify: marshaling alert: %w", err)
	}

	resp, err := w.client.Post(w.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: posting to webhook %s: %w", w.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify: webhook %s returned status %d", w.name, resp.StatusCode)
	}
	return nil
}

func (w *WebhookChannel) Name() string {
	return w.name
}
