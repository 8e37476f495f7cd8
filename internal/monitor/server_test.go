package monitor

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestServerBroadcastsToConnectedClient(t *testing.T) {
	s := NewServer()
	done := make(chan struct{})
	defer close(done)
	go s.Run(done)

	ts := httptest.NewServer(s)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	time.Sleep(20 * time.Millisecond)

	s.broadcast <- PermutationEvent{
		Type:     "baseline",
		Strategy: "strat-1",
		Value:    "1.25",
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Contains(t, string(data), "strat-1")
	require.Contains(t, string(data), "baseline")
}

func TestCollectorPublishesAllEventKinds(t *testing.T) {
	s := NewServer()
	collector := NewCollector[string](s, func(strategy string) string { return strategy })

	collector.OnBaselineStatistic("strat-1", decimal.NewFromFloat(1.5))
	collector.OnPermutedStatistic("strat-1", 3, decimal.NewFromFloat(0.9))
	collector.OnStrategyCompleted("strat-1", decimal.NewFromFloat(0.04))

	events := make([]PermutationEvent, 0, 3)
	for i := 0; i < 3; i++ {
		select {
		case e := <-s.broadcast:
			events = append(events, e)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for published event")
		}
	}

	require.Equal(t, "baseline", events[0].Type)
	require.Equal(t, "permuted", events[1].Type)
	require.Equal(t, 3, events[1].PermIndex)
	require.Equal(t, "completed", events[2].Type)
}

func TestCollectorDropsWhenChannelFull(t *testing.T) {
	s := &Server{broadcast: make(chan PermutationEvent, 1)}
	collector := NewCollector[string](s, func(strategy string) string { return strategy })

	collector.OnBaselineStatistic("strat-1", decimal.NewFromFloat(1))
	require.NotPanics(t, func() {
		collector.OnBaselineStatistic("strat-1", decimal.NewFromFloat(2))
	})
}
