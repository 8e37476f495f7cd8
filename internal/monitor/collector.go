package monitor

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collector adapts a Server into a correction.PermutationStatisticsCollector[S].
// keyOf turns a strategy into the stable display identity broadcast to
// dashboard clients, mirroring the keying convention used by
// correction.StatisticsAggregator.
type Collector[S any] struct {
	server *Server
	keyOf  func(S) string
}

// NewCollector builds a Collector that publishes every notification it
// receives onto server's broadcast channel.
func NewCollector[S any](server *Server, keyOf func(S) string) *Collector[S] {
	return &Collector[S]{server: server, keyOf: keyOf}
}

func (c *Collector[S]) OnBaselineStatistic(strategy S, value decimal.Decimal) {
	c.publish(PermutationEvent{
		Type:      "baseline",
		Strategy:  c.keyOf(strategy),
		Value:     value.String(),
		Timestamp: time.Now().UTC(),
	})
}

func (c *Collector[S]) OnPermutedStatistic(strategy S, permIndex int, value decimal.Decimal) {
	c.publish(PermutationEvent{
		Type:      "permuted",
		Strategy:  c.keyOf(strategy),
		PermIndex: permIndex,
		Value:     value.String(),
		Timestamp: time.Now().UTC(),
	})
}

func (c *Collector[S]) OnStrategyCompleted(strategy S, finalPValue decimal.Decimal) {
	c.publish(PermutationEvent{
		Type:      "completed",
		Strategy:  c.keyOf(strategy),
		Value:     finalPValue.String(),
		Timestamp: time.Now().UTC(),
	})
}

// publish drops the event rather than blocking the validation run if the
// broadcast channel is saturated and Run's consumer loop has fallen behind.
func (c *Collector[S]) publish(event PermutationEvent) {
	select {
	case c.server.broadcast <- event:
	default:
	}
}
