package correction

import (
	"sync"

	"github.com/shopspring/decimal"
)

// PermutationStatisticsCollector receives per-permutation diagnostics
// from PALMastersMonteCarloValidation. Grounded on spec.md §6.5's
// observer interface.
type PermutationStatisticsCollector[S any] interface {
	OnBaselineStatistic(strategy S, value decimal.Decimal)
	OnPermutedStatistic(strategy S, permIndex int, value decimal.Decimal)
	OnStrategyCompleted(strategy S, finalPValue decimal.Decimal)
}

// StatisticsAggregator is the default PermutationStatisticsCollector: it
// accumulates every notification under an exclusive mutex. The lock is a
// plain sync.Mutex rather than a sync.RWMutex on purpose: every On* method
// mutates the underlying maps, and a shared (read) lock around a map
// insert is exactly the race spec.md §5 calls out.
type StatisticsAggregator[S any] struct {
	mu         sync.Mutex
	keyOf      func(S) string
	baselines  map[string]decimal.Decimal
	permuted   map[string][]decimal.Decimal
	finalPVals map[string]decimal.Decimal
}

// NewStatisticsAggregator builds an aggregator keyed by keyOf, which
// must return a stable, comparable identity for each strategy (most
// callers use a pattern's canonical hash or name).
func NewStatisticsAggregator[S any](keyOf func(S) string) *StatisticsAggregator[S] {
	return &StatisticsAggregator[S]{
		keyOf:      keyOf,
		baselines:  make(map[string]decimal.Decimal),
		permuted:   make(map[string][]decimal.Decimal),
		finalPVals: make(map[string]decimal.Decimal),
	}
}

func (a *StatisticsAggregator[S]) OnBaselineStatistic(strategy S, value decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.baselines[a.keyOf(strategy)] = value
}

func (a *StatisticsAggregator[S]) OnPermutedStatistic(strategy S, permIndex int, value decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := a.keyOf(strategy)
	values := a.permuted[key]
	if permIndex >= len(values) {
		grown := make([]decimal.Decimal, permIndex+1)
		copy(grown, values)
		values = grown
	}
	values[permIndex] = value
	a.permuted[key] = values
}

func (a *StatisticsAggregator[S]) OnStrategyCompleted(strategy S, finalPValue decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.finalPVals[a.keyOf(strategy)] = finalPValue
}

// BaselineStatistic returns the recorded in-sample statistic for a
// strategy, if any was recorded.
func (a *StatisticsAggregator[S]) BaselineStatistic(strategy S) (decimal.Decimal, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.baselines[a.keyOf(strategy)]
	return v, ok
}

// PermutedStatistics returns the recorded per-permutation null values for
// a strategy, if any were recorded.
func (a *StatisticsAggregator[S]) PermutedStatistics(strategy S) []decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]decimal.Decimal(nil), a.permuted[a.keyOf(strategy)]...)
}

// FinalPValue returns the recorded final adjusted p-value for a
// strategy, if any was recorded.
func (a *StatisticsAggregator[S]) FinalPValue(strategy S) (decimal.Decimal, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.finalPVals[a.keyOf(strategy)]
	return v, ok
}
