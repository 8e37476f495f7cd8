package correction

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/palvalidator/core/internal/backtester"
	"github.com/palvalidator/core/internal/executor"
)

// orderSensitivePolicy is a deliberately order-sensitive statistic (first
// half sum minus second half sum) so that shuffling the return series
// changes its value. This lets the permutation loop exercise real
// variation without needing a full bootstrap policy.
type orderSensitivePolicy struct{}

func (orderSensitivePolicy) MinStrategyTrades() int            { return 0 }
func (orderSensitivePolicy) MinBarSeriesSize() int              { return 0 }
func (orderSensitivePolicy) FailureStatistic() decimal.Decimal { return decimal.Zero }

func (orderSensitivePolicy) GetPermutationTestStatistic(bt backtester.Backtester) decimal.Decimal {
	returns := bt.AllHighResReturns()
	half := len(returns) / 2
	first, second := decimal.Zero, decimal.Zero
	for i, r := range returns {
		if i < half {
			first = first.Add(r)
		} else {
			second = second.Add(r)
		}
	}
	return first.Sub(second)
}

func ascendingReturns(n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.NewFromFloat(float64(i) * 0.01)
	}
	return out
}

func TestPALMastersMonteCarloValidationRunsEndToEnd(t *testing.T) {
	strategies := []StrategyUnderTest[string]{
		{
			Strategy:   "ascending",
			Policy:     orderSensitivePolicy{},
			Backtester: backtester.NewDouble(ascendingReturns(20), true),
		},
	}

	collector := NewStatisticsAggregator[string](func(s string) string { return s })
	validation := PALMastersMonteCarloValidation[string]{
		NumPermutations: 50,
		Exec:            executor.NewSingleThreadExecutor(),
		RNGSeed:         7,
		Collector:       collector,
	}

	selector := NewHolmRomanoWolfCorrection[string]()
	familyNull, err := validation.Run(strategies, selector)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(familyNull) != 50 {
		t.Errorf("expected 50 entries in the family null, got %d", len(familyNull))
	}

	if _, ok := collector.BaselineStatistic("ascending"); !ok {
		t.Error("expected a baseline statistic to have been recorded")
	}
	if len(collector.PermutedStatistics("ascending")) != 50 {
		t.Errorf("expected 50 permuted statistics recorded, got %d", len(collector.PermutedStatistics("ascending")))
	}
	if _, ok := collector.FinalPValue("ascending"); !ok {
		t.Error("expected a final p-value to have been recorded")
	}
}

func TestPALMastersMonteCarloValidationPropagatesCorrectionError(t *testing.T) {
	validation := PALMastersMonteCarloValidation[string]{
		NumPermutations: 5,
		Exec:            executor.NewSingleThreadExecutor(),
		RNGSeed:         1,
	}
	selector := NewRomanoWolfStepdownCorrection[string]()

	_, err := validation.Run(nil, selector)
	if err == nil {
		t.Error("expected an error from an empty strategy set")
	}
}
