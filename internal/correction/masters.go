package correction

import (
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/palvalidator/core/internal/backtester"
	"github.com/palvalidator/core/internal/executor"
	"github.com/palvalidator/core/internal/notify"
	"github.com/palvalidator/core/internal/policy"
)

// StrategyUnderTest bundles a strategy identity, the policy that turns a
// backtester's return series into a single permutation-test statistic,
// and the backtester holding its historical trades.
type StrategyUnderTest[S any] struct {
	Strategy   S
	Policy     policy.Policy
	Backtester backtester.Backtester
}

// PALMastersMonteCarloValidation enumerates a set of strategies, shuffles
// each strategy's own backtester return series B times to build both
// per-strategy nulls and the family-wise maximum null, and
// hands the baseline statistics to a StrategySelector for correction.
// Grounded on spec.md §4.F's driver description.
type PALMastersMonteCarloValidation[S any] struct {
	NumPermutations int
	Exec            executor.Executor
	RNGSeed         int64
	Collector       PermutationStatisticsCollector[S]

	// SearchMode labels the family of strategies under test, surfaced in
	// notification metadata. Optional.
	SearchMode string
	// Notifier, if set, receives a survivor-count announcement once
	// correction completes, in addition to the Collector's per-strategy
	// OnStrategyCompleted calls.
	Notifier *notify.Manager
}

// Run executes the permutation loop for every strategy, notifies the
// configured collector, and performs the multiple-testing correction
// in-place on selector. It returns the shared synthetic null distribution
// (the per-permutation maximum test statistic across all strategies) for
// callers that want to inspect it directly.
func (v PALMastersMonteCarloValidation[S]) Run(strategies []StrategyUnderTest[S], selector StrategySelector[S]) ([]decimal.Decimal, error) {
	familyMaxNull := make([]decimal.Decimal, v.NumPermutations)

	for si, s := range strategies {
		baseline := s.Policy.GetPermutationTestStatistic(s.Backtester)
		if v.Collector != nil {
			v.Collector.OnBaselineStatistic(s.Strategy, baseline)
		}
		selector.AddStrategy(baseline, s.Strategy)

		returns := s.Backtester.AllHighResReturns()
		daily := s.Backtester.IsDailyBacktester()
		permuted := make([]decimal.Decimal, v.NumPermutations)

		executor.ParallelFor(v.NumPermutations, v.Exec, func(i int) {
			rng := rand.New(rand.NewSource(v.RNGSeed + int64(i) + 1))
			shuffled := shuffledCopy(returns, rng)
			permutedBt := backtester.NewDouble(shuffled, daily)
			permuted[i] = s.Policy.GetPermutationTestStatistic(permutedBt)
		})

		for i, value := range permuted {
			if v.Collector != nil {
				v.Collector.OnPermutedStatistic(s.Strategy, i, value)
			}
			if si == 0 || value.GreaterThan(familyMaxNull[i]) {
				familyMaxNull[i] = value
			}
		}
	}

	selector.SetSyntheticNullDistribution(familyMaxNull)
	if err := selector.CorrectForMultipleTests(); err != nil {
		return familyMaxNull, err
	}

	results := selector.Results()
	if v.Collector != nil {
		for _, result := range results {
			v.Collector.OnStrategyCompleted(result.Strategy, result.AdjustedP)
		}
	}

	if v.Notifier != nil {
		v.Notifier.Notify(notify.SeverityInfo, notify.CategoryCorrectionOutcome,
			"multiple-testing correction completed",
			map[string]interface{}{
				"search_mode":     v.SearchMode,
				"num_strategies":  len(strategies),
				"num_survivors":   selector.NumSurvivingStrategies(),
				"num_permutations": v.NumPermutations,
			})
	}

	return familyMaxNull, nil
}

func shuffledCopy(src []decimal.Decimal, rng *rand.Rand) []decimal.Decimal {
	out := make([]decimal.Decimal, len(src))
	copy(out, src)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
