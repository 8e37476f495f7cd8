// Package correction implements multiple-testing correction over a family
// of strategies tested against a shared permutation null distribution:
// Romano-Wolf stepdown, its Holm-style approximation, and the trivial
// unadjusted selector. Grounded on spec.md §4.F and cross-checked against
// MultipleTestCorrectionTest.cpp's survivor-count expectations.
package correction

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrEmptyStrategySet is returned by CorrectForMultipleTests when a
// synthetic null distribution has been configured but no strategy was
// ever added: correction is undefined with nothing to correct.
var ErrEmptyStrategySet = errors.New("correction: no strategies were added before correction")

// DefaultSignificancePValue is the alpha used by SurvivingStrategies when
// no caller-supplied threshold overrides it.
const DefaultSignificancePValue = 0.05

type entry[S any] struct {
	testStat  decimal.Decimal
	adjustedP decimal.Decimal
	strategy  S
}

// base holds the bookkeeping shared by every correction policy: the
// pending (testStat, strategy) pairs, the shared synthetic null
// distribution, and the survivor list computed by the most recent
// CorrectForMultipleTests call.
type base[S any] struct {
	entries     []entry[S]
	null        []decimal.Decimal
	significance decimal.Decimal
	survivors   []S
	warnings    []string
	corrected   bool
}

func newBase[S any]() base[S] {
	return base[S]{significance: decimal.NewFromFloat(DefaultSignificancePValue)}
}

// AddStrategy records a strategy's raw test statistic for later
// correction. The adjusted p-value is computed once CorrectForMultipleTests
// runs, against whatever synthetic null is configured at that time.
func (b *base[S]) AddStrategy(testStat decimal.Decimal, strategy S) {
	b.entries = append(b.entries, entry[S]{testStat: testStat, strategy: strategy})
	b.corrected = false
}

// SetSyntheticNullDistribution configures the shared family-wise null
// distribution every strategy's empirical p-value is computed against.
func (b *base[S]) SetSyntheticNullDistribution(null []decimal.Decimal) {
	b.null = null
	b.corrected = false
}

// SetSignificanceLevel overrides the default alpha used when deciding
// survivors.
func (b *base[S]) SetSignificanceLevel(alpha decimal.Decimal) {
	b.significance = alpha
}

// Warnings returns any consistency warnings raised during the most recent
// correction run (currently: falling back to raw p-values because the
// synthetic null was empty).
func (b *base[S]) Warnings() []string { return b.warnings }

// NumSurvivingStrategies returns how many strategies passed the
// significance threshold in the most recent correction run.
func (b *base[S]) NumSurvivingStrategies() int { return len(b.survivors) }

// SurvivingStrategies returns the strategies that passed the significance
// threshold in the most recent correction run.
func (b *base[S]) SurvivingStrategies() []S { return b.survivors }

// empiricalPValue computes the empirical p-value of testStat against
// null: #{null >= testStat} / len(null).
func empiricalPValue(testStat decimal.Decimal, null []decimal.Decimal) decimal.Decimal {
	count := 0
	for _, v := range null {
		if v.GreaterThanOrEqual(testStat) {
			count++
		}
	}
	return decimal.NewFromInt(int64(count)).Div(decimal.NewFromInt(int64(len(null))))
}

// rawPValues computes each entry's raw empirical p-value, falling back to
// treating the stored test statistic itself as an already-computed
// p-value (with a warning) when no synthetic null has been configured.
func (b *base[S]) rawPValues() []decimal.Decimal {
	raw := make([]decimal.Decimal, len(b.entries))
	if len(b.null) == 0 {
		b.warnings = append(b.warnings, "synthetic null distribution is empty: falling back to raw test statistics as p-values")
		for i, e := range b.entries {
			raw[i] = e.testStat
		}
		return raw
	}
	for i, e := range b.entries {
		raw[i] = empiricalPValue(e.testStat, b.null)
	}
	return raw
}

func (b *base[S]) requireNonEmpty() error {
	if len(b.entries) == 0 {
		return ErrEmptyStrategySet
	}
	return nil
}

func (b *base[S]) finalize(adjusted []decimal.Decimal, order []int) {
	for i, idx := range order {
		b.entries[idx].adjustedP = adjusted[i]
	}

	b.survivors = b.survivors[:0]
	for _, e := range b.entries {
		if e.adjustedP.LessThan(b.significance) {
			b.survivors = append(b.survivors, e.strategy)
		}
	}
	b.corrected = true
}

// Result pairs a strategy with its corrected p-value and survival
// verdict from the most recent CorrectForMultipleTests call.
type Result[S any] struct {
	Strategy  S
	AdjustedP decimal.Decimal
	Survived  bool
}

// Results returns every added strategy alongside its adjusted p-value,
// in the order strategies were added.
func (b *base[S]) Results() []Result[S] {
	out := make([]Result[S], len(b.entries))
	for i, e := range b.entries {
		out[i] = Result[S]{Strategy: e.strategy, AdjustedP: e.adjustedP, Survived: e.adjustedP.LessThan(b.significance)}
	}
	return out
}

// StrategySelector is the common surface implemented by
// HolmRomanoWolfCorrection, RomanoWolfStepdownCorrection, and
// UnadjustedPValueStrategySelection.
type StrategySelector[S any] interface {
	AddStrategy(testStat decimal.Decimal, strategy S)
	SetSyntheticNullDistribution(null []decimal.Decimal)
	SetSignificanceLevel(alpha decimal.Decimal)
	CorrectForMultipleTests() error
	NumSurvivingStrategies() int
	SurvivingStrategies() []S
	Results() []Result[S]
	Warnings() []string
}
