// Package policy implements the MonteCarloTestPolicy family: each policy
// turns a backtester's high-resolution return series into a single
// conservative score suitable for permutation testing, using a BCa lower
// (or composite) bound rather than the raw in-sample statistic. Grounded
// on spec.md §4.E's policy table.
package policy

import (
	"github.com/shopspring/decimal"

	"github.com/palvalidator/core/internal/backtester"
	"github.com/palvalidator/core/internal/bootstrap"
	"github.com/palvalidator/core/internal/executor"
	"github.com/palvalidator/core/internal/resampling"
)

// Policy computes a single permutation-test statistic from a backtester's
// return series, using a sentinel failure value when the series is too
// short or too thin to support a meaningful bootstrap.
type Policy interface {
	MinStrategyTrades() int
	MinBarSeriesSize() int
	FailureStatistic() decimal.Decimal
	GetPermutationTestStatistic(bt backtester.Backtester) decimal.Decimal
}

// Config bundles the bootstrap parameters shared by every policy in the
// family: replicate count, confidence level, and the executor to fan the
// replicate loop across.
type Config struct {
	NumResamples    int
	ConfidenceLevel float64
	Exec            executor.Executor
	RNGSeed         int64
}

func (c Config) bcaLowerBound(returns []decimal.Decimal, stat bootstrap.StatFn) decimal.Decimal {
	sampler := resampling.NewIIDResampler[decimal.Decimal]()
	result := bootstrap.Run(returns, c.NumResamples, c.ConfidenceLevel, stat, sampler, bootstrap.OneSidedLower, c.Exec, c.RNGSeed)
	return result.LowerBound()
}

func meetsThresholds(bt backtester.Backtester, minTrades, minBars int) bool {
	if int(bt.NumTrades()) < minTrades {
		return false
	}
	if len(bt.AllHighResReturns()) < minBars {
		return false
	}
	return true
}

func profitFactor(returns []decimal.Decimal) decimal.Decimal {
	gains, losses := decimal.Zero, decimal.Zero
	for _, r := range returns {
		if r.IsPositive() {
			gains = gains.Add(r)
		} else if r.IsNegative() {
			losses = losses.Add(r.Abs())
		}
	}
	if losses.IsZero() {
		return decimal.Zero
	}
	return gains.Div(losses)
}

func logProfitFactor(returns []decimal.Decimal) decimal.Decimal {
	gains, losses := decimal.Zero, decimal.Zero
	for _, r := range returns {
		lg := logOnePlus(r)
		if r.IsPositive() {
			gains = gains.Add(lg)
		} else if r.IsNegative() {
			losses = losses.Add(lg)
		}
	}
	if losses.IsZero() {
		return decimal.Zero
	}
	return gains.Div(losses.Abs())
}
