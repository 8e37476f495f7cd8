package policy

import (
	"github.com/shopspring/decimal"

	"github.com/palvalidator/core/internal/backtester"
	"github.com/palvalidator/core/internal/numeric"
)

const (
	defaultMinStrategyTrades = 10
	defaultMinBarSeriesSize  = 30
)

// BootStrappedProfitFactor scores a strategy by the BCa one-sided-lower
// bound of profit factor (sum of winning returns over sum of losing-return
// magnitudes).
type BootStrappedProfitFactor struct {
	cfg Config
}

func NewBootStrappedProfitFactor(cfg Config) BootStrappedProfitFactor {
	return BootStrappedProfitFactor{cfg: cfg}
}

func (BootStrappedProfitFactor) MinStrategyTrades() int { return defaultMinStrategyTrades }
func (BootStrappedProfitFactor) MinBarSeriesSize() int  { return defaultMinBarSeriesSize }
func (BootStrappedProfitFactor) FailureStatistic() decimal.Decimal { return decimal.Zero }

func (p BootStrappedProfitFactor) GetPermutationTestStatistic(bt backtester.Backtester) decimal.Decimal {
	if !meetsThresholds(bt, p.MinStrategyTrades(), p.MinBarSeriesSize()) {
		return p.FailureStatistic()
	}
	return p.cfg.bcaLowerBound(bt.AllHighResReturns(), profitFactor)
}

// BootStrappedLogProfitFactor is BootStrappedProfitFactor computed on
// log(1+r) returns, which compounds additively and is less sensitive to a
// handful of outsized trades.
type BootStrappedLogProfitFactor struct {
	cfg Config
}

func NewBootStrappedLogProfitFactor(cfg Config) BootStrappedLogProfitFactor {
	return BootStrappedLogProfitFactor{cfg: cfg}
}

func (BootStrappedLogProfitFactor) MinStrategyTrades() int { return defaultMinStrategyTrades }
func (BootStrappedLogProfitFactor) MinBarSeriesSize() int  { return defaultMinBarSeriesSize }
func (BootStrappedLogProfitFactor) FailureStatistic() decimal.Decimal { return decimal.Zero }

func (p BootStrappedLogProfitFactor) GetPermutationTestStatistic(bt backtester.Backtester) decimal.Decimal {
	if !meetsThresholds(bt, p.MinStrategyTrades(), p.MinBarSeriesSize()) {
		return p.FailureStatistic()
	}
	return p.cfg.bcaLowerBound(bt.AllHighResReturns(), logProfitFactor)
}

// BootStrappedSharpeRatio scores a strategy by the BCa one-sided-lower
// bound of mean return over return standard deviation.
type BootStrappedSharpeRatio struct {
	cfg Config
}

func NewBootStrappedSharpeRatio(cfg Config) BootStrappedSharpeRatio {
	return BootStrappedSharpeRatio{cfg: cfg}
}

func (BootStrappedSharpeRatio) MinStrategyTrades() int { return defaultMinStrategyTrades }
func (BootStrappedSharpeRatio) MinBarSeriesSize() int  { return defaultMinBarSeriesSize }
func (BootStrappedSharpeRatio) FailureStatistic() decimal.Decimal { return decimal.Zero }

func (p BootStrappedSharpeRatio) GetPermutationTestStatistic(bt backtester.Backtester) decimal.Decimal {
	if !meetsThresholds(bt, p.MinStrategyTrades(), p.MinBarSeriesSize()) {
		return p.FailureStatistic()
	}
	return p.cfg.bcaLowerBound(bt.AllHighResReturns(), sharpeRatio)
}

func sharpeRatio(returns []decimal.Decimal) decimal.Decimal {
	sd := numeric.StdDev(returns)
	if sd.IsZero() {
		return decimal.Zero
	}
	return numeric.Mean(returns).Div(sd)
}

// BootStrappedProfitabilityPF scores a strategy by a composite of
// realized win percentage against an expected win percentage implied by
// the pattern's payoff ratio, and realized profit factor against a target
// profit factor. Both factors are clipped from above before multiplying
// so that outsized performance along one axis cannot mask a weak result
// on the other.
type BootStrappedProfitabilityPF struct {
	cfg         Config
	targetPF    decimal.Decimal
	payoffRatio decimal.Decimal
}

// NewBootStrappedProfitabilityPF builds the composite policy for a
// specific pattern's payoff ratio (profit target / stop loss) and the
// target profit factor the policy should hold the strategy to.
func NewBootStrappedProfitabilityPF(cfg Config, targetPF, payoffRatio decimal.Decimal) BootStrappedProfitabilityPF {
	return BootStrappedProfitabilityPF{cfg: cfg, targetPF: targetPF, payoffRatio: payoffRatio}
}

func (BootStrappedProfitabilityPF) MinStrategyTrades() int { return defaultMinStrategyTrades }
func (BootStrappedProfitabilityPF) MinBarSeriesSize() int  { return defaultMinBarSeriesSize }
func (BootStrappedProfitabilityPF) FailureStatistic() decimal.Decimal { return decimal.Zero }

func (p BootStrappedProfitabilityPF) GetPermutationTestStatistic(bt backtester.Backtester) decimal.Decimal {
	if !meetsThresholds(bt, p.MinStrategyTrades(), p.MinBarSeriesSize()) {
		return p.FailureStatistic()
	}
	returns := bt.AllHighResReturns()

	truePF := p.cfg.bcaLowerBound(returns, profitFactor)
	trueProfitability := winPercentage(returns)
	expectedProfitability := expectedProfitability(p.targetPF, p.payoffRatio)

	if expectedProfitability.IsZero() || p.targetPF.IsZero() {
		return p.FailureStatistic()
	}

	profitabilityScore := clip(trueProfitability.Div(expectedProfitability), decimal.NewFromInt(1))
	pfScore := clip(truePF.Div(p.targetPF), decimal.NewFromFloat(1.5))
	return profitabilityScore.Mul(pfScore)
}

// BootStrappedLogProfitabilityPF is BootStrappedProfitabilityPF with the
// log-return profit factor in place of the arithmetic one.
type BootStrappedLogProfitabilityPF struct {
	cfg         Config
	targetPF    decimal.Decimal
	payoffRatio decimal.Decimal
}

func NewBootStrappedLogProfitabilityPF(cfg Config, targetPF, payoffRatio decimal.Decimal) BootStrappedLogProfitabilityPF {
	return BootStrappedLogProfitabilityPF{cfg: cfg, targetPF: targetPF, payoffRatio: payoffRatio}
}

func (BootStrappedLogProfitabilityPF) MinStrategyTrades() int { return defaultMinStrategyTrades }
func (BootStrappedLogProfitabilityPF) MinBarSeriesSize() int  { return defaultMinBarSeriesSize }
func (BootStrappedLogProfitabilityPF) FailureStatistic() decimal.Decimal { return decimal.Zero }

func (p BootStrappedLogProfitabilityPF) GetPermutationTestStatistic(bt backtester.Backtester) decimal.Decimal {
	if !meetsThresholds(bt, p.MinStrategyTrades(), p.MinBarSeriesSize()) {
		return p.FailureStatistic()
	}
	returns := bt.AllHighResReturns()

	truePF := p.cfg.bcaLowerBound(returns, logProfitFactor)
	trueProfitability := winPercentage(returns)
	expectedProfitability := expectedProfitability(p.targetPF, p.payoffRatio)

	if expectedProfitability.IsZero() || p.targetPF.IsZero() {
		return p.FailureStatistic()
	}

	profitabilityScore := clip(trueProfitability.Div(expectedProfitability), decimal.NewFromInt(1))
	pfScore := clip(truePF.Div(p.targetPF), decimal.NewFromFloat(1.5))
	return profitabilityScore.Mul(pfScore)
}

// winPercentage returns the percentage (0-100) of strictly positive
// returns in the series.
func winPercentage(returns []decimal.Decimal) decimal.Decimal {
	if len(returns) == 0 {
		return decimal.Zero
	}
	wins := 0
	for _, r := range returns {
		if r.IsPositive() {
			wins++
		}
	}
	return decimal.NewFromInt(int64(wins)).Div(decimal.NewFromInt(int64(len(returns)))).Mul(decimal.NewFromInt(100))
}

// expectedProfitability returns targetPF/(targetPF+payoffRatio)*100, the
// break-even win percentage a strategy with the given payoff ratio needs
// to reach the target profit factor.
func expectedProfitability(targetPF, payoffRatio decimal.Decimal) decimal.Decimal {
	denom := targetPF.Add(payoffRatio)
	if denom.IsZero() {
		return decimal.Zero
	}
	return targetPF.Div(denom).Mul(decimal.NewFromInt(100))
}
