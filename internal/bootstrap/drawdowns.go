package bootstrap

import (
	"math/rand"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/palvalidator/core/internal/executor"
	"github.com/palvalidator/core/internal/numeric"
	"github.com/palvalidator/core/internal/resampling"
)

// DrawdownResult carries a fractile point estimate alongside its BCa
// confidence bounds, all expressed as non-negative drawdown magnitudes.
type DrawdownResult struct {
	Statistic  decimal.Decimal
	LowerBound decimal.Decimal
	UpperBound decimal.Decimal
}

// MaxDrawdown returns the maximum peak-to-trough drawdown magnitude of the
// equity curve formed by compounding returns multiplicatively. Empty input
// yields zero.
func MaxDrawdown(returns []decimal.Decimal) decimal.Decimal {
	if len(returns) == 0 {
		return decimal.Zero
	}

	maxDD := decimal.Zero
	peak := decimal.NewFromInt(1)
	equity := decimal.NewFromInt(1)

	for _, r := range returns {
		equity = equity.Mul(decimal.NewFromInt(1).Add(r))
		if equity.GreaterThan(peak) {
			peak = equity
		} else {
			dd := peak.Sub(equity).Div(peak)
			if dd.GreaterThan(maxDD) {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// DrawdownFractile Monte-Carlo estimates the p-fractile of max drawdown
// magnitude by drawing nReps synthetic nTrades-long IID paths from returns.
func DrawdownFractile(returns []decimal.Decimal, nTrades, nReps int, p float64, exec executor.Executor, rngSeed int64) (decimal.Decimal, error) {
	if err := validateFractileArgs(returns, nTrades, nReps, p); err != nil {
		return decimal.Zero, err
	}

	samples := make([]decimal.Decimal, nReps)
	m := len(returns)
	executor.ParallelFor(nReps, exec, func(rep int) {
		rng := rand.New(rand.NewSource(rngSeed + int64(rep) + 1))
		path := make([]decimal.Decimal, nTrades)
		for i := 0; i < nTrades; i++ {
			path[i] = returns[rng.Intn(m)]
		}
		samples[rep] = MaxDrawdown(path)
	})

	return selectFractile(samples, p), nil
}

// DrawdownFractileStationary is DrawdownFractile using Politis-Romano
// stationary block sampling to preserve volatility clustering, falling
// back to IID sampling when the input or path is too short to block.
func DrawdownFractileStationary(returns []decimal.Decimal, nTrades, nReps int, p float64, meanBlockLength int, exec executor.Executor, rngSeed int64) (decimal.Decimal, error) {
	if err := validateFractileArgs(returns, nTrades, nReps, p); err != nil {
		return decimal.Zero, err
	}
	if meanBlockLength < 1 {
		return decimal.Zero, &numeric.ValidationError{Field: "meanBlockLength", Reason: "must be >= 1"}
	}

	if len(returns) < 2 || nTrades < 2 {
		return DrawdownFractile(returns, nTrades, nReps, p, exec, rngSeed)
	}

	samples := make([]decimal.Decimal, nReps)
	sampler := resampling.NewStationaryBlockResampler(meanBlockLength)
	executor.ParallelFor(nReps, exec, func(rep int) {
		rng := rand.New(rand.NewSource(rngSeed + int64(rep) + 1))
		path := sampler.Fill(returns, nil, nTrades, rng)
		samples[rep] = MaxDrawdown(path)
	})

	return selectFractile(samples, p), nil
}

// BCaBoundsForDrawdownFractile wraps a BCa confidence interval around
// DrawdownFractileStationary, using the same stationary sampler both
// outside (for the bootstrap replicates of the input) and inside (for the
// synthetic-path simulation) so the series' dependence structure is
// respected throughout.
func BCaBoundsForDrawdownFractile(
	returns []decimal.Decimal,
	numResamples int,
	confidenceLevel float64,
	nTrades, nReps int,
	ddConf float64,
	meanBlockLength int,
	intervalType IntervalType,
	exec executor.Executor,
	rngSeed int64,
) (DrawdownResult, error) {
	if err := validateFractileArgs(returns, nTrades, nReps, ddConf); err != nil {
		return DrawdownResult{}, err
	}

	statFn := func(sample []decimal.Decimal) decimal.Decimal {
		v, err := DrawdownFractileStationary(sample, nTrades, nReps, ddConf, meanBlockLength, exec, rngSeed)
		if err != nil {
			return decimal.Zero
		}
		return v
	}

	sampler := resampling.NewStationaryBlockResampler(meanBlockLength)
	result := Run(returns, numResamples, confidenceLevel, statFn, sampler, intervalType, exec, rngSeed)

	return DrawdownResult{
		Statistic:  result.Statistic(),
		LowerBound: result.LowerBound(),
		UpperBound: result.UpperBound(),
	}, nil
}

func validateFractileArgs(returns []decimal.Decimal, nTrades, nReps int, p float64) error {
	if len(returns) == 0 {
		return &numeric.ValidationError{Field: "returns", Reason: "must be non-empty"}
	}
	if nTrades <= 0 {
		return &numeric.ValidationError{Field: "nTrades", Reason: "must be positive"}
	}
	if nReps <= 0 {
		return &numeric.ValidationError{Field: "nReps", Reason: "must be positive"}
	}
	if p < 0 || p > 1 {
		return &numeric.ValidationError{Field: "p", Reason: "must be in [0,1]"}
	}
	return nil
}

// selectFractile sorts a copy of samples and returns the element at the
// BCa package's unbiasedIndex for p, so both estimators share one
// percentile-selection convention after the Monte Carlo loop.
func selectFractile(samples []decimal.Decimal, p float64) decimal.Decimal {
	sorted := make([]decimal.Decimal, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	idx := unbiasedIndex(p, len(sorted))
	return sorted[idx]
}
