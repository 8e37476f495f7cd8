package bootstrap

import (
	"math"
	"math/rand"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/palvalidator/core/internal/executor"
	"github.com/palvalidator/core/internal/numeric"
)

// Sampler generates one bootstrap replicate of len(src) draws from src.
// Satisfied by resampling.IIDResampler[decimal.Decimal] and
// resampling.StationaryBlockResampler.
type Sampler interface {
	Sample(src []decimal.Decimal, rng *rand.Rand) []decimal.Decimal
}

// StatFn computes a scalar statistic from a sample of returns.
type StatFn func(sample []decimal.Decimal) decimal.Decimal

// BCaBootStrap computes a bias-corrected and accelerated confidence
// interval for an arbitrary statistic over a decimal return series.
type BCaBootStrap struct {
	pointEstimate decimal.Decimal
	lowerBound    decimal.Decimal
	upperBound    decimal.Decimal
}

// Run executes the full BCa procedure: point estimate, B bootstrap
// replicates (optionally fanned out across exec), bias correction z0,
// jackknife acceleration a, and the two accelerated percentiles selected
// according to intervalType.
//
// A constant input (all elements equal), or a replicate distribution that
// collapses to a single value, yields lowerBound == upperBound == the
// point estimate: the procedure never returns non-finite bounds.
func Run(
	x []decimal.Decimal,
	numResamples int,
	confidenceLevel float64,
	stat StatFn,
	sampler Sampler,
	intervalType IntervalType,
	exec executor.Executor,
	rngSeed int64,
) BCaBootStrap {
	pointEstimate := stat(x)

	replicates := make([]decimal.Decimal, numResamples)
	executor.ParallelFor(numResamples, exec, func(b int) {
		rng := rand.New(rand.NewSource(rngSeed + int64(b) + 1))
		sample := sampler.Sample(x, rng)
		replicates[b] = stat(sample)
	})

	if allEqual(replicates) {
		return BCaBootStrap{pointEstimate: pointEstimate, lowerBound: pointEstimate, upperBound: pointEstimate}
	}

	countBelow := 0
	for _, r := range replicates {
		if r.LessThan(pointEstimate) {
			countBelow++
		}
	}
	z0 := numeric.NormalQuantile(float64(countBelow) / float64(numResamples))

	a := acceleration(x, stat)

	alpha := 1 - confidenceLevel
	pLower, pUpper := intervalType.Bounds(alpha)

	lowerPercentile := accelerate(z0, a, pLower)
	upperPercentile := accelerate(z0, a, pUpper)

	sorted := make([]decimal.Decimal, len(replicates))
	copy(sorted, replicates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	lower := percentileOf(sorted, lowerPercentile)
	upper := percentileOf(sorted, upperPercentile)

	return BCaBootStrap{pointEstimate: pointEstimate, lowerBound: lower, upperBound: upper}
}

// Statistic returns the point estimate theta-hat.
func (b BCaBootStrap) Statistic() decimal.Decimal { return b.pointEstimate }

// LowerBound returns the interval's lower bound.
func (b BCaBootStrap) LowerBound() decimal.Decimal { return b.lowerBound }

// UpperBound returns the interval's upper bound.
func (b BCaBootStrap) UpperBound() decimal.Decimal { return b.upperBound }

// accelerate computes the bias-and-acceleration-adjusted percentile for a
// nominal percentile p, per the BCa transform:
//
//	alpha' = Phi(z0 + (z0 + Phi^-1(p)) / (1 - a*(z0 + Phi^-1(p))))
func accelerate(z0, a, p float64) float64 {
	zp := numeric.NormalQuantile(p)
	num := z0 + zp
	denom := 1 - a*num
	if denom == 0 {
		denom = 1e-12
	}
	return numeric.NormalCDF(z0 + num/denom)
}

// acceleration estimates the BCa acceleration constant from the jackknife
// (leave-one-out) replicates of x.
func acceleration(x []decimal.Decimal, stat StatFn) float64 {
	n := len(x)
	if n < 2 {
		return 0
	}

	thetas := make([]float64, n)
	for i := 0; i < n; i++ {
		leaveOut := make([]decimal.Decimal, 0, n-1)
		leaveOut = append(leaveOut, x[:i]...)
		leaveOut = append(leaveOut, x[i+1:]...)
		thetas[i] = numeric.ToFloat64(stat(leaveOut))
	}

	mean := 0.0
	for _, t := range thetas {
		mean += t
	}
	mean /= float64(n)

	var num, denom float64
	for _, t := range thetas {
		d := mean - t
		num += d * d * d
		denom += d * d
	}
	if denom == 0 {
		return 0
	}
	denomPow := denom * denom * denom // denom^3, so sqrt(denomPow) == denom^(3/2)
	root := math.Sqrt(denomPow)
	if root == 0 {
		return 0
	}
	return num / (6 * root)
}

// percentileOf selects the BCa percentile index out of an already-sorted
// replicate distribution, following the unbiasedIndex convention: idx =
// floor(p*(B+1)) - 1, clamped to [0, B-1].
func percentileOf(sorted []decimal.Decimal, p float64) decimal.Decimal {
	b := len(sorted)
	idx := unbiasedIndex(p, b)
	return sorted[idx]
}

// unbiasedIndex matches BoundedDrawdowns.h's percentile-selection helper.
func unbiasedIndex(p float64, b int) int {
	idx := int(math.Floor(p*(float64(b)+1.0))) - 1
	if idx < 0 {
		idx = 0
	}
	maxIdx := b - 1
	if idx > maxIdx {
		idx = maxIdx
	}
	return idx
}

func allEqual(xs []decimal.Decimal) bool {
	if len(xs) == 0 {
		return true
	}
	first := xs[0]
	for _, x := range xs[1:] {
		if !x.Equal(first) {
			return false
		}
	}
	return true
}
