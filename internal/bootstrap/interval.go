// Package bootstrap implements the BCa (bias-corrected and accelerated)
// bootstrap confidence interval, its annualization transform, and the
// bounded-drawdown Monte Carlo estimators built on top of it. Grounded on
// BootstrapTypes.h and BoundedDrawdowns.h from the statistics library.
package bootstrap

// IntervalType selects which tail(s) of a bootstrap distribution a
// confidence interval actually bounds. The "unused" side of a one-sided
// interval is pushed out to a 1000:1 asymmetry against alpha rather than
// to a literal 0 or 1 percentile, so it stays numerically well-defined
// without ever being reported as meaningful.
type IntervalType uint8

const (
	TwoSided IntervalType = iota
	OneSidedLower
	OneSidedUpper
)

// Bounds returns the (lowerPercentile, upperPercentile) pair to draw from
// the bootstrap replicate distribution for a given alpha (1 - confidence
// level) under this interval type.
func (it IntervalType) Bounds(alpha float64) (lower, upper float64) {
	switch it {
	case OneSidedLower:
		return alpha, 1 - alpha/1000
	case OneSidedUpper:
		return alpha / 1000, 1 - alpha
	default:
		return alpha / 2, 1 - alpha/2
	}
}
