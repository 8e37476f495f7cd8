// Package backtester declares the Backtester interface the statistic
// policies and the permutation-validation driver consume, plus a minimal
// deterministic Double implementing it for tests and for the CLI's
// synthetic-data mode. The production event-loop backtester that walks
// real historical bars is an external collaborator outside this module's
// scope; Double exists purely to exercise the statistics/correction
// engines without one.
package backtester

import "github.com/shopspring/decimal"

// Backtester is the read-only surface the statistics and correction
// engines need from a completed backtest run.
type Backtester interface {
	NumTrades() uint32
	AllHighResReturns() []decimal.Decimal
	Clone() Backtester
	IsDailyBacktester() bool
	IsIntradayBacktester() bool
}

// Double is a minimal Backtester backed by a fixed return series, used in
// tests and in the CLI's synthetic-data mode. It is never the production
// backtester.
type Double struct {
	returns []decimal.Decimal
	daily   bool
}

// NewDouble builds a Double over a fixed high-resolution return series.
// daily selects whether IsDailyBacktester or IsIntradayBacktester reports
// true.
func NewDouble(returns []decimal.Decimal, daily bool) *Double {
	return &Double{returns: returns, daily: daily}
}

// NumTrades returns the number of returns in the series, treating each
// entry as one trade.
func (d *Double) NumTrades() uint32 { return uint32(len(d.returns)) }

// AllHighResReturns returns the full return series.
func (d *Double) AllHighResReturns() []decimal.Decimal { return d.returns }

// Clone returns an independent copy: the underlying slice is copied so the
// clone may be mutated or resampled without affecting the original.
func (d *Double) Clone() Backtester {
	cp := make([]decimal.Decimal, len(d.returns))
	copy(cp, d.returns)
	return &Double{returns: cp, daily: d.daily}
}

// IsDailyBacktester reports whether this double represents daily bars.
func (d *Double) IsDailyBacktester() bool { return d.daily }

// IsIntradayBacktester reports whether this double represents intraday bars.
func (d *Double) IsIntradayBacktester() bool { return !d.daily }
