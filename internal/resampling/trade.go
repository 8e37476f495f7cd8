// Package resampling implements the bootstrap's sampling primitives: a
// generic IID resampler, the Politis-Romano stationary block resampler for
// decimal return series, a trade type treating one closed trade's daily
// returns as the atomic resampling unit, and an adapter letting a
// flat-vector statistic run on a slice of Trades. Grounded on
// TradeResampling.h and the stationary-bootstrap description inside
// BoundedDrawdowns.h.
package resampling

import "github.com/shopspring/decimal"

// Trade is one closed trade's mark-to-market daily returns. Trades are the
// atomic resampling unit in every trade-level bootstrap: within-trade
// dependence is preserved because a sampled Trade always carries its full
// sequence of daily returns together.
type Trade struct {
	dailyReturns []decimal.Decimal
}

// NewTrade wraps a sequence of daily returns as a Trade.
func NewTrade(dailyReturns []decimal.Decimal) Trade {
	return Trade{dailyReturns: dailyReturns}
}

// DailyReturns returns the trade's underlying per-bar returns.
func (t Trade) DailyReturns() []decimal.Decimal { return t.dailyReturns }

// Duration returns the number of bars the trade spans.
func (t Trade) Duration() int { return len(t.dailyReturns) }

// Equal reports whether two trades carry identical return sequences,
// needed by the bootstrap's degenerate-distribution checks.
func (t Trade) Equal(other Trade) bool {
	if len(t.dailyReturns) != len(other.dailyReturns) {
		return false
	}
	for i, r := range t.dailyReturns {
		if !r.Equal(other.dailyReturns[i]) {
			return false
		}
	}
	return true
}

// TradeFlatteningAdapter adapts a flat-vector statistic so it can be
// applied to a slice of Trades: sampled trades are concatenated into one
// flat return vector before the wrapped statistic runs.
type TradeFlatteningAdapter struct {
	flatStat func([]decimal.Decimal) decimal.Decimal
}

// NewTradeFlatteningAdapter wraps flatStat for use on []Trade samples.
func NewTradeFlatteningAdapter(flatStat func([]decimal.Decimal) decimal.Decimal) *TradeFlatteningAdapter {
	return &TradeFlatteningAdapter{flatStat: flatStat}
}

// Apply concatenates every sampled trade's daily returns and evaluates the
// wrapped statistic on the flattened vector.
func (a *TradeFlatteningAdapter) Apply(trades []Trade) decimal.Decimal {
	flat := make([]decimal.Decimal, 0, len(trades)*3)
	for _, trade := range trades {
		flat = append(flat, trade.dailyReturns...)
	}
	return a.flatStat(flat)
}
