package pattern

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/palvalidator/core/internal/pal/ast"
)

// PortfolioAttribute narrows which side of a portfolio a pattern is
// eligible to trade in, independent of its own entry direction.
type PortfolioAttribute uint8

const (
	PortfolioNone PortfolioAttribute = iota
	PortfolioLong
	PortfolioShort
)

// Description carries the bookkeeping fields a pattern accumulates as it
// moves through discovery: where it came from, how it performed in the
// search that found it, and when.
type Description struct {
	SourceFile        string
	PatternIndex      int
	IndexDate         time.Time
	LongPercentage    decimal.Decimal
	ShortPercentage   decimal.Decimal
	TradeCount        int
	ConsecutiveLosses int
}

// PriceActionLabPattern is the fully-dressed, executable form of a
// discovered pattern: an AST expression plus the entry/target/stop leaves
// and descriptive metadata a backtester and the validation pipeline need.
// Instances are built once by the parser or the universe generator and
// never mutated afterward; they may be shared by many concurrent
// validation runs.
type PriceActionLabPattern struct {
	Description Description
	Expression  ast.Expression
	Entry       *ast.MarketEntryExpression
	ProfitTgt   *ast.ProfitTargetInPercentExpression
	StopLoss    *ast.StopLossInPercentExpression
	Volatility  ast.Volatility
	Portfolio   PortfolioAttribute
}

// New assembles a PriceActionLabPattern from its parts.
func New(
	desc Description,
	expr ast.Expression,
	entry *ast.MarketEntryExpression,
	profitTgt *ast.ProfitTargetInPercentExpression,
	stopLoss *ast.StopLossInPercentExpression,
	volatility ast.Volatility,
	portfolio PortfolioAttribute,
) *PriceActionLabPattern {
	return &PriceActionLabPattern{
		Description: desc,
		Expression:  expr,
		Entry:       entry,
		ProfitTgt:   profitTgt,
		StopLoss:    stopLoss,
		Volatility:  volatility,
		Portfolio:   portfolio,
	}
}

// PayoffRatio returns profit target divided by stop loss. Both are stored
// as positive percentages regardless of side, so the ratio is always
// non-negative.
func (p *PriceActionLabPattern) PayoffRatio() decimal.Decimal {
	if p.StopLoss.Value().IsZero() {
		return decimal.Zero
	}
	return p.ProfitTgt.Value().Div(p.StopLoss.Value())
}

// MaxBarsBack returns the longest historical lookback this pattern's
// condition tree requires.
func (p *PriceActionLabPattern) MaxBarsBack() (uint8, error) {
	return ast.MaxBarsBack(p.Expression)
}

// Side reports the pattern's trade direction, inferred from its entry leaf.
func (p *PriceActionLabPattern) Side() ast.Side {
	return p.Entry.Side()
}
