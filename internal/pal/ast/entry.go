package ast

import "github.com/shopspring/decimal"

// Side distinguishes the long and short variants of market-entry,
// profit-target, and stop-loss expressions.
type Side uint8

const (
	Long Side = iota
	Short
)

func (s Side) String() string {
	if s == Short {
		return "SHORT"
	}
	return "LONG"
}

// MarketEntryExpression denotes entering the market on the open, long or
// short. The two instances are singletons interned by the AstFactory.
type MarketEntryExpression struct {
	side Side
	hash uint64
}

// NewMarketEntryExpression builds a market-entry node for the given side.
func NewMarketEntryExpression(side Side) *MarketEntryExpression {
	tag := uint64(0x4d4b5452) // "MKTR"
	h := (uint64(14695981039346656037) ^ uint64(side)) * 1099511628211
	h = (h ^ tag) * 1099511628211
	return &MarketEntryExpression{side: side, hash: h}
}

func (m *MarketEntryExpression) Side() Side   { return m.side }
func (m *MarketEntryExpression) Hash() uint64 { return m.hash }

// ProfitTargetInPercentExpression carries the long/short profit-target
// percentage as a single decimal leaf.
type ProfitTargetInPercentExpression struct {
	side  Side
	value decimal.Decimal
	hash  uint64
}

// NewProfitTarget builds a profit-target node.
func NewProfitTarget(side Side, value decimal.Decimal) *ProfitTargetInPercentExpression {
	return &ProfitTargetInPercentExpression{side: side, value: value, hash: hashSidedDecimal(0x50524f46, side, value)}
}

func (p *ProfitTargetInPercentExpression) Side() Side              { return p.side }
func (p *ProfitTargetInPercentExpression) Value() decimal.Decimal  { return p.value }
func (p *ProfitTargetInPercentExpression) Hash() uint64            { return p.hash }

// StopLossInPercentExpression carries the long/short stop-loss percentage
// as a single decimal leaf.
type StopLossInPercentExpression struct {
	side  Side
	value decimal.Decimal
	hash  uint64
}

// NewStopLoss builds a stop-loss node.
func NewStopLoss(side Side, value decimal.Decimal) *StopLossInPercentExpression {
	return &StopLossInPercentExpression{side: side, value: value, hash: hashSidedDecimal(0x53544f50, side, value)}
}

func (s *StopLossInPercentExpression) Side() Side             { return s.side }
func (s *StopLossInPercentExpression) Value() decimal.Decimal { return s.value }
func (s *StopLossInPercentExpression) Hash() uint64           { return s.hash }

func hashSidedDecimal(tag uint32, side Side, value decimal.Decimal) uint64 {
	h := uint64(14695981039346656037)
	for _, b := range []byte(value.String()) {
		h = (h ^ uint64(b)) * 1099511628211
	}
	h = (h ^ uint64(side)) * 1099511628211
	h = (h ^ uint64(tag)) * 1099511628211
	return h
}
