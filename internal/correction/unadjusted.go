package correction

import "github.com/shopspring/decimal"

// UnadjustedPValueStrategySelection applies no multiple-testing correction
// at all: a strategy survives if its raw empirical p-value is below the
// significance threshold. Unlike the stepdown corrections, it never
// errors on an empty strategy set, it simply yields zero survivors.
type UnadjustedPValueStrategySelection[S any] struct {
	base[S]
}

func NewUnadjustedPValueStrategySelection[S any]() *UnadjustedPValueStrategySelection[S] {
	return &UnadjustedPValueStrategySelection[S]{base: newBase[S]()}
}

func (c *UnadjustedPValueStrategySelection[S]) CorrectForMultipleTests() error {
	if len(c.entries) == 0 {
		c.survivors = nil
		c.corrected = true
		return nil
	}

	raw := c.rawPValues()
	order := make([]int, len(raw))
	for i := range order {
		order[i] = i
	}

	adjusted := make([]decimal.Decimal, len(raw))
	copy(adjusted, raw)

	c.finalize(adjusted, order)
	return nil
}
