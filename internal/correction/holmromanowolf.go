package correction

import (
	"sort"

	"github.com/shopspring/decimal"
)

// HolmRomanoWolfCorrection applies the Holm step-down adjustment to the
// raw empirical p-values of every added strategy:
//
//	p_(i)^adj = max over k<=i of min(1, (m-k+1) * p_(k))
//
// where strategies are ranked by ascending raw p-value. This is the
// 2-tuple {AdjustedP, TestStat} shape: it needs only the raw statistic
// and the shared null, not a separately tracked baseline/max-permuted
// pair.
type HolmRomanoWolfCorrection[S any] struct {
	base[S]
}

func NewHolmRomanoWolfCorrection[S any]() *HolmRomanoWolfCorrection[S] {
	b := newBase[S]()
	return &HolmRomanoWolfCorrection[S]{base: b}
}

func (c *HolmRomanoWolfCorrection[S]) CorrectForMultipleTests() error {
	if err := c.requireNonEmpty(); err != nil {
		return err
	}

	raw := c.rawPValues()
	m := len(raw)

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return raw[order[i]].LessThan(raw[order[j]]) })

	adjusted := make([]decimal.Decimal, m)
	running := decimal.Zero
	for rank, idx := range order {
		multiplier := decimal.NewFromInt(int64(m - rank))
		candidate := raw[idx].Mul(multiplier)
		if candidate.GreaterThan(decimal.NewFromInt(1)) {
			candidate = decimal.NewFromInt(1)
		}
		if rank == 0 || candidate.GreaterThan(running) {
			running = candidate
		}
		adjusted[rank] = running
	}

	c.finalize(adjusted, order)
	return nil
}
