package correction

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RomanoWolfStepdownCorrection applies the full Romano-Wolf stepdown: rank
// strategies by their in-sample baseline statistic descending, then walk
// down the ranking enforcing that each adjusted p-value is never smaller
// than the one above it. This is the 3-tuple
// {AdjustedP, MaxPermutedStat, BaselineStat} shape in spec.md §4.F; the
// core accepts one shared synthetic null per correction run rather than a
// distinct per-step family-max null, so AddStrategy's test statistic
// doubles as the baseline ranking key.
type RomanoWolfStepdownCorrection[S any] struct {
	base[S]
}

func NewRomanoWolfStepdownCorrection[S any]() *RomanoWolfStepdownCorrection[S] {
	return &RomanoWolfStepdownCorrection[S]{base: newBase[S]()}
}

func (c *RomanoWolfStepdownCorrection[S]) CorrectForMultipleTests() error {
	if err := c.requireNonEmpty(); err != nil {
		return err
	}

	raw := c.rawPValues()
	m := len(raw)

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return c.entries[order[i]].testStat.GreaterThan(c.entries[order[j]].testStat)
	})

	adjusted := make([]decimal.Decimal, m)
	running := decimal.Zero
	for rank, idx := range order {
		if rank == 0 || raw[idx].GreaterThan(running) {
			running = raw[idx]
		}
		adjusted[rank] = running
	}

	c.finalize(adjusted, order)
	return nil
}
