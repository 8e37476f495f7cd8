package policy

import (
	"math"

	"github.com/shopspring/decimal"
)

// logOnePlus returns log(1+r) as a Decimal, converting through float64
// since the statistics library has no native decimal logarithm.
func logOnePlus(r decimal.Decimal) decimal.Decimal {
	f, _ := r.Float64()
	return decimal.NewFromFloat(math.Log(1 + f))
}

// clip bounds x to at most ceiling.
func clip(x, ceiling decimal.Decimal) decimal.Decimal {
	if x.GreaterThan(ceiling) {
		return ceiling
	}
	return x
}
