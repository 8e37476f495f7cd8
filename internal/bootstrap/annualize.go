package bootstrap

import (
	"math"

	"github.com/shopspring/decimal"
)

// Annualize converts a per-period BCa result into an annualized one via
// (1+theta)^f - 1, applied identically to the point estimate and both
// bounds. Ordering between the bounds is preserved because (1+x)^f is
// strictly increasing in x for x > -1 and f > 0.
func Annualize(result BCaBootStrap, periodsPerYear float64) BCaBootStrap {
	return BCaBootStrap{
		pointEstimate: annualizeOne(result.pointEstimate, periodsPerYear),
		lowerBound:    annualizeOne(result.lowerBound, periodsPerYear),
		upperBound:    annualizeOne(result.upperBound, periodsPerYear),
	}
}

func annualizeOne(theta decimal.Decimal, f float64) decimal.Decimal {
	base, _ := theta.Float64()
	annualized := math.Pow(1+base, f) - 1
	return decimal.NewFromFloat(annualized)
}
