// Package numeric provides the fixed-precision decimal layer shared by every
// other package in this module. Prices, returns, and test statistics all
// flow through decimal.Decimal rather than float64 so that a CSV price
// string round-trips exactly regardless of locale.
package numeric

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError reports a parameter that violated a documented precondition.
// Validation failures are fail-fast: there is no partial state to recover.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("numeric: invalid %s: %s", e.Field, e.Reason)
}

// FromString constructs a Decimal from its canonical textual form. Unlike
// float parsing, this never drifts: "1.23" always yields exactly 1.23
// regardless of the host's locale or FPU rounding mode.
func FromString(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "decimal string", Reason: err.Error()}
	}
	return d, nil
}

// FromInt constructs a Decimal from an integer value.
func FromInt(i int64) decimal.Decimal {
	return decimal.NewFromInt(i)
}

// ToFloat64 converts a Decimal to its nearest IEEE double. Used only at the
// boundary where a statistics routine needs a float64 (e.g. the normal
// quantile function); internal accumulation stays in Decimal.
func ToFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// PercentOf returns part/whole as a fraction (0.25, not 25). Returns zero
// when whole is zero rather than panicking, since percent-of-zero is a
// well-defined degenerate case throughout the reporting layer.
func PercentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole)
}

// ToFloatSlice converts a decimal slice to float64 for consumption by
// github.com/montanaflynn/stats, which operates on []float64.
func ToFloatSlice(ds []decimal.Decimal) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = ToFloat64(d)
	}
	return out
}

// FromFloatSlice is the inverse of ToFloatSlice, used to bring a stats
// result back into the Decimal domain.
func FromFloatSlice(fs []float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(fs))
	for i, f := range fs {
		out[i] = decimal.NewFromFloat(f)
	}
	return out
}
