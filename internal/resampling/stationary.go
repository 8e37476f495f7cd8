package resampling

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

// StationaryBlockResampler implements the Politis-Romano stationary (block)
// bootstrap over a decimal return series. Blocks have geometric(1/L)
// length with circular wraparound, preserving short-range dependence
// (volatility clustering) that an IID resampler would destroy, while still
// producing a stationary output distribution.
type StationaryBlockResampler struct {
	meanBlockLength int
}

// NewStationaryBlockResampler builds a resampler with the given mean block
// length L (L >= 1).
func NewStationaryBlockResampler(meanBlockLength int) *StationaryBlockResampler {
	if meanBlockLength < 1 {
		meanBlockLength = 1
	}
	return &StationaryBlockResampler{meanBlockLength: meanBlockLength}
}

// Sample produces len(src) stationary-bootstrap draws from src.
func (r *StationaryBlockResampler) Sample(src []decimal.Decimal, rng *rand.Rand) []decimal.Decimal {
	dst := make([]decimal.Decimal, len(src))
	r.Fill(src, dst, len(src), rng)
	return dst
}

// Fill produces n stationary-bootstrap draws from src into dst, growing
// dst if needed. A fresh uniform start is chosen initially and, after each
// emission, with probability 1/L; otherwise the cursor advances by one
// position modulo len(src).
func (r *StationaryBlockResampler) Fill(src []decimal.Decimal, dst []decimal.Decimal, n int, rng *rand.Rand) []decimal.Decimal {
	if cap(dst) < n {
		dst = make([]decimal.Decimal, n)
	} else {
		dst = dst[:n]
	}

	m := len(src)
	if m == 0 {
		return dst
	}

	s := rng.Intn(m)
	restartProb := 1.0 / float64(r.meanBlockLength)

	for i := 0; i < n; i++ {
		dst[i] = src[s]
		if rng.Float64() < restartProb {
			s = rng.Intn(m)
		} else {
			s = (s + 1) % m
		}
	}
	return dst
}
