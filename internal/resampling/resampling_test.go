package resampling

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func decimalsFromInts(xs ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(xs))
	for i, x := range xs {
		out[i] = decimal.NewFromInt(x)
	}
	return out
}

func TestIIDResamplerDrawsFromSource(t *testing.T) {
	src := decimalsFromInts(1, 2, 3, 4, 5)
	rng := rand.New(rand.NewSource(1))
	r := NewIIDResampler[decimal.Decimal]()

	dst := r.Resample(src, nil, 10, rng)
	if len(dst) != 10 {
		t.Fatalf("expected 10 draws, got %d", len(dst))
	}

	valid := make(map[string]bool)
	for _, v := range src {
		valid[v.String()] = true
	}
	for _, v := range dst {
		if !valid[v.String()] {
			t.Errorf("draw %s not present in source", v.String())
		}
	}
}

func TestIIDResamplerJackknifeLeavesOneOut(t *testing.T) {
	src := decimalsFromInts(1, 2, 3)
	r := NewIIDResampler[decimal.Decimal]()
	leaveOuts := r.Jackknife(src)

	if len(leaveOuts) != 3 {
		t.Fatalf("expected 3 leave-one-out samples, got %d", len(leaveOuts))
	}
	for i, sample := range leaveOuts {
		if len(sample) != 2 {
			t.Errorf("sample %d: expected length 2, got %d", i, len(sample))
		}
	}
}

func TestStationaryBlockResamplerProducesRequestedLength(t *testing.T) {
	src := decimalsFromInts(1, 2, 3, 4, 5, 6, 7, 8)
	rng := rand.New(rand.NewSource(7))
	r := NewStationaryBlockResampler(3)

	out := r.Sample(src, rng)
	if len(out) != len(src) {
		t.Fatalf("expected %d draws, got %d", len(src), len(out))
	}
}

func TestStationaryBlockResamplerOnlyEmitsSourceValues(t *testing.T) {
	src := decimalsFromInts(10, 20, 30)
	rng := rand.New(rand.NewSource(42))
	r := NewStationaryBlockResampler(2)

	valid := make(map[string]bool)
	for _, v := range src {
		valid[v.String()] = true
	}

	out := r.Fill(src, nil, 100, rng)
	for _, v := range out {
		if !valid[v.String()] {
			t.Errorf("draw %s not present in source", v.String())
		}
	}
}

func TestTradeFlatteningAdapterConcatenatesReturns(t *testing.T) {
	t1 := NewTrade(decimalsFromInts(1, 2))
	t2 := NewTrade(decimalsFromInts(3))

	var seenLen int
	adapter := NewTradeFlatteningAdapter(func(flat []decimal.Decimal) decimal.Decimal {
		seenLen = len(flat)
		return decimal.Zero
	})

	adapter.Apply([]Trade{t1, t2})
	if seenLen != 3 {
		t.Errorf("expected flattened length 3, got %d", seenLen)
	}
}

func TestTradeEqual(t *testing.T) {
	a := NewTrade(decimalsFromInts(1, 2))
	b := NewTrade(decimalsFromInts(1, 2))
	c := NewTrade(decimalsFromInts(1, 3))

	if !a.Equal(b) {
		t.Error("expected identical return sequences to be equal")
	}
	if a.Equal(c) {
		t.Error("expected differing return sequences to be unequal")
	}
}
