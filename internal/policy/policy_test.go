package policy

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/palvalidator/core/internal/backtester"
	"github.com/palvalidator/core/internal/executor"
)

func sampleReturns() []decimal.Decimal {
	raw := []float64{
		0.02, -0.01, 0.015, 0.03, -0.02, 0.01, -0.005, 0.025, -0.015, 0.02,
		0.01, -0.01, 0.02, 0.015, -0.02, 0.03, 0.01, -0.005, 0.02, -0.01,
		0.015, 0.02, -0.01, 0.025, 0.01, -0.02, 0.03, 0.01, -0.005, 0.02,
	}
	out := make([]decimal.Decimal, len(raw))
	for i, f := range raw {
		out[i] = decimal.NewFromFloat(f)
	}
	return out
}

func sampleConfig() Config {
	return Config{
		NumResamples:    200,
		ConfidenceLevel: 0.90,
		Exec:            executor.NewSingleThreadExecutor(),
		RNGSeed:         11,
	}
}

func TestBootStrappedProfitFactorBelowThresholdReturnsFailure(t *testing.T) {
	p := NewBootStrappedProfitFactor(sampleConfig())
	bt := backtester.NewDouble([]decimal.Decimal{decimal.NewFromFloat(0.01)}, true)

	got := p.GetPermutationTestStatistic(bt)
	if !got.Equal(p.FailureStatistic()) {
		t.Errorf("expected failure statistic for too-short series, got %s", got)
	}
}

func TestBootStrappedProfitFactorConservativeLowerBound(t *testing.T) {
	p := NewBootStrappedProfitFactor(sampleConfig())
	returns := sampleReturns()
	bt := backtester.NewDouble(returns, true)

	inSample := profitFactor(returns)
	got := p.GetPermutationTestStatistic(bt)

	if got.GreaterThan(inSample) {
		t.Errorf("expected BCa lower bound %s to be <= in-sample profit factor %s", got, inSample)
	}
}

func TestBootStrappedSharpeRatioConservativeLowerBound(t *testing.T) {
	p := NewBootStrappedSharpeRatio(sampleConfig())
	returns := sampleReturns()
	bt := backtester.NewDouble(returns, true)

	inSample := sharpeRatio(returns)
	got := p.GetPermutationTestStatistic(bt)

	if got.GreaterThan(inSample) {
		t.Errorf("expected BCa lower bound %s to be <= in-sample sharpe %s", got, inSample)
	}
}

func TestBootStrappedProfitabilityPFClipsComponents(t *testing.T) {
	cfg := sampleConfig()
	targetPF := decimal.NewFromFloat(2.0)
	payoffRatio := decimal.NewFromFloat(2.0)
	p := NewBootStrappedProfitabilityPF(cfg, targetPF, payoffRatio)

	returns := sampleReturns()
	bt := backtester.NewDouble(returns, true)

	got := p.GetPermutationTestStatistic(bt)
	// Both clip ceilings are 1 and 1.5, so the product can never exceed 1.5.
	if got.GreaterThan(decimal.NewFromFloat(1.5)) {
		t.Errorf("expected composite score to respect clip ceilings, got %s", got)
	}
}

func TestExpectedProfitabilityFormula(t *testing.T) {
	targetPF := decimal.NewFromFloat(2.0)
	payoffRatio := decimal.NewFromFloat(2.0)
	got := expectedProfitability(targetPF, payoffRatio)
	want := decimal.NewFromFloat(50.0) // 2/(2+2)*100
	if !got.Equal(want) {
		t.Errorf("expected 50, got %s", got)
	}
}

func TestWinPercentage(t *testing.T) {
	returns := []decimal.Decimal{
		decimal.NewFromFloat(0.01),
		decimal.NewFromFloat(-0.01),
		decimal.NewFromFloat(0.02),
		decimal.NewFromFloat(0.0),
	}
	got := winPercentage(returns)
	want := decimal.NewFromFloat(50.0)
	if !got.Equal(want) {
		t.Errorf("expected 50, got %s", got)
	}
}
