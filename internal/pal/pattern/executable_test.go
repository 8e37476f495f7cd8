package pattern

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/palvalidator/core/internal/pal/ast"
	"github.com/palvalidator/core/internal/pal/component"
	"github.com/palvalidator/core/internal/pal/condition"
)

func buildSamplePattern(t *testing.T) *PriceActionLabPattern {
	t.Helper()
	f := ast.NewFactory()

	tpl := NewTemplate("sample-001")
	tpl.AddCondition(condition.New(
		component.New(component.Close, 0),
		condition.GreaterThan,
		component.New(component.Close, 3),
	))

	expr, err := BuildExpression(f, tpl)
	if err != nil {
		t.Fatalf("unexpected error building expression: %v", err)
	}

	return New(
		Description{SourceFile: "sample.txt", PatternIndex: 1, IndexDate: time.Now()},
		expr,
		f.GetLongEntry(),
		f.GetProfitTarget(ast.Long, decimal.NewFromFloat(4.0)),
		f.GetStopLoss(ast.Long, decimal.NewFromFloat(2.0)),
		ast.VolatilityNone,
		PortfolioNone,
	)
}

func TestPriceActionLabPatternPayoffRatio(t *testing.T) {
	p := buildSamplePattern(t)
	got := p.PayoffRatio()
	want := decimal.NewFromFloat(2.0)
	if !got.Equal(want) {
		t.Errorf("expected payoff ratio 2.0, got %s", got.String())
	}
}

func TestPriceActionLabPatternMaxBarsBack(t *testing.T) {
	p := buildSamplePattern(t)
	got, err := p.MaxBarsBack()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3 {
		t.Errorf("expected max bars back 3, got %d", got)
	}
}

func TestPriceActionLabPatternSide(t *testing.T) {
	p := buildSamplePattern(t)
	if p.Side() != ast.Long {
		t.Errorf("expected long side, got %v", p.Side())
	}
}

func TestPriceActionLabPatternZeroStopLossPayoffRatio(t *testing.T) {
	f := ast.NewFactory()
	tpl := NewTemplate("zero-stop")
	tpl.AddCondition(condition.New(
		component.New(component.Close, 0),
		condition.GreaterThan,
		component.New(component.Close, 1),
	))
	expr, err := BuildExpression(f, tpl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := New(
		Description{},
		expr,
		f.GetLongEntry(),
		f.GetProfitTarget(ast.Long, decimal.NewFromFloat(4.0)),
		f.GetStopLoss(ast.Long, decimal.Zero),
		ast.VolatilityNone,
		PortfolioNone,
	)

	if !p.PayoffRatio().IsZero() {
		t.Errorf("expected zero payoff ratio when stop loss is zero, got %s", p.PayoffRatio().String())
	}
}
