package ast

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/palvalidator/core/internal/pal/component"
)

// MaxInternedBarOffset bounds the pre-populated reference cache. Patterns
// reaching further back than this still work; their References are
// allocated on first request and cached in an overflow map under a lock.
const MaxInternedBarOffset = 30

// Factory interns the handful of leaf node shapes that recur across an
// entire pattern universe: one Reference per (component type, bar offset)
// pair within the common range, the two MarketEntryExpression singletons,
// and profit-target/stop-loss leaves keyed by their decimal value. Interning
// these collapses what would otherwise be millions of duplicate small
// allocations across a multi-million-pattern universe down to a few
// thousand shared nodes, mirroring AstResourceManager's role in the
// priceactionlab library.
//
// A Factory is safe for concurrent use by readers once built: Get* lookups
// either return an already-cached node or populate the cache under a lock
// guarding the overflow maps. The pre-populated arrays below are filled
// once at construction and never mutated afterward, so they need no lock
// at all for reads.
type Factory struct {
	references [component.VChartHigh + 1][MaxInternedBarOffset + 1]*Reference

	longEntry  *MarketEntryExpression
	shortEntry *MarketEntryExpression

	mu         sync.Mutex
	overflow   map[component.Descriptor]*Reference
	profit     map[string]*ProfitTargetInPercentExpression
	stop       map[string]*StopLossInPercentExpression
}

// NewFactory builds a Factory with its common-range reference cache and
// market-entry singletons pre-populated.
func NewFactory() *Factory {
	f := &Factory{
		longEntry:  NewMarketEntryExpression(Long),
		shortEntry: NewMarketEntryExpression(Short),
		overflow:   make(map[component.Descriptor]*Reference),
		profit:     make(map[string]*ProfitTargetInPercentExpression),
		stop:       make(map[string]*StopLossInPercentExpression),
	}
	for t := component.Open; t <= component.VChartHigh; t++ {
		for offset := uint8(0); offset <= MaxInternedBarOffset; offset++ {
			d := component.New(t, offset)
			f.references[t][offset] = NewReference(d)
		}
	}
	return f
}

// GetReference returns the interned Reference for d when it falls within
// the pre-populated range, or allocates and caches one on demand otherwise.
func (f *Factory) GetReference(d component.Descriptor) *Reference {
	if d.ComponentType <= component.VChartHigh && d.BarOffset <= MaxInternedBarOffset {
		return f.references[d.ComponentType][d.BarOffset]
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.overflow[d]; ok {
		return r
	}
	r := NewReference(d)
	f.overflow[d] = r
	return r
}

// GetLongEntry returns the shared long market-entry singleton.
func (f *Factory) GetLongEntry() *MarketEntryExpression { return f.longEntry }

// GetShortEntry returns the shared short market-entry singleton.
func (f *Factory) GetShortEntry() *MarketEntryExpression { return f.shortEntry }

// GetProfitTarget returns the interned profit-target leaf for (side, value),
// allocating and caching one the first time a given value is requested.
func (f *Factory) GetProfitTarget(side Side, value decimal.Decimal) *ProfitTargetInPercentExpression {
	key := side.String() + ":" + value.String()

	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profit[key]; ok {
		return p
	}
	p := NewProfitTarget(side, value)
	f.profit[key] = p
	return p
}

// GetStopLoss returns the interned stop-loss leaf for (side, value),
// allocating and caching one the first time a given value is requested.
func (f *Factory) GetStopLoss(side Side, value decimal.Decimal) *StopLossInPercentExpression {
	key := side.String() + ":" + value.String()

	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.stop[key]; ok {
		return s
	}
	s := NewStopLoss(side, value)
	f.stop[key] = s
	return s
}
