package parser

import (
	"io"
	"os"

	"github.com/palvalidator/core/internal/pal/ast"
	"github.com/palvalidator/core/internal/pal/pattern"
)

// Driver orchestrates parsing one or more PAL pattern files into a shared
// set of PriceActionLabPattern instances, interning their AST leaves
// through a single Factory so patterns parsed from the same run share
// structure the way the universe generator's output does. Grounded on
// PalParseDriver: addPalPattern/getPalStrategies are kept as the exact
// hook names spec.md §6.2 calls out; the separate flex scanner object is
// collapsed into Lexer since this port has no generated-scanner toolchain.
type Driver struct {
	Factory    *ast.Factory
	strategies []*pattern.PriceActionLabPattern
	byHash     map[uint64]int
	TieBreaker ast.TieBreaker
}

// NewDriver builds an empty Driver with its own Factory.
func NewDriver() *Driver {
	return &Driver{
		Factory:    ast.NewFactory(),
		byHash:     make(map[uint64]int),
		TieBreaker: ast.SmallestVolatilityTieBreaker{},
	}
}

// AddPalPattern registers a successfully parsed pattern. Exposed under the
// exact name spec.md §6.2 documents as the core's sole ingestion hook. A
// pattern whose expression shares its semantic hash with one already
// registered is not kept alongside it: TieBreaker decides which of the two
// survives, and the other is dropped.
func (d *Driver) AddPalPattern(p *pattern.PriceActionLabPattern) {
	hash := p.Expression.Hash()
	if idx, ok := d.byHash[hash]; ok {
		if d.TieBreaker.Prefer(d.strategies[idx].Volatility, p.Volatility) {
			d.strategies[idx] = p
		}
		return
	}
	d.byHash[hash] = len(d.strategies)
	d.strategies = append(d.strategies, p)
}

// GetPalStrategies returns every pattern parsed so far.
func (d *Driver) GetPalStrategies() []*pattern.PriceActionLabPattern {
	return d.strategies
}

// ParseFile reads and parses every pattern block in the named file,
// tagging each pattern's Description.SourceFile with the file's path.
func (d *Driver) ParseFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return d.ParseString(path, string(data))
}

// ParseReader reads r fully and parses it as a PAL pattern file, tagging
// each pattern's source file with sourceName.
func (d *Driver) ParseReader(sourceName string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return d.ParseString(sourceName, string(data))
}

// ParseString parses src as a PAL pattern file, appending every pattern
// block it finds to the driver's accumulated strategies via AddPalPattern.
func (d *Driver) ParseString(sourceName string, src string) error {
	p := newParser(d.Factory, sourceName, src)
	for {
		pat, done, err := p.parsePatternBlock()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		d.AddPalPattern(pat)
	}
}
