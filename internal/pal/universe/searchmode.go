// Package universe enumerates the complete family of PAL pattern
// templates permitted under a declared search mode, deduplicates them by
// canonical hash, and reads/writes the binary pattern-universe file
// format. Grounded on spec.md §4.C and on
// original_source/libs/patterndiscovery/{PatternUniverseSerializer,
// PatternUniverseDeserializer,BinaryPatternTemplateSerializer,
// BinaryPatternTemplateDeserializer}.{h,cpp} for the codec, and on
// original_source/libs/patterndiscovery/test/SearchConfigurationTest.cpp
// for the canonical pattern-length ranges per mode.
package universe

import "github.com/palvalidator/core/internal/pal/component"

// Name identifies one of the canonical PAL search modes.
type Name uint8

const (
	Basic Name = iota
	Extended
	Deep
	Close
	HighLow
	OpenClose
	Mixed
)

func (n Name) String() string {
	switch n {
	case Basic:
		return "BASIC"
	case Extended:
		return "EXTENDED"
	case Deep:
		return "DEEP"
	case Close:
		return "CLOSE"
	case HighLow:
		return "HIGH_LOW"
	case OpenClose:
		return "OPEN_CLOSE"
	case Mixed:
		return "MIXED"
	default:
		return "UNKNOWN"
	}
}

// SearchMode declares the constraints a universe generation run enforces:
// which component types are eligible, how far back a descriptor may
// reach, how many conditions a template may conjoin, the inclusive
// pattern-length range to enumerate, and whether the condition pool must
// reject same-component-type pairs (the restriction PAL itself applies
// to its MIXED search).
type SearchMode struct {
	Name                    Name
	Components              []component.Type
	MaxOffset               uint8
	MaxConditions           int
	MinLength               int
	MaxLength               int
	FilterSameComponentType bool
}

var (
	ohlc    = []component.Type{component.Open, component.High, component.Low, component.Close}
	ohlcv   = []component.Type{component.Open, component.High, component.Low, component.Close, component.Volume}
	allKind = []component.Type{
		component.Open, component.High, component.Low, component.Close, component.Volume,
		component.ROC1, component.IBS1, component.IBS2, component.IBS3,
		component.Meander, component.VChartLow, component.VChartHigh,
	}
)

// BasicMode, ExtendedMode, ..., MixedMode are the seven canonical search
// modes named in spec.md §4.C. Pattern-length ranges for EXTENDED, DEEP,
// CLOSE, HIGH_LOW, OPEN_CLOSE, and MIXED are taken verbatim from
// SearchConfigurationTest.cpp's getPatternLengthRange table; BASIC and the
// per-mode component sets and max offsets are this module's own
// resolution of an Open Question the distilled spec leaves implicit (see
// DESIGN.md).
var (
	BasicMode = SearchMode{
		Name: Basic, Components: ohlc, MaxOffset: 2, MaxConditions: 4,
		MinLength: 2, MaxLength: 6,
	}
	ExtendedMode = SearchMode{
		Name: Extended, Components: ohlcv, MaxOffset: 3, MaxConditions: 6,
		MinLength: 2, MaxLength: 6,
	}
	DeepMode = SearchMode{
		Name: Deep, Components: allKind, MaxOffset: 5, MaxConditions: 9,
		MinLength: 2, MaxLength: 9,
	}
	CloseMode = SearchMode{
		Name: Close, Components: []component.Type{component.Close}, MaxOffset: 5, MaxConditions: 9,
		MinLength: 3, MaxLength: 9,
	}
	HighLowMode = SearchMode{
		Name: HighLow, Components: []component.Type{component.High, component.Low}, MaxOffset: 5, MaxConditions: 9,
		MinLength: 3, MaxLength: 9,
	}
	OpenCloseMode = SearchMode{
		Name: OpenClose, Components: []component.Type{component.Open, component.Close}, MaxOffset: 5, MaxConditions: 9,
		MinLength: 3, MaxLength: 9,
	}
	MixedMode = SearchMode{
		Name: Mixed, Components: allKind, MaxOffset: 5, MaxConditions: 9,
		MinLength: 2, MaxLength: 9, FilterSameComponentType: true,
	}
)
