package analysisdb

import (
	"fmt"
	"sort"

	"github.com/palvalidator/core/internal/pal/ast"
	"github.com/palvalidator/core/internal/pal/component"
	"github.com/palvalidator/core/internal/pal/pattern"
)

// extractComponents walks expr's AND-tree and collects every Reference
// leaf's descriptor, mirroring
// PatternStructureExtractor::extractComponentsFromExpression's traversal
// over GreaterThanExpr/AndExpr nodes.
func extractComponents(expr ast.Expression) ([]component.Descriptor, error) {
	var out []component.Descriptor
	switch e := expr.(type) {
	case *ast.GreaterThanExpr:
		out = append(out, e.Lhs.Descriptor, e.Rhs.Descriptor)
	case *ast.AndExpr:
		lhs, err := extractComponents(e.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := extractComponents(e.Rhs)
		if err != nil {
			return nil, err
		}
		out = append(out, lhs...)
		out = append(out, rhs...)
	default:
		return nil, fmt.Errorf("analysisdb: unknown expression node type in extractComponents")
	}
	return out, nil
}

// countConditions counts the number of GreaterThanExpr leaves in expr's
// AND-tree, mirroring PatternStructureExtractor::countConditions.
func countConditions(expr ast.Expression) uint8 {
	switch e := expr.(type) {
	case *ast.GreaterThanExpr:
		return 1
	case *ast.AndExpr:
		return countConditions(e.Lhs) + countConditions(e.Rhs)
	default:
		_ = e
		return 0
	}
}

// barSpread returns the difference between the largest and smallest bar
// offset referenced by components, mirroring
// PatternStructureExtractor::calculateBarSpread.
func barSpread(components []component.Descriptor) uint8 {
	if len(components) == 0 {
		return 0
	}
	min, max := components[0].BarOffset, components[0].BarOffset
	for _, c := range components[1:] {
		if c.BarOffset < min {
			min = c.BarOffset
		}
		if c.BarOffset > max {
			max = c.BarOffset
		}
	}
	return max - min
}

func maxBarOffset(components []component.Descriptor) uint8 {
	var max uint8
	for _, c := range components {
		if c.BarOffset > max {
			max = c.BarOffset
		}
	}
	return max
}

// analyzeChaining reports whether components show transitive chaining: a
// pattern like CLOSE[0]>CLOSE[1], CLOSE[1]>CLOSE[2] references the same
// offset as both a leading and a trailing term. Mirrors
// PatternStructureExtractor::analyzeChaining's intent at the descriptor
// level (this module compares bar offsets rather than re-deriving which
// side of each original condition a reference came from, since that
// direction information is discarded once FromCondition canonicalizes
// every comparison to ">").
func analyzeChaining(components []component.Descriptor) bool {
	seen := make(map[uint8]int)
	for _, c := range components {
		seen[c.BarOffset]++
	}
	for _, count := range seen {
		if count > 1 {
			return true
		}
	}
	return false
}

// patternString renders components as a sorted, human-readable summary,
// mirroring PatternStructureExtractor::generatePatternString.
func patternString(components []component.Descriptor) string {
	sorted := make([]component.Descriptor, len(components))
	copy(sorted, components)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	seen := make(map[string]bool)
	var ordered []string
	for _, c := range sorted {
		s := c.String()
		if !seen[s] {
			seen[s] = true
			ordered = append(ordered, s)
		}
	}

	out := ""
	for i, s := range ordered {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}

// ExtractPatternAnalysis builds a PatternAnalysis from a fully-parsed
// pattern, tagging it with its source file and search type. Grounded on
// PatternStructureExtractor::extractPatternAnalysis.
func ExtractPatternAnalysis(p *pattern.PriceActionLabPattern, sourceFile, searchType string) (PatternAnalysis, error) {
	components, err := extractComponents(p.Expression)
	if err != nil {
		return PatternAnalysis{}, err
	}

	return PatternAnalysis{
		Index:          uint32(p.Description.PatternIndex),
		SourceFile:     sourceFile,
		SearchType:     searchType,
		Components:     components,
		ConditionCount: countConditions(p.Expression),
		MaxBarOffset:   maxBarOffset(components),
		BarSpread:      barSpread(components),
		Chaining:       analyzeChaining(components),
		PatternString:  patternString(components),
	}, nil
}

// ExtractBarCombinationInfo summarizes components as the deduplicated,
// sorted bar-offset and component-type sets a BarCombinationInfo tracks,
// mirroring PatternStructureExtractor::extractBarCombinationInfo.
func ExtractBarCombinationInfo(components []component.Descriptor, searchType, sourceFile string) BarCombinationInfo {
	offsetSet := make(map[uint8]struct{})
	typeSet := make(map[component.Type]struct{})
	for _, c := range components {
		offsetSet[c.BarOffset] = struct{}{}
		typeSet[c.ComponentType] = struct{}{}
	}

	offsets := make([]uint8, 0, len(offsetSet))
	for o := range offsetSet {
		offsets = append(offsets, o)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	types := make([]component.Type, 0, len(typeSet))
	for t := range typeSet {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return BarCombinationInfo{
		BarOffsets:     offsets,
		ComponentTypes: types,
		SearchType:     searchType,
		SourceFiles:    []string{sourceFile},
	}
}
