// Package component defines PriceComponentDescriptor: the (ComponentType,
// BarOffset) pair that every pattern condition compares. It mirrors
// PriceComponentDescriptor.h from the pattern-discovery library the
// enumeration engine was distilled from.
package component

import "fmt"

// Type enumerates the price-bar components a pattern condition may
// reference. Derived components (ROC1, IBS2, IBS3, MEANDER, VCHART*)
// require extra historical bars beyond their own offset to compute.
type Type uint8

const (
	Open Type = iota
	High
	Low
	Close
	Volume
	ROC1
	IBS1
	IBS2
	IBS3
	Meander
	VChartLow
	VChartHigh
)

func (t Type) String() string {
	switch t {
	case Open:
		return "OPEN"
	case High:
		return "HIGH"
	case Low:
		return "LOW"
	case Close:
		return "CLOSE"
	case Volume:
		return "VOLUME"
	case ROC1:
		return "ROC1"
	case IBS1:
		return "IBS1"
	case IBS2:
		return "IBS2"
	case IBS3:
		return "IBS3"
	case Meander:
		return "MEANDER"
	case VChartLow:
		return "VCHARTLOW"
	case VChartHigh:
		return "VCHARTHIGH"
	default:
		return "UNKNOWN"
	}
}

// ParseType is the inverse of Type.String, used by the textual-grammar
// parser and by the analysis database's JSON schema.
func ParseType(s string) (Type, error) {
	switch s {
	case "OPEN":
		return Open, nil
	case "HIGH":
		return High, nil
	case "LOW":
		return Low, nil
	case "CLOSE":
		return Close, nil
	case "VOLUME":
		return Volume, nil
	case "ROC1":
		return ROC1, nil
	case "IBS1":
		return IBS1, nil
	case "IBS2":
		return IBS2, nil
	case "IBS3":
		return IBS3, nil
	case "MEANDER":
		return Meander, nil
	case "VCHARTLOW":
		return VChartLow, nil
	case "VCHARTHIGH":
		return VChartHigh, nil
	default:
		return 0, fmt.Errorf("component: unknown component type %q", s)
	}
}

// ExtraBarsNeeded returns how many additional historical bars a derived
// component needs beyond its own BarOffset in order to be computed. This
// is the per-type constant from the specification's lookback table.
func (t Type) ExtraBarsNeeded() uint8 {
	switch t {
	case ROC1:
		return 1
	case IBS2:
		return 1
	case IBS3:
		return 2
	case Meander:
		return 5
	case VChartLow, VChartHigh:
		return 6
	default:
		return 0
	}
}

// Descriptor identifies a specific price component at a specific
// historical bar offset (0 = current bar).
type Descriptor struct {
	ComponentType Type
	BarOffset     uint8
}

// New constructs a Descriptor.
func New(t Type, offset uint8) Descriptor {
	return Descriptor{ComponentType: t, BarOffset: offset}
}

// RequiredLookback returns BarOffset + ExtraBarsNeeded, the number of bars
// of history this single descriptor requires to evaluate.
func (d Descriptor) RequiredLookback() uint8 {
	return d.BarOffset + d.ComponentType.ExtraBarsNeeded()
}

// Equal reports whether two descriptors reference the same component and
// offset.
func (d Descriptor) Equal(other Descriptor) bool {
	return d.ComponentType == other.ComponentType && d.BarOffset == other.BarOffset
}

// Less provides a total order over descriptors, used to canonicalize the
// unordered {lhs, rhs} pair inside a condition before hashing, and to sort
// descriptors when computing a template's unique-component set.
func (d Descriptor) Less(other Descriptor) bool {
	if d.ComponentType != other.ComponentType {
		return d.ComponentType < other.ComponentType
	}
	return d.BarOffset < other.BarOffset
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s[%d]", d.ComponentType, d.BarOffset)
}

// Hash mixes the type tag and offset into a 64-bit value. Deterministic
// and cheap enough to call on every leaf without caching at this layer;
// the AST layer caches the result once per node.
func (d Descriptor) Hash() uint64 {
	h := uint64(14695981039346656037)
	h = (h ^ uint64(d.ComponentType)) * 1099511628211
	h = (h ^ uint64(d.BarOffset)) * 1099511628211
	return h
}
