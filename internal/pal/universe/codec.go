package universe

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/palvalidator/core/internal/pal/component"
	"github.com/palvalidator/core/internal/pal/condition"
	"github.com/palvalidator/core/internal/pal/pattern"
)

// magicNumber is "PATU" packed little-endian, per spec.md §3.8/§6.1 and
// original_source/libs/patterndiscovery/PatternUniverseSerializer.h's
// FileHeader.
const magicNumber uint32 = 0x50415455

const fileVersion uint16 = 1

// WriteUniverse serializes templates to w as a pattern universe file:
// a 10-byte header (magic, version, patternCount) followed by each
// template's binary encoding. Grounded line-for-line on
// PatternUniverseSerializer.cpp and BinaryPatternTemplateSerializer.cpp.
func WriteUniverse(w io.Writer, templates []*pattern.Template) error {
	if err := binary.Write(w, binary.LittleEndian, magicNumber); err != nil {
		return fmt.Errorf("universe: failed to write magic number: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, fileVersion); err != nil {
		return fmt.Errorf("universe: failed to write version: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(templates))); err != nil {
		return fmt.Errorf("universe: failed to write pattern count: %w", err)
	}

	for _, tmpl := range templates {
		if err := writeTemplate(w, tmpl); err != nil {
			return err
		}
	}
	return nil
}

func writeTemplate(w io.Writer, tmpl *pattern.Template) error {
	name := []byte(tmpl.Name)
	if len(name) > 0xFFFF {
		return fmt.Errorf("universe: template name %q exceeds 65535 bytes", tmpl.Name)
	}
	if len(tmpl.Conditions) > 0xFF {
		return fmt.Errorf("universe: template %q has more than 255 conditions", tmpl.Name)
	}

	if err := binary.Write(w, binary.LittleEndian, uint16(len(name))); err != nil {
		return fmt.Errorf("universe: failed to write name length: %w", err)
	}
	if _, err := w.Write(name); err != nil {
		return fmt.Errorf("universe: failed to write name bytes: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(len(tmpl.Conditions))); err != nil {
		return fmt.Errorf("universe: failed to write condition count: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(0)); err != nil { // reserved padding byte
		return fmt.Errorf("universe: failed to write reserved byte: %w", err)
	}

	for _, c := range tmpl.Conditions {
		fields := [5]uint8{
			uint8(c.Lhs.ComponentType), c.Lhs.BarOffset,
			uint8(c.Op),
			uint8(c.Rhs.ComponentType), c.Rhs.BarOffset,
		}
		if _, err := w.Write(fields[:]); err != nil {
			return fmt.Errorf("universe: failed to write condition bytes: %w", err)
		}
	}
	return nil
}

// ReadUniverse reads a pattern universe file from r, validating the magic
// number before allocating and failing with a descriptive error on a
// short read or a truncated condition. Grounded on
// PatternUniverseDeserializer.cpp and
// BinaryPatternTemplateDeserializer.cpp.
func ReadUniverse(r io.Reader) ([]*pattern.Template, error) {
	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("universe: failed to read magic number: %w", err)
	}
	if magic != magicNumber {
		return nil, fmt.Errorf("universe: invalid file format, magic number mismatch (got %#x)", magic)
	}

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("universe: failed to read version: %w", err)
	}

	var patternCount uint32
	if err := binary.Read(r, binary.LittleEndian, &patternCount); err != nil {
		return nil, fmt.Errorf("universe: failed to read pattern count: %w", err)
	}

	templates := make([]*pattern.Template, 0, patternCount)
	for i := uint32(0); i < patternCount; i++ {
		tmpl, err := readTemplate(r)
		if err != nil {
			return nil, fmt.Errorf("universe: pattern %d: %w", i, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

func readTemplate(r io.Reader) (*pattern.Template, error) {
	var nameLen uint16
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return nil, fmt.Errorf("failed to read name length: %w", err)
	}

	nameBytes := make([]byte, nameLen)
	if _, err := io.ReadFull(r, nameBytes); err != nil {
		return nil, fmt.Errorf("failed to read name bytes: %w", err)
	}

	tmpl := pattern.NewTemplate(string(nameBytes))

	var conditionCount uint8
	if err := binary.Read(r, binary.LittleEndian, &conditionCount); err != nil {
		return nil, fmt.Errorf("failed to read condition count: %w", err)
	}

	var reserved uint8
	if err := binary.Read(r, binary.LittleEndian, &reserved); err != nil {
		return nil, fmt.Errorf("failed to read reserved byte: %w", err)
	}

	for i := uint8(0); i < conditionCount; i++ {
		var fields [5]uint8
		if _, err := io.ReadFull(r, fields[:]); err != nil {
			return nil, fmt.Errorf("failed to read condition %d: %w", i, err)
		}
		lhs := component.New(component.Type(fields[0]), fields[1])
		op := condition.Operator(fields[2])
		rhs := component.New(component.Type(fields[3]), fields[4])
		tmpl.AddCondition(condition.New(lhs, op, rhs))
	}

	return tmpl, nil
}
