package universe

import (
	"bytes"
	"testing"

	"github.com/palvalidator/core/internal/pal/component"
	"github.com/palvalidator/core/internal/pal/condition"
	"github.com/palvalidator/core/internal/pal/pattern"
)

func sampleTemplates() []*pattern.Template {
	t1 := pattern.NewTemplate("t1")
	t1.AddCondition(condition.New(component.New(component.Close, 0), condition.GreaterThan, component.New(component.Close, 1)))
	t1.AddCondition(condition.New(component.New(component.High, 0), condition.GreaterThan, component.New(component.Low, 0)))

	t2 := pattern.NewTemplate("t2")
	t2.AddCondition(condition.New(component.New(component.Open, 2), condition.GreaterThan, component.New(component.Close, 3)))

	return []*pattern.Template{t1, t2}
}

func TestWriteReadUniverseRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	original := sampleTemplates()

	if err := WriteUniverse(&buf, original); err != nil {
		t.Fatalf("WriteUniverse: %v", err)
	}

	got, err := ReadUniverse(&buf)
	if err != nil {
		t.Fatalf("ReadUniverse: %v", err)
	}

	if len(got) != len(original) {
		t.Fatalf("expected %d templates, got %d", len(original), len(got))
	}
	for i, tmpl := range got {
		if !tmpl.Equal(original[i]) {
			t.Errorf("template %d did not round-trip: got %+v, want %+v", i, tmpl, original[i])
		}
	}
}

func TestReadUniverseRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 0, 0, 0, 1, 0, 0, 0, 0, 0})
	_, err := ReadUniverse(buf)
	if err == nil {
		t.Error("expected an error for an invalid magic number")
	}
}

func TestReadUniverseRejectsShortHeader(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x55, 0x54})
	_, err := ReadUniverse(buf)
	if err == nil {
		t.Error("expected an error for a truncated header")
	}
}

func TestReadUniverseRejectsTruncatedCondition(t *testing.T) {
	var buf bytes.Buffer
	original := sampleTemplates()
	if err := WriteUniverse(&buf, original); err != nil {
		t.Fatalf("WriteUniverse: %v", err)
	}

	truncated := buf.Bytes()[:buf.Len()-2]
	_, err := ReadUniverse(bytes.NewReader(truncated))
	if err == nil {
		t.Error("expected an error for a truncated condition")
	}
}

func TestWriteUniverseEmptySet(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteUniverse(&buf, nil); err != nil {
		t.Fatalf("WriteUniverse: %v", err)
	}
	got, err := ReadUniverse(&buf)
	if err != nil {
		t.Fatalf("ReadUniverse: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 templates, got %d", len(got))
	}
}
