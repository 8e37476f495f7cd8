package component

import "testing"

func TestExtraBarsNeeded(t *testing.T) {
	cases := []struct {
		t    Type
		want uint8
	}{
		{Open, 0}, {High, 0}, {Low, 0}, {Close, 0}, {Volume, 0}, {IBS1, 0},
		{ROC1, 1}, {IBS2, 1}, {IBS3, 2}, {Meander, 5}, {VChartLow, 6}, {VChartHigh, 6},
	}
	for _, c := range cases {
		if got := c.t.ExtraBarsNeeded(); got != c.want {
			t.Errorf("%s.ExtraBarsNeeded() = %d, want %d", c.t, got, c.want)
		}
	}
}

func TestRequiredLookback(t *testing.T) {
	d := New(Meander, 3)
	if got := d.RequiredLookback(); got != 8 {
		t.Errorf("RequiredLookback() = %d, want 8", got)
	}
}

func TestParseTypeRoundTrip(t *testing.T) {
	for _, want := range []Type{Open, High, Low, Close, Volume, ROC1, IBS1, IBS2, IBS3, Meander, VChartLow, VChartHigh} {
		got, err := ParseType(want.String())
		if err != nil {
			t.Fatalf("ParseType(%s): %v", want.String(), err)
		}
		if got != want {
			t.Errorf("ParseType(%s) = %v, want %v", want.String(), got, want)
		}
	}
}

func TestLessTotalOrder(t *testing.T) {
	a := New(Open, 5)
	b := New(Open, 6)
	c := New(High, 0)
	if !a.Less(b) {
		t.Error("expected Open[5] < Open[6]")
	}
	if !a.Less(c) {
		t.Error("expected Open < High by component type ordering")
	}
}
