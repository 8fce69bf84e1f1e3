package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip checks the pt↔mm conversion round trips within a tiny
// floating point tolerance.
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt drift too large: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestLengthConversions covers Length conversion to mm and pt across units.
func TestLengthConversions(t *testing.T) {
	in := Length{Value: 1, Unit: UnitIN}
	if got := in.ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("1in in mm: want 25.4, got %g", got)
	}
	cm := Length{Value: 2.54, Unit: UnitCM}
	if got := cm.ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("2.54cm in mm: want 25.4, got %g", got)
	}
	pt := PT(12)
	if got := pt.ToMM(); math.Abs(got-12*PtToMm) > 1e-9 {
		t.Fatalf("12pt in mm: want %g, got %g", 12*PtToMm, got)
	}
	if got := pt.ToPT(); got != 12 {
		t.Fatalf("12pt in pt must stay exactly 12, got %g", got)
	}
	mm := MM(10)
	if got := mm.ToPT(); math.Abs(got-10*MmToPt) > 1e-9 {
		t.Fatalf("10mm in pt: want %g, got %g", 10*MmToPt, got)
	}
}

// TestLengthAdd: same-unit sums keep their unit, mixed sums normalize to mm.
func TestLengthAdd(t *testing.T) {
	sum := PT(10).Add(PT(2))
	if sum.Unit != UnitPT || sum.Value != 12 {
		t.Fatalf("pt+pt should stay pt: %v", sum)
	}
	mixed := MM(10).Add(PT(72))
	if mixed.Unit != UnitMM {
		t.Fatalf("mixed sum should normalize to mm: %v", mixed)
	}
	if diff := math.Abs(mixed.Value - (10 + 72*PtToMm)); diff > 1e-9 {
		t.Fatalf("mixed sum drift: %v", mixed)
	}
}

func TestLengthString(t *testing.T) {
	cases := []struct {
		in   Length
		want string
	}{
		{PT(12), "12pt"},
		{MM(4.2), "4.2mm"},
		{Length{Value: 1.5}, "1.5"},
	}
	for _, c := range cases {
		if got := c.in.String(); got != c.want {
			t.Fatalf("Length string is %q, want %q", got, c.want)
		}
	}
}

func TestParseRawLengthStr(t *testing.T) {
	cases := []struct {
		in   string
		want Length
	}{
		{"12pt", PT(12)},
		{"10mm", MM(10)},
		{"2.5cm", Length{Value: 2.5, Unit: UnitCM}},
		{"1in", Length{Value: 1, Unit: UnitIN}},
		{"7", Length{Value: 7}},
		{"", Length{}},
		{"abc", Length{}},
	}
	for _, c := range cases {
		if got := ParseRawLengthStr(c.in); got != c.want {
			t.Fatalf("ParseRawLengthStr(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSize2DAdd(t *testing.T) {
	got := SizeMM(1, 2).Add(SizeMM(10, 20))
	if got != SizeMM(11, 22) {
		t.Fatalf("Size2D.Add = %v", got)
	}
}
