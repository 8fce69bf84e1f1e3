package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe length types shared by the layout build, the
// action stream and the renderers.

// Unit represents the original unit of a length value as specified in DSL.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// MM constructs a Length in millimeters.
func MM(v float64) Length { return Length{Value: v, Unit: UnitMM} }

// PT constructs a Length in points.
func PT(v float64) Length { return Length{Value: v, Unit: UnitPT} }

func (l Length) IsZero() bool { return l.Value == 0 }

// To converts this length to target unit. Supported targets: UnitMM, UnitPT.
func (l Length) To(target Unit) float64 {
	mm := l.Value
	switch l.Unit {
	case UnitCM:
		mm = l.Value * 10
	case UnitIN:
		mm = l.Value * 25.4
	case UnitPT:
		if target == UnitPT {
			return l.Value
		}
		mm = l.Value * PtToMm
	case UnitNone, UnitMM:
		// treated as mm for absolute lengths
	}
	if target == UnitPT {
		return mm * MmToPt
	}
	return mm
}

func (l Length) ToMM() float64 { return l.To(UnitMM) }
func (l Length) ToPT() float64 { return l.To(UnitPT) }

// Add returns the sum of two lengths. Same-unit operands keep their unit,
// mixed-unit operands normalize to millimeters.
func (l Length) Add(o Length) Length {
	if l.Unit == o.Unit {
		return Length{Value: l.Value + o.Value, Unit: l.Unit}
	}
	return MM(l.ToMM() + o.ToMM())
}

// String renders the value with its unit suffix, eg. "12pt" or "4.2mm".
func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'g', -1, 64) + UnitToString(l.Unit)
}

// Size2D is a 2D vector of lengths, used for absolute positions and extents.
type Size2D struct {
	X Length `json:"x"`
	Y Length `json:"y"`
}

// SizeMM constructs a Size2D from millimeter coordinates.
func SizeMM(x, y float64) Size2D { return Size2D{X: MM(x), Y: MM(y)} }

// Add translates s by o component-wise.
func (s Size2D) Add(o Size2D) Size2D {
	return Size2D{X: s.X.Add(o.X), Y: s.Y.Add(o.Y)}
}

// ParseRawLengthStr parses a DSL length string preserving its unit.
func ParseRawLengthStr(value string) Length {
	v := strings.TrimSpace(value)
	if v == "" {
		return Length{}
	}
	lower := strings.ToLower(v)
	unit := UnitNone
	num := lower
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(lower, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(lower, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}
	}
	return Length{Value: f, Unit: unit}
}
