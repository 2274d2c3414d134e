package measure

import (
	"fmt"
	"strings"
)

// Unit is a real-world length unit used for display and export.
type Unit string

const (
	Millimeter Unit = "mm"
	Centimeter Unit = "cm"
	Meter      Unit = "m"
	Inch       Unit = "in"
)

// DefaultUnit is the unit a new session starts with.
const DefaultUnit = Millimeter

// Units returns every supported unit in display order.
func Units() []Unit {
	return []Unit{Millimeter, Centimeter, Meter, Inch}
}

// String returns the unit symbol.
func (u Unit) String() string {
	return string(u)
}

// Name returns the long unit name.
func (u Unit) Name() string {
	switch u {
	case Millimeter:
		return "millimeter"
	case Centimeter:
		return "centimeter"
	case Meter:
		return "meter"
	case Inch:
		return "inch"
	default:
		return "unknown"
	}
}

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	for _, known := range Units() {
		if u == known {
			return true
		}
	}
	return false
}

// millimeters returns how many millimeters one unit spans.
func (u Unit) millimeters() float64 {
	switch u {
	case Centimeter:
		return 10
	case Meter:
		return 1000
	case Inch:
		return 25.4
	default:
		return 1
	}
}

// ParseUnit accepts a unit symbol or long name, case-insensitively.
func ParseUnit(s string) (Unit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, u := range Units() {
		if s == string(u) || s == u.Name() || s == u.Name()+"s" {
			return u, nil
		}
	}
	return "", fmt.Errorf("unknown unit %q", s)
}
