package diopter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Step is the grid resolution: every SPH and CYL value is a multiple of a
// quarter diopter.
const Step = 0.25

// Value is a signed diopter on the quarter-unit grid. Nearsighted SPH and all
// CYL values are at or below zero; farsighted SPH values are above it.
type Value float64

// Round snaps v to two decimal places. Axes are generated through it so that
// repeated addition of the step cannot drift off the grid. Negative zero is
// folded onto positive zero so every cell has one spelling.
func Round(v float64) Value {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return Value(r)
}

// Format renders v with an explicit sign and two fraction digits. Zero carries
// no sign: Format of 0 is "0.00", negative zero included.
func (v Value) Format() string {
	if v == 0 {
		return "0.00"
	}
	if v > 0 {
		return "+" + strconv.FormatFloat(float64(v), 'f', 2, 64)
	}
	return strconv.FormatFloat(float64(v), 'f', 2, 64)
}

// Parse inverts Format. A leading '+' is accepted and stripped, and the result
// is snapped back onto the grid.
func Parse(s string) (Value, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "+")
	if trimmed == "" {
		return 0, fmt.Errorf("parse diopter: empty value")
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("parse diopter %q: %w", s, err)
	}
	return Round(f), nil
}

// LegacyCode is the sign-less three-digit shorthand printed on lens envelopes:
// the absolute value in hundredths, zero padded, so -2.25 becomes "225" and
// 0 becomes "000".
func (v Value) LegacyCode() string {
	return fmt.Sprintf("%03d", int(math.Round(math.Abs(float64(v))*100)))
}
