package circuit

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// piExprRegex matches pi, 2pi, 2*pi, pi/2, 3*pi/4 and their negations.
var piExprRegex = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// ParseAngle parses a gate parameter: a plain number or a multiple or
// fraction of pi. Matching is case-insensitive and ignores surrounding spaces.
func ParseAngle(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, !math.IsInf(v, 0) && !math.IsNaN(v)
	}

	m := piExprRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v := math.Pi
	if m[2] != "" {
		coeff, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, false
		}
		v *= coeff
	}
	if m[3] != "" {
		denom, err := strconv.ParseFloat(m[3], 64)
		if err != nil || denom == 0 {
			return 0, false
		}
		v /= denom
	}
	if m[1] == "-" {
		v = -v
	}
	return v, true
}

// piForms lists the pi multiples FormatAngle writes symbolically.
var piForms = []struct {
	value float64
	text  string
}{
	{2 * math.Pi, "2*pi"},
	{math.Pi, "pi"},
	{math.Pi / 2, "pi/2"},
	{math.Pi / 3, "pi/3"},
	{math.Pi / 4, "pi/4"},
	{math.Pi / 6, "pi/6"},
	{math.Pi / 8, "pi/8"},
	{3 * math.Pi / 4, "3*pi/4"},
	{3 * math.Pi / 2, "3*pi/2"},
	{2 * math.Pi / 3, "2*pi/3"},
}

// FormatAngle writes v as a pi expression when it is one of the common
// fractions, and in %g form otherwise.
func FormatAngle(v float64) string {
	for _, f := range piForms {
		switch {
		case math.Abs(v-f.value) < 1e-10:
			return f.text
		case math.Abs(v+f.value) < 1e-10:
			return "-" + f.text
		}
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParseAngles parses a comma-separated parameter list. It returns nil if any
// entry is invalid or the list is empty.
func ParseAngles(input string) []float64 {
	var out []float64
	for _, part := range strings.Split(input, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		v, ok := ParseAngle(part)
		if !ok {
			return nil
		}
		out = append(out, v)
	}
	return out
}
