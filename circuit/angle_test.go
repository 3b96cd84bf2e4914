package circuit

import (
	"math"
	"testing"
)

func TestParseAngle(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		// Plain numbers
		{"1.5707", 1.5707, true},
		{"-0.5", -0.5, true},
		{"0", 0, true},
		{"42", 42, true},

		{"pi", math.Pi, true},
		{"PI", math.Pi, true},

		{"pi/2", math.Pi / 2, true},
		{"pi/8", math.Pi / 8, true},
		{"2pi", 2 * math.Pi, true},
		{"2*pi", 2 * math.Pi, true},
		{"3pi/4", 3 * math.Pi / 4, true},
		{"2*pi/3", 2 * math.Pi / 3, true},

		{"-pi", -math.Pi, true},
		{"-3*pi/4", -3 * math.Pi / 4, true},

		// Whitespace
		{" pi / 2 ", math.Pi / 2, true},
		{" 3 * pi / 4 ", 3 * math.Pi / 4, true},

		// Invalid
		{"", 0, false},
		{"abc", 0, false},
		{"pi/0", 0, false},
		{"inf", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseAngle(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseAngle(%q): ok=%v, want ok=%v", tt.input, ok, tt.ok)
			continue
		}
		if ok && math.Abs(got-tt.want) > 1e-10 {
			t.Errorf("ParseAngle(%q) = %g, want %g", tt.input, got, tt.want)
		}
	}
}

func TestFormatAngle(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{math.Pi, "pi"},
		{math.Pi / 2, "pi/2"},
		{math.Pi / 4, "pi/4"},
		{3 * math.Pi / 4, "3*pi/4"},
		{-math.Pi / 2, "-pi/2"},
		{2 * math.Pi, "2*pi"},
		{1.5, "1.5"},
		{0, "0"},
		{0.01, "0.01"},
	}

	for _, tt := range tests {
		got := FormatAngle(tt.input)
		if got != tt.want {
			t.Errorf("FormatAngle(%g) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseAngles(t *testing.T) {
	if params := ParseAngles("pi/2"); len(params) != 1 {
		t.Errorf("ParseAngles('pi/2') should return 1 param, got %v", params)
	}
	if params := ParseAngles("pi/2, pi/4"); len(params) != 2 {
		t.Errorf("ParseAngles('pi/2, pi/4') should return 2 params, got %v", params)
	}
	if params := ParseAngles("pi/2,garbage"); params != nil {
		t.Errorf("ParseAngles('pi/2,garbage') should return nil, got %v", params)
	}
	if params := ParseAngles(""); params != nil {
		t.Errorf("ParseAngles('') should return nil, got %v", params)
	}
}
