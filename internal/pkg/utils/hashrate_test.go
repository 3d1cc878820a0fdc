package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatHashrate(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		want     string
	}{
		{"zero", 0, 1, "0 H/s"},
		{"below kilo", 999, 1, "999 H/s"},
		{"below kilo fractional", 999.9, 2, "999 H/s"},
		{"kilo", 1000, 1, "1.0 KH/s"},
		{"mega card", 1_000_000, 1, "1.0 MH/s"},
		{"mega worker", 1_234_567, 2, "1.23 MH/s"},
		{"giga", 2.5e9, 1, "2.5 GH/s"},
		{"tera", 140e12, 2, "140.00 TH/s"},
		{"peta", 3e15, 1, "3.0 PH/s"},
		{"beyond peta stays peta", 4e18, 1, "4000.0 PH/s"},
		{"rounding bumps unit", 999_960, 1, "1.0 MH/s"},
		{"negative", -5, 1, "0 H/s"},
		{"nan", math.NaN(), 1, "0 H/s"},
		{"inf", math.Inf(1), 1, "0 H/s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatHashrate(tt.value, tt.decimals))
		})
	}
}
