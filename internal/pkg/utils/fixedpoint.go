package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FixedPointToFloat converts a raw fixed-point amount (e.g. "1234500000000000000" with
// decimals=18) into human units (1.2345). Decimal strings and exponent notation are accepted
// because several pools serialize large integers as floats.
func FixedPointToFloat(raw string, decimals int32) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid fixed-point amount %q: %w", raw, err)
	}
	return d.Shift(-decimals).InexactFloat64(), nil
}

// FormatCoinAmount renders a coin amount with at most places decimals and no trailing zeros.
// Example: 1.23450000 => "1.2345", 0 => "0".
func FormatCoinAmount(amount float64, places int32) string {
	return decimal.NewFromFloat(amount).Round(places).String()
}
