package utils

import (
	"fmt"
	"math"
)

var hashrateUnits = []string{"H/s", "KH/s", "MH/s", "GH/s", "TH/s", "PH/s"} //nolint:gochecknoglobals

// Decimal places used by the two display conventions.
const (
	HashrateCardDecimals   = 1 // wallet cards, summaries
	HashrateWorkerDecimals = 2 // worker rows, CLI tables
)

// FormatHashrate scales an H/s value by factors of 1000 up to PH/s and renders it with
// the given number of decimals. Plain H/s values are rendered without decimals.
// Negative, NaN and infinite inputs render as "0 H/s".
func FormatHashrate(value float64, decimals int) string {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return "0 H/s"
	}
	unit := 0
	for value >= 1000 && unit < len(hashrateUnits)-1 {
		value /= 1000
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%.0f H/s", math.Floor(value))
	}
	if decimals < 0 {
		decimals = 0
	}
	// 999.96 KH/s at one decimal would print as "1000.0 KH/s".
	scale := math.Pow10(decimals)
	if math.Round(value*scale)/scale >= 1000 && unit < len(hashrateUnits)-1 {
		value /= 1000
		unit++
	}
	return fmt.Sprintf("%.*f %s", decimals, value, hashrateUnits[unit])
}
