package utils

import "math"

// DailyProfit is the electricity-adjusted profit for one day.
type DailyProfit struct {
	ElectricityCost float64 `json:"electricityCost"`
	NetProfit       float64 `json:"netProfit"`
}

// ConvertToUSD returns coinAmount * livePriceUSD. A nil or invalid price yields 0.
func ConvertToUSD(coinAmount float64, livePriceUSD *float64) float64 {
	if livePriceUSD == nil {
		return 0
	}
	p := *livePriceUSD
	if math.IsNaN(p) || math.IsInf(p, 0) || math.IsNaN(coinAmount) || math.IsInf(coinAmount, 0) {
		return 0
	}
	return coinAmount * p
}

// CalculateDailyProfit computes cost = kW * 24h * rate and net = revenue - cost.
// Net profit is not clamped; a negative value is a loss.
func CalculateDailyProfit(dailyRevenueUSD, powerWatts, electricityRatePerKwh float64) DailyProfit {
	cost := (powerWatts / 1000) * 24 * electricityRatePerKwh
	return DailyProfit{
		ElectricityCost: cost,
		NetProfit:       dailyRevenueUSD - cost,
	}
}
