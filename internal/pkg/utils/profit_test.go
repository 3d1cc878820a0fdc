package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDailyProfitReportsLoss(t *testing.T) {
	p := CalculateDailyProfit(2.00, 200, 0.50)
	assert.InDelta(t, 2.40, p.ElectricityCost, 1e-9)
	assert.InDelta(t, -0.40, p.NetProfit, 1e-9)
}

func TestCalculateDailyProfitGain(t *testing.T) {
	p := CalculateDailyProfit(10, 1000, 0.10)
	assert.InDelta(t, 2.40, p.ElectricityCost, 1e-9)
	assert.InDelta(t, 7.60, p.NetProfit, 1e-9)
}

func TestCalculateDailyProfitNoPower(t *testing.T) {
	p := CalculateDailyProfit(3, 0, 0.25)
	assert.Zero(t, p.ElectricityCost)
	assert.InDelta(t, 3.0, p.NetProfit, 1e-9)
}

func TestConvertToUSD(t *testing.T) {
	price := 25.5
	assert.InDelta(t, 127.5, ConvertToUSD(5, &price), 1e-9)
	assert.Zero(t, ConvertToUSD(5, nil))

	zero := 0.0
	assert.Zero(t, ConvertToUSD(5, &zero))
}
