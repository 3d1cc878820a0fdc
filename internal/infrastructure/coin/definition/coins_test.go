package coindefinition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDivisor(t *testing.T) {
	r := NewCoinRegistry()

	tests := []struct {
		coin string
		want int64
	}{
		{"btc", 100_000_000},
		{"xmr", 1_000_000_000_000},
		{"erg", 1_000_000_000},
		{"nexa", 100},
		{"etc", 1_000_000_000_000_000_000},
		{"BTC", 100_000_000},
		{"totally-unknown-coin", 100_000_000},
		{"", 100_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.coin, func(t *testing.T) {
			assert.Equal(t, tt.want, r.GetDivisor(tt.coin))
		})
	}
}

func TestUnknownCoinFallbacks(t *testing.T) {
	r := NewCoinRegistry()

	assert.Equal(t, "XYZ", r.GetDisplayName("xyz"))
	assert.Equal(t, "XYZ", r.GetSymbol("xyz"))
	assert.Equal(t, DefaultDecimals, r.GetDecimals("xyz"))

	id, ok := r.GetPriceFeedID("xyz")
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestKnownCoinMetadata(t *testing.T) {
	r := NewCoinRegistry()

	c, ok := r.Get("kas")
	require.True(t, ok)
	assert.Equal(t, "Kaspa", c.DisplayName)
	assert.Equal(t, "KAS", r.GetSymbol("kas"))

	id, ok := r.GetPriceFeedID("rvn")
	require.True(t, ok)
	assert.Equal(t, "ravencoin", id)
}

func TestAllIsSortedAndComplete(t *testing.T) {
	all := NewCoinRegistry().All()
	require.Len(t, all, len(allKnownCoins))
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}
	for _, c := range all {
		assert.NotEmpty(t, c.PriceFeedID, c.ID)
		assert.Positive(t, c.Decimals, c.ID)
	}
}
