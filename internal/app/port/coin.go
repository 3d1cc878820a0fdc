package port

import "pool_monitor/internal/domain/entity"

// CoinRegistry resolves static coin metadata. Unknown coins never produce an error.
type CoinRegistry interface {
	// GetDivisor returns 10^decimals, or 10^8 for unknown coins.
	GetDivisor(coinID string) int64
	GetDecimals(coinID string) int32
	// GetDisplayName falls back to the uppercased coin id.
	GetDisplayName(coinID string) string
	// GetSymbol falls back to the uppercased coin id.
	GetSymbol(coinID string) string
	// GetPriceFeedID returns false when the coin has no price feed.
	GetPriceFeedID(coinID string) (string, bool)
	Get(coinID string) (entity.CoinConfig, bool)
	All() []entity.CoinConfig
}
