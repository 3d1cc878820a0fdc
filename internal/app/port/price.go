package port

import "context"

// PriceFeedClient fetches spot prices keyed by price feed id.
type PriceFeedClient interface {
	GetSimplePrices(ctx context.Context, feedIDs []string, vsCurrency string) (map[string]float64, error)
}

// CoinPriceService caches live USD prices per coin.
type CoinPriceService interface {
	LoadAndCachePrices(ctx context.Context) error
	// GetPriceUSD returns false when no live price is cached for the coin.
	GetPriceUSD(coinID string) (float64, bool)
}
