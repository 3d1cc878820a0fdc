package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"pool_monitor/internal/app/port"
	"pool_monitor/internal/pkg/metrics"
	"pool_monitor/internal/pkg/utils"
)

// CoinPriceConfig tunes the price cache.
type CoinPriceConfig struct {
	VsCurrency       string
	CacheTTL         time.Duration
	MaxIDsPerRequest int
	MaxConcurrent    int
}

// coinPriceServiceImpl implements port.CoinPriceService. Prices are keyed by coin id.
type coinPriceServiceImpl struct {
	coins  port.CoinRegistry
	feed   port.PriceFeedClient
	logger port.Logger
	cfg    CoinPriceConfig
	prices *cache.Cache
}

// NewCoinPriceService creates the price cache over the coin registry's price feed ids.
func NewCoinPriceService(coins port.CoinRegistry, feed port.PriceFeedClient, l port.Logger, cfg CoinPriceConfig) port.CoinPriceService {
	if cfg.VsCurrency == "" {
		cfg.VsCurrency = "usd"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 2
	}
	return &coinPriceServiceImpl{
		coins:  coins,
		feed:   feed,
		logger: l,
		cfg:    cfg,
		prices: cache.New(cfg.CacheTTL, 10*time.Minute),
	}
}

// GetPriceUSD returns the cached price. A missing or expired price reports false.
func (s *coinPriceServiceImpl) GetPriceUSD(coinID string) (float64, bool) {
	v, found := s.prices.Get(coinID)
	if !found {
		return 0, false
	}
	price, ok := v.(float64)
	return price, ok
}

// LoadAndCachePrices refreshes every coin that has a price feed id. Failed batches
// keep their previously cached prices until those expire.
func (s *coinPriceServiceImpl) LoadAndCachePrices(ctx context.Context) error {
	coinsByFeed := make(map[string][]string)
	for _, c := range s.coins.All() {
		if feedID, ok := s.coins.GetPriceFeedID(c.ID); ok {
			coinsByFeed[feedID] = append(coinsByFeed[feedID], c.ID)
		}
	}
	if len(coinsByFeed) == 0 {
		s.logger.Warn("No coins with a price feed id, skipping price refresh")
		return nil
	}

	feedIDs := make([]string, 0, len(coinsByFeed))
	for id := range coinsByFeed {
		feedIDs = append(feedIDs, id)
	}
	sort.Strings(feedIDs)

	batches := utils.BatchStrings(feedIDs, s.cfg.MaxIDsPerRequest)
	s.logger.Info("Refreshing coin prices", "feeds", len(feedIDs), "batches", len(batches))

	var (
		mu      sync.Mutex
		cached  int
		failed  int
		lastErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrent)
	for _, batch := range batches {
		batch := batch
		g.Go(func() error {
			prices, err := s.feed.GetSimplePrices(gctx, batch, s.cfg.VsCurrency)
			if err != nil {
				s.logger.Error("Failed to fetch price batch", "ids", len(batch), "error", err)
				metrics.PriceUpdatesTotal.WithLabelValues(metrics.OutcomeError).Inc()
				mu.Lock()
				failed++
				lastErr = err
				mu.Unlock()
				return nil // Report as handled
			}
			metrics.PriceUpdatesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

			n := 0
			for feedID, price := range prices {
				if price <= 0 {
					continue
				}
				for _, coinID := range coinsByFeed[feedID] {
					s.prices.Set(coinID, price, cache.DefaultExpiration)
					n++
				}
			}
			mu.Lock()
			cached += n
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("Coin prices refreshed", "cached", cached, "failedBatches", failed)
	if failed == len(batches) {
		return fmt.Errorf("all %d price batches failed: %w", failed, lastErr)
	}
	return nil
}
