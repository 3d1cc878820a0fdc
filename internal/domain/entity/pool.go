package entity

import (
	"sort"
	"time"
)

// URLBuilder builds a pool URL from a coin id and a wallet address. Must be pure.
type URLBuilder func(coin, address string) string

// PoolAdapter describes one upstream pool API. Defined once at startup and never mutated.
type PoolAdapter struct {
	ID             string
	DisplayName    string
	SupportedCoins map[string]struct{}
	StatsURL       URLBuilder
	DashboardURL   URLBuilder // nil when the pool has no per-address page

	// NotFoundIsNoData marks pools that answer HTTP 404 for addresses they have never seen.
	NotFoundIsNoData bool
	// StaleAfter is the default silence after which a worker counts as offline.
	StaleAfter time.Duration
}

// SupportsCoin reports whether the pool mines the given coin.
func (p PoolAdapter) SupportsCoin(coin string) bool {
	_, ok := p.SupportedCoins[coin]
	return ok
}

// BuildStatsURL returns the stats endpoint for the coin and address.
func (p PoolAdapter) BuildStatsURL(coin, address string) string {
	return p.StatsURL(coin, address)
}

// BuildDashboardURL returns the pool's web page for the address, if it has one.
func (p PoolAdapter) BuildDashboardURL(coin, address string) (string, bool) {
	if p.DashboardURL == nil {
		return "", false
	}
	return p.DashboardURL(coin, address), true
}

// Coins returns the supported coin ids in sorted order.
func (p PoolAdapter) Coins() []string {
	coins := make([]string, 0, len(p.SupportedCoins))
	for c := range p.SupportedCoins {
		coins = append(coins, c)
	}
	sort.Strings(coins)
	return coins
}

// PoolInfo is the JSON view of an adapter served by the API.
type PoolInfo struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Coins       []string `json:"coins"`
}

// Info returns the serializable view of the adapter.
func (p PoolAdapter) Info() PoolInfo {
	return PoolInfo{ID: p.ID, DisplayName: p.DisplayName, Coins: p.Coins()}
}
