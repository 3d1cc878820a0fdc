package port

import (
	"context"

	"pool_monitor/internal/domain/entity"
)

// PoolRegistry is the static pool adapter table.
type PoolRegistry interface {
	Resolve(poolID string) (entity.PoolAdapter, bool)
	SupportsCoin(poolID, coinID string) bool
	PoolsForCoin(coinID string) []entity.PoolAdapter
	All() []entity.PoolAdapter
}

// PoolStatsParser turns one pool's raw response into PoolStats. Implementations are pure.
type PoolStatsParser func(body []byte, req entity.ParseRequest) (entity.PoolStats, error)

// ParserRegistry looks up the parser for a pool id.
type ParserRegistry interface {
	Lookup(poolID string) (PoolStatsParser, bool)
}

// PoolHTTPClient performs a single bounded GET against a pool API.
// A non-nil error means no usable response arrived; status is returned as-is otherwise.
type PoolHTTPClient interface {
	Get(ctx context.Context, url string) (body []byte, status int, err error)
}

// PoolDataFetcher is the fetch orchestrator: validate, request, parse.
type PoolDataFetcher interface {
	FetchPoolData(ctx context.Context, poolID, coinID, address string) (entity.PoolStats, error)
}
