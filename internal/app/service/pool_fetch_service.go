package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pool_monitor/internal/app/port"
	"pool_monitor/internal/domain/entity"
	"pool_monitor/internal/pkg/metrics"
	"pool_monitor/internal/pkg/tracing"
)

const unknownPoolLabel = "unknown"

// poolFetchServiceImpl implements port.PoolDataFetcher.
type poolFetchServiceImpl struct {
	pools      port.PoolRegistry
	parsers    port.ParserRegistry
	client     port.PoolHTTPClient
	logger     port.Logger
	staleAfter map[string]time.Duration
	now        func() time.Time
}

// NewPoolFetchService creates the fetch orchestrator. staleAfter overrides the
// adapter's offline threshold per pool id.
func NewPoolFetchService(
	pools port.PoolRegistry,
	parsers port.ParserRegistry,
	client port.PoolHTTPClient,
	logger port.Logger,
	staleAfter map[string]time.Duration,
) port.PoolDataFetcher {
	return &poolFetchServiceImpl{
		pools:      pools,
		parsers:    parsers,
		client:     client,
		logger:     logger,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// FetchPoolData implements port.PoolDataFetcher. It makes exactly one request and never retries.
func (s *poolFetchServiceImpl) FetchPoolData(ctx context.Context, poolID, coinID, address string) (entity.PoolStats, error) {
	ctx, span := tracing.Tracer().Start(ctx, "FetchPoolData", trace.WithAttributes(
		attribute.String("pool.id", poolID),
		attribute.String("pool.coin", coinID),
	))
	defer span.End()

	start := time.Now()
	stats, err := s.fetch(ctx, poolID, strings.ToLower(strings.TrimSpace(coinID)), strings.TrimSpace(address))

	label := poolID
	if _, ok := s.pools.Resolve(poolID); !ok {
		label = unknownPoolLabel
	}
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = string(entity.ClassifyError(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	metrics.ObservePoolFetch(label, outcome, time.Since(start))
	return stats, err
}

func (s *poolFetchServiceImpl) fetch(ctx context.Context, poolID, coinID, address string) (entity.PoolStats, error) {
	adapter, ok := s.pools.Resolve(poolID)
	if !ok {
		return entity.PoolStats{}, &entity.UnsupportedError{PoolID: poolID, Coin: coinID, Err: entity.ErrUnknownPool}
	}
	if !adapter.SupportsCoin(coinID) {
		return entity.PoolStats{}, &entity.UnsupportedError{PoolID: poolID, Coin: coinID, Err: entity.ErrUnsupportedCoin}
	}
	parse, ok := s.parsers.Lookup(poolID)
	if !ok {
		return entity.PoolStats{}, fmt.Errorf("no parser registered for pool %s", poolID)
	}
	if address == "" {
		return entity.PoolStats{}, errors.New("wallet address is empty")
	}

	url := adapter.BuildStatsURL(coinID, address)
	body, status, err := s.client.Get(ctx, url)
	if err != nil {
		timeout := errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
		s.logger.Warn("Pool request failed", "pool", poolID, "coin", coinID, "timeout", timeout, "error", err)
		return entity.PoolStats{}, &entity.FetchError{PoolID: poolID, URL: url, Timeout: timeout, Err: err}
	}
	if status == fasthttp.StatusNotFound && adapter.NotFoundIsNoData {
		return entity.PoolStats{}, entity.ErrNoData
	}
	if status < 200 || status > 299 {
		s.logger.Warn("Pool returned non-2xx status", "pool", poolID, "coin", coinID, "status", status)
		return entity.PoolStats{}, &entity.FetchError{PoolID: poolID, URL: url, StatusCode: status}
	}

	req := entity.ParseRequest{
		Coin:       coinID,
		Address:    address,
		Now:        s.now(),
		StaleAfter: s.staleThreshold(adapter),
	}
	stats, err := safeParse(parse, body, req)
	if err != nil {
		if errors.Is(err, entity.ErrNoData) {
			return entity.PoolStats{}, entity.ErrNoData
		}
		s.logger.Error("Pool response could not be parsed", "pool", poolID, "coin", coinID, "error", err)
		return entity.PoolStats{}, &entity.ParseError{PoolID: poolID, Err: err}
	}

	s.logger.Debug("Pool stats fetched", "pool", poolID, "coin", coinID, "hashrate", stats.Hashrate, "workers", stats.WorkersTotal)
	return stats, nil
}

func (s *poolFetchServiceImpl) staleThreshold(adapter entity.PoolAdapter) time.Duration {
	if d, ok := s.staleAfter[adapter.ID]; ok && d > 0 {
		return d
	}
	return adapter.StaleAfter
}

// safeParse turns a parser panic into an error so one bad payload cannot take the process down.
func safeParse(parse port.PoolStatsParser, body []byte, req entity.ParseRequest) (stats entity.PoolStats, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()
	return parse(body, req)
}
