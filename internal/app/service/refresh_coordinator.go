package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"pool_monitor/internal/app/port"
	"pool_monitor/internal/domain/entity"
	"pool_monitor/internal/pkg/metrics"
	"pool_monitor/internal/pkg/tracing"
	"pool_monitor/internal/pkg/utils"
)

const (
	defaultMaxConcurrentFetches = 8
	defaultStuckTimeout         = 3 * time.Minute
	defaultWalletTimeout        = 15 * time.Second
	defaultRefreshInterval      = 5 * time.Minute
	minRefreshInterval          = time.Minute
	subscriberBuffer            = 64
)

// RefreshConfig tunes the coordinator.
type RefreshConfig struct {
	MaxConcurrent int
	// StuckTimeout is how long a cycle may stay Fetching before the next trigger abandons it.
	StuckTimeout time.Duration
	// WalletTimeout bounds one wallet's fetch, on top of the HTTP client's own timeout.
	WalletTimeout time.Duration
	// DefaultInterval applies when the settings carry no refresh interval.
	DefaultInterval time.Duration
}

func (c RefreshConfig) withDefaults() RefreshConfig {
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = defaultMaxConcurrentFetches
	}
	if c.StuckTimeout <= 0 {
		c.StuckTimeout = defaultStuckTimeout
	}
	if c.WalletTimeout <= 0 {
		c.WalletTimeout = defaultWalletTimeout
	}
	if c.DefaultInterval <= 0 {
		c.DefaultInterval = defaultRefreshInterval
	}
	return c
}

// refreshCoordinatorImpl implements port.RefreshCoordinator.
type refreshCoordinatorImpl struct {
	wallets port.WalletProvider
	fetcher port.PoolDataFetcher
	policy  port.EntitlementPolicy
	pools   port.PoolRegistry
	prices  port.CoinPriceService
	logger  port.Logger
	cfg     RefreshConfig
	now     func() time.Time

	mu              sync.Mutex
	state           entity.RefreshState
	generation      uint64
	cycleID         string
	startedAt       time.Time
	lastRefreshedAt *time.Time
	order           []string
	results         map[string]entity.WalletData
	subscribers     map[int]chan entity.RefreshEvent
	nextSubscriber  int

	walletsChanged chan struct{}
}

// NewRefreshCoordinator creates the coordinator. prices may be nil, in which case
// wallet data carries no profit block.
func NewRefreshCoordinator(
	wallets port.WalletProvider,
	fetcher port.PoolDataFetcher,
	policy port.EntitlementPolicy,
	pools port.PoolRegistry,
	prices port.CoinPriceService,
	l port.Logger,
	cfg RefreshConfig,
) port.RefreshCoordinator {
	return &refreshCoordinatorImpl{
		wallets:        wallets,
		fetcher:        fetcher,
		policy:         policy,
		pools:          pools,
		prices:         prices,
		logger:         l,
		cfg:            cfg.withDefaults(),
		now:            time.Now,
		state:          entity.RefreshIdle,
		results:        make(map[string]entity.WalletData),
		subscribers:    make(map[int]chan entity.RefreshEvent),
		walletsChanged: make(chan struct{}, 1),
	}
}

// cycle identifies one Fetching period. Writes from a cycle whose generation is no
// longer current are dropped.
type cycle struct {
	generation uint64
	id         string
}

// begin moves Idle to Fetching. A Fetching state older than StuckTimeout is abandoned.
func (s *refreshCoordinatorImpl) begin() (cycle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.state == entity.RefreshFetching {
		if now.Sub(s.startedAt) < s.cfg.StuckTimeout {
			return cycle{}, false
		}
		s.logger.Warn("Refresh cycle stuck, abandoning it",
			"cycle_id", s.cycleID, "started_at", s.startedAt, "stuck_for", now.Sub(s.startedAt).String())
		metrics.RefreshCyclesTotal.WithLabelValues(metrics.OutcomeAbandoned).Inc()
	}

	s.generation++
	s.cycleID = uuid.NewString()
	s.state = entity.RefreshFetching
	s.startedAt = now
	metrics.RefreshInProgress.Set(1)
	s.publishLocked(entity.RefreshEvent{Type: entity.EventStateChanged, CycleID: s.cycleID, State: s.state, LastRefreshedAt: s.lastRefreshedAt})
	return cycle{generation: s.generation, id: s.cycleID}, true
}

// finish moves Fetching back to Idle unless the cycle was abandoned meanwhile.
func (s *refreshCoordinatorImpl) finish(c cycle, outcome string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.generation != s.generation {
		s.logger.Warn("Abandoned refresh cycle finished late", "cycle_id", c.id)
		return
	}
	now := s.now()
	s.state = entity.RefreshIdle
	if outcome == metrics.OutcomeSuccess {
		s.lastRefreshedAt = &now
	}
	metrics.RefreshInProgress.Set(0)
	metrics.RefreshCyclesTotal.WithLabelValues(outcome).Inc()
	s.publishLocked(entity.RefreshEvent{Type: entity.EventStateChanged, CycleID: c.id, State: s.state, LastRefreshedAt: s.lastRefreshedAt})
}

// Refresh implements port.RefreshCoordinator.
func (s *refreshCoordinatorImpl) Refresh(ctx context.Context) (bool, error) {
	c, ok := s.begin()
	if !ok {
		s.logger.Debug("Refresh already in progress, skipping trigger")
		return false, nil
	}
	return true, s.runCycle(ctx, c)
}

// Trigger implements port.RefreshCoordinator. The cycle outlives the caller's context.
func (s *refreshCoordinatorImpl) Trigger(ctx context.Context) bool {
	_, ok := s.start(context.WithoutCancel(ctx))
	return ok
}

// start claims the single-flight slot synchronously and runs the cycle in the background.
// The returned channel is closed when the cycle returns.
func (s *refreshCoordinatorImpl) start(ctx context.Context) (<-chan struct{}, bool) {
	c, ok := s.begin()
	if !ok {
		return nil, false
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := s.runCycle(ctx, c); err != nil {
			s.logger.Error("Background refresh failed", "cycle_id", c.id, "error", err)
		}
	}()
	return done, true
}

func (s *refreshCoordinatorImpl) runCycle(ctx context.Context, c cycle) (err error) {
	ctx, span := tracing.Tracer().Start(ctx, "RefreshCycle", trace.WithAttributes(attribute.String("cycle.id", c.id)))
	defer span.End()

	outcome := metrics.OutcomeSuccess
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("refresh cycle panic: %v", r)
		}
		if err != nil {
			outcome = metrics.OutcomeError
			span.RecordError(err)
		}
		s.finish(c, outcome)
	}()

	settings, err := s.wallets.GetSettings()
	if err != nil {
		return fmt.Errorf("load wallet settings: %w", err)
	}

	enabled := settings.EnabledWallets()
	s.setOrder(c, enabled)
	isPro := settings.Tier.IsPro()
	span.SetAttributes(attribute.Int("wallets.enabled", len(enabled)), attribute.Bool("account.pro", isPro))
	s.logger.Info("Refresh cycle started", "cycle_id", c.id, "wallets", len(enabled), "tier", string(settings.Tier))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrent)
	restricted := 0
	for i, w := range enabled {
		decision := s.policy.CheckWalletAllowed(w, isPro, i)
		if !decision.Allowed {
			restricted++
			s.write(c, entity.NewRestrictedWalletData(w, decision.Reason, s.now()))
			continue
		}
		w := w
		g.Go(func() error {
			s.write(c, s.fetchWallet(gctx, settings, w))
			return nil // Report as handled
		})
	}
	_ = g.Wait()

	metrics.WalletsRestricted.Set(float64(restricted))
	s.logger.Info("Refresh cycle finished", "cycle_id", c.id, "wallets", len(enabled), "restricted", restricted)
	return nil
}

// fetchWallet never fails: every outcome becomes a WalletData record.
func (s *refreshCoordinatorImpl) fetchWallet(ctx context.Context, settings entity.AccountSettings, w entity.Wallet) (data entity.WalletData) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Wallet fetch panicked", "wallet_id", w.ID, "panic", r)
			data = entity.NewFailedWalletData(w, fmt.Errorf("internal error: %v", r), s.now())
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.WalletTimeout)
	defer cancel()

	stats, err := s.fetcher.FetchPoolData(ctx, w.PoolID, w.Coin, w.Address)
	now := s.now()
	if err != nil {
		s.logger.Warn("Wallet fetch failed", "wallet_id", w.ID, "pool", w.PoolID, "coin", w.Coin,
			"kind", string(entity.ClassifyError(err)), "retry_next_cycle", entity.IsTransient(err), "error", err)
		data = entity.NewFailedWalletData(w, err, now)
	} else {
		data = entity.NewWalletData(w, stats, now)
		data.HashrateDisplay = utils.FormatHashrate(data.Hashrate, utils.HashrateCardDecimals)
		data.Profit = s.profit(settings, w, stats)
	}
	if adapter, ok := s.pools.Resolve(w.PoolID); ok {
		if u, ok := adapter.BuildDashboardURL(strings.ToLower(w.Coin), w.Address); ok {
			data.DashboardURL = u
		}
	}
	return data
}

// profit applies the conversion math with the latest cached price. A missing price yields zero USD values.
func (s *refreshCoordinatorImpl) profit(settings entity.AccountSettings, w entity.Wallet, stats entity.PoolStats) *entity.ProfitBreakdown {
	if s.prices == nil {
		return nil
	}
	var price *float64
	if p, ok := s.prices.GetPriceUSD(strings.ToLower(w.Coin)); ok {
		price = &p
	}
	earningsUSD := utils.ConvertToUSD(stats.Earnings24h, price)
	daily := utils.CalculateDailyProfit(earningsUSD, settings.EffectivePowerWatts(w), settings.ElectricityRatePerKwh)

	out := &entity.ProfitBreakdown{
		BalanceUSD:      utils.ConvertToUSD(stats.Balance, price),
		Earnings24hUSD:  earningsUSD,
		ElectricityCost: daily.ElectricityCost,
		NetProfit:       daily.NetProfit,
	}
	if price != nil {
		out.PriceUSD = *price
	}
	return out
}

// setOrder records the display order for this cycle and forgets wallets that were removed or disabled.
func (s *refreshCoordinatorImpl) setOrder(c cycle, enabled []entity.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.generation != s.generation {
		return
	}
	s.order = make([]string, 0, len(enabled))
	keep := make(map[string]struct{}, len(enabled))
	for _, w := range enabled {
		s.order = append(s.order, w.ID)
		keep[w.ID] = struct{}{}
	}
	for id := range s.results {
		if _, ok := keep[id]; !ok {
			delete(s.results, id)
		}
	}
}

// write stores one wallet's result as soon as it settles.
func (s *refreshCoordinatorImpl) write(c cycle, data entity.WalletData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.generation != s.generation {
		s.logger.Debug("Dropping result from abandoned cycle", "cycle_id", c.id, "wallet_id", data.WalletID)
		return
	}
	s.results[data.WalletID] = data
	d := data
	s.publishLocked(entity.RefreshEvent{Type: entity.EventWalletUpdated, CycleID: c.id, State: s.state, Wallet: &d})
}

// publishLocked fans an event out without blocking. A slow subscriber misses events.
func (s *refreshCoordinatorImpl) publishLocked(ev entity.RefreshEvent) {
	for id, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			s.logger.Debug("Subscriber buffer full, dropping event", "subscriber", id, "type", string(ev.Type))
		}
	}
}

// Subscribe implements port.RefreshCoordinator.
func (s *refreshCoordinatorImpl) Subscribe() (<-chan entity.RefreshEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubscriber
	s.nextSubscriber++
	ch := make(chan entity.RefreshEvent, subscriberBuffer)
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Snapshot implements port.RefreshCoordinator. Wallets come back in display order.
func (s *refreshCoordinatorImpl) Snapshot() entity.RefreshSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := entity.RefreshSnapshot{
		State:   s.state,
		CycleID: s.cycleID,
		Wallets: make([]entity.WalletData, 0, len(s.order)),
	}
	if s.lastRefreshedAt != nil {
		t := *s.lastRefreshedAt
		snap.LastRefreshedAt = &t
	}
	for _, id := range s.order {
		if d, ok := s.results[id]; ok {
			snap.Wallets = append(snap.Wallets, d)
		}
	}
	return snap
}

// NotifyWalletsChanged implements port.RefreshCoordinator. Repeated notifications coalesce.
func (s *refreshCoordinatorImpl) NotifyWalletsChanged() {
	select {
	case s.walletsChanged <- struct{}{}:
	default:
	}
}

// interval re-reads the settings so interval changes apply from the next tick.
func (s *refreshCoordinatorImpl) interval() time.Duration {
	settings, err := s.wallets.GetSettings()
	if err != nil || settings.RefreshIntervalMinutes <= 0 {
		return s.cfg.DefaultInterval
	}
	return max(time.Duration(settings.RefreshIntervalMinutes)*time.Minute, minRefreshInterval)
}

// Run implements port.RefreshCoordinator. It refreshes immediately, then on every tick
// and wallet-list change, until ctx is cancelled. Cycles run in the background so a hung
// cycle never blocks the loop: the next trigger after StuckTimeout abandons it.
// A trigger that lands while a cycle is running is kept and retried when that cycle ends.
func (s *refreshCoordinatorImpl) Run(ctx context.Context) error {
	pending := true
	var running <-chan struct{}
	for {
		if pending {
			if done, ok := s.start(ctx); ok {
				running = done
				pending = false
			} else {
				s.logger.Debug("Refresh already in progress, trigger deferred")
			}
		}

		timer := time.NewTimer(s.interval())
		select {
		case <-ctx.Done():
			timer.Stop()
			if running != nil {
				<-running
			}
			return nil
		case <-timer.C:
			pending = true
		case <-s.walletsChanged:
			timer.Stop()
			pending = true
			s.logger.Info("Wallet list changed, refreshing")
		case <-running:
			timer.Stop()
			running = nil
		}
	}
}
