package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"pool_monitor/internal/app/port"
	"pool_monitor/internal/domain/entity"
	pooldefinition "pool_monitor/internal/infrastructure/pool/definition"
	"pool_monitor/internal/pkg/logger"
)

type fakeWalletProvider struct {
	mu       sync.Mutex
	settings entity.AccountSettings
}

func (p *fakeWalletProvider) GetSettings() (entity.AccountSettings, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings, nil
}

func (p *fakeWalletProvider) set(s entity.AccountSettings) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings = s
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixedPrices map[string]float64

func (fixedPrices) LoadAndCachePrices(context.Context) error { return nil }

func (p fixedPrices) GetPriceUSD(coinID string) (float64, bool) {
	v, ok := p[coinID]
	return v, ok
}

func rvnWallet(id, address string, order int) entity.Wallet {
	return entity.Wallet{ID: id, Name: id, PoolID: "2miners", Coin: "rvn", Address: address, Enabled: true, DisplayOrder: order}
}

func rvnURL(address string) string {
	return pooldefinition.TwoMiners.BuildStatsURL("rvn", address)
}

func newTestCoordinator(t *testing.T, settings entity.AccountSettings, client *fakePoolHTTPClient, prices port.CoinPriceService) (*refreshCoordinatorImpl, *fakeWalletProvider, *fakeClock) {
	t.Helper()
	wallets := &fakeWalletProvider{settings: settings}
	clock := &fakeClock{t: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
	c := NewRefreshCoordinator(wallets, newTestFetcher(client), NewEntitlementPolicy(), pooldefinition.NewPoolRegistry(),
		prices, logger.Nop{}, RefreshConfig{MaxConcurrent: 4, WalletTimeout: 5 * time.Second}).(*refreshCoordinatorImpl)
	c.now = clock.Now
	return c, wallets, clock
}

func waitEntered(t *testing.T, client *fakePoolHTTPClient, url string) {
	t.Helper()
	for {
		select {
		case got := <-client.entered:
			if got == url {
				return
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("request to %s never started", url)
		}
	}
}

func TestRefreshIsolatesWalletFailures(t *testing.T) {
	client := newFakePoolHTTPClient()
	client.set(rvnURL("RA"), fakeResponse{body: twoMinersRVN, status: 200})
	client.set(rvnURL("RB"), fakeResponse{err: fasthttp.ErrTimeout})
	client.set(rvnURL("RC"), fakeResponse{body: twoMinersRVN, status: 200})

	settings := entity.AccountSettings{
		Tier:    entity.TierPro,
		Wallets: []entity.Wallet{rvnWallet("a", "RA", 0), rvnWallet("b", "RB", 1), rvnWallet("c", "RC", 2)},
	}
	c, _, _ := newTestCoordinator(t, settings, client, nil)

	started, err := c.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, started)

	snap := c.Snapshot()
	assert.Equal(t, entity.RefreshIdle, snap.State)
	require.NotNil(t, snap.LastRefreshedAt)
	require.Len(t, snap.Wallets, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{snap.Wallets[0].WalletID, snap.Wallets[1].WalletID, snap.Wallets[2].WalletID})

	a, _ := snap.Wallet("a")
	assert.Empty(t, a.Error)
	assert.Equal(t, 1e6, a.Hashrate)
	assert.Equal(t, "1.0 MH/s", a.HashrateDisplay)
	assert.Equal(t, "https://rvn.2miners.com/account/RA", a.DashboardURL)

	b, _ := snap.Wallet("b")
	assert.Equal(t, entity.ErrorKindFetch, b.ErrorKind)
	assert.NotEmpty(t, b.Error)
	assert.Zero(t, b.Hashrate)
	assert.Empty(t, b.HashrateDisplay)

	cw, _ := snap.Wallet("c")
	assert.Empty(t, cw.Error)
}

func TestRefreshSingleFlight(t *testing.T) {
	client := newFakePoolHTTPClient()
	client.set(rvnURL("RA"), fakeResponse{body: twoMinersRVN, status: 200})
	gate := client.block(rvnURL("RA"))

	settings := entity.AccountSettings{Tier: entity.TierFree, Wallets: []entity.Wallet{rvnWallet("a", "RA", 0)}}
	c, _, _ := newTestCoordinator(t, settings, client, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		started, err := c.Refresh(context.Background())
		assert.True(t, started)
		assert.NoError(t, err)
	}()
	waitEntered(t, client, rvnURL("RA"))
	assert.Equal(t, entity.RefreshFetching, c.Snapshot().State)

	started, err := c.Refresh(context.Background())
	assert.NoError(t, err)
	assert.False(t, started)
	assert.False(t, c.Trigger(context.Background()))

	close(gate)
	<-done

	assert.Equal(t, 1, client.callCount(rvnURL("RA")))
	assert.Equal(t, entity.RefreshIdle, c.Snapshot().State)
}

func TestRefreshRestrictedWalletsSkipNetwork(t *testing.T) {
	client := newFakePoolHTTPClient()
	client.set(rvnURL("RA"), fakeResponse{body: twoMinersRVN, status: 200})

	settings := entity.AccountSettings{
		Tier: entity.TierFree,
		// b comes first in display order, so b is the free wallet.
		Wallets: []entity.Wallet{rvnWallet("a", "RA", 1), rvnWallet("b", "RB", 0), rvnWallet("c", "RC", 2)},
	}
	client.set(rvnURL("RB"), fakeResponse{body: twoMinersRVN, status: 200})
	c, _, _ := newTestCoordinator(t, settings, client, nil)

	_, err := c.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, client.totalCalls())
	assert.Equal(t, 1, client.callCount(rvnURL("RB")))

	snap := c.Snapshot()
	for _, id := range []string{"a", "c"} {
		w, ok := snap.Wallet(id)
		require.True(t, ok)
		assert.True(t, w.Restricted)
		assert.Equal(t, entity.UpgradeReason, w.Error)
		assert.Equal(t, entity.ErrorKindRestricted, w.ErrorKind)
	}
	b, _ := snap.Wallet("b")
	assert.False(t, b.Restricted)
}

func TestRefreshSelfHealsStuckCycle(t *testing.T) {
	client := newFakePoolHTTPClient()
	client.set(rvnURL("RA"), fakeResponse{body: twoMinersRVN, status: 200})
	client.set(rvnURL("RB"), fakeResponse{body: twoMinersRVN, status: 200})
	gate := client.block(rvnURL("RA"))

	settings := entity.AccountSettings{Tier: entity.TierPro, Wallets: []entity.Wallet{rvnWallet("a", "RA", 0)}}
	c, wallets, clock := newTestCoordinator(t, settings, client, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Refresh(context.Background())
	}()
	waitEntered(t, client, rvnURL("RA"))

	// Not stuck yet.
	clock.Advance(time.Minute)
	started, _ := c.Refresh(context.Background())
	assert.False(t, started)

	clock.Advance(defaultStuckTimeout)
	wallets.set(entity.AccountSettings{Tier: entity.TierPro, Wallets: []entity.Wallet{rvnWallet("b", "RB", 0)}})
	started, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, started)

	snap := c.Snapshot()
	assert.Equal(t, entity.RefreshIdle, snap.State)
	require.Len(t, snap.Wallets, 1)
	assert.Equal(t, "b", snap.Wallets[0].WalletID)

	// The abandoned cycle's late write and finish are dropped.
	close(gate)
	<-done
	snap = c.Snapshot()
	assert.Equal(t, entity.RefreshIdle, snap.State)
	require.Len(t, snap.Wallets, 1)
	assert.Equal(t, "b", snap.Wallets[0].WalletID)
}

func TestRefreshPublishesEvents(t *testing.T) {
	client := newFakePoolHTTPClient()
	client.set(rvnURL("RA"), fakeResponse{body: twoMinersRVN, status: 200})
	settings := entity.AccountSettings{Tier: entity.TierFree, Wallets: []entity.Wallet{rvnWallet("a", "RA", 0)}}
	c, _, _ := newTestCoordinator(t, settings, client, nil)

	events, unsubscribe := c.Subscribe()
	_, err := c.Refresh(context.Background())
	require.NoError(t, err)

	var got []entity.RefreshEvent
	for len(got) < 3 {
		select {
		case ev := <-events:
			got = append(got, ev)
		case <-time.After(time.Second):
			t.Fatalf("expected 3 events, got %d", len(got))
		}
	}
	assert.Equal(t, entity.EventStateChanged, got[0].Type)
	assert.Equal(t, entity.RefreshFetching, got[0].State)
	assert.Equal(t, entity.EventWalletUpdated, got[1].Type)
	require.NotNil(t, got[1].Wallet)
	assert.Equal(t, "a", got[1].Wallet.WalletID)
	assert.Equal(t, entity.EventStateChanged, got[2].Type)
	assert.Equal(t, entity.RefreshIdle, got[2].State)
	assert.Equal(t, got[0].CycleID, got[2].CycleID)

	unsubscribe()
	unsubscribe()
	_, open := <-events
	assert.False(t, open)
}

func TestRefreshComputesProfit(t *testing.T) {
	client := newFakePoolHTTPClient()
	client.set(rvnURL("RA"), fakeResponse{body: twoMinersRVN, status: 200})
	settings := entity.AccountSettings{
		Tier:                  entity.TierFree,
		ElectricityRatePerKwh: 0.1,
		PowerWatts:            100,
		Wallets:               []entity.Wallet{rvnWallet("a", "RA", 0)},
	}
	c, _, _ := newTestCoordinator(t, settings, client, fixedPrices{"rvn": 0.02})

	_, err := c.Refresh(context.Background())
	require.NoError(t, err)

	a, ok := c.Snapshot().Wallet("a")
	require.True(t, ok)
	require.NotNil(t, a.Profit)
	assert.InDelta(t, 0.02, a.Profit.PriceUSD, 1e-12)
	assert.InDelta(t, 0.01, a.Profit.BalanceUSD, 1e-12)
	assert.InDelta(t, 0.02, a.Profit.Earnings24hUSD, 1e-12)
	assert.InDelta(t, 0.24, a.Profit.ElectricityCost, 1e-12)
	assert.InDelta(t, -0.22, a.Profit.NetProfit, 1e-12)
}

func TestRefreshProfitWithoutPrice(t *testing.T) {
	client := newFakePoolHTTPClient()
	client.set(rvnURL("RA"), fakeResponse{body: twoMinersRVN, status: 200})
	settings := entity.AccountSettings{Tier: entity.TierFree, Wallets: []entity.Wallet{rvnWallet("a", "RA", 0)}}
	c, _, _ := newTestCoordinator(t, settings, client, fixedPrices{})

	_, err := c.Refresh(context.Background())
	require.NoError(t, err)

	a, _ := c.Snapshot().Wallet("a")
	require.NotNil(t, a.Profit)
	assert.Zero(t, a.Profit.PriceUSD)
	assert.Zero(t, a.Profit.Earnings24hUSD)
}

func TestRefreshPrunesRemovedWallets(t *testing.T) {
	client := newFakePoolHTTPClient()
	client.set(rvnURL("RA"), fakeResponse{body: twoMinersRVN, status: 200})
	client.set(rvnURL("RB"), fakeResponse{body: twoMinersRVN, status: 200})
	settings := entity.AccountSettings{Tier: entity.TierPro, Wallets: []entity.Wallet{rvnWallet("a", "RA", 0), rvnWallet("b", "RB", 1)}}
	c, wallets, _ := newTestCoordinator(t, settings, client, nil)

	_, err := c.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, c.Snapshot().Wallets, 2)

	disabled := rvnWallet("b", "RB", 1)
	disabled.Enabled = false
	wallets.set(entity.AccountSettings{Tier: entity.TierPro, Wallets: []entity.Wallet{rvnWallet("a", "RA", 0), disabled}})
	_, err = c.Refresh(context.Background())
	require.NoError(t, err)

	snap := c.Snapshot()
	require.Len(t, snap.Wallets, 1)
	assert.Equal(t, "a", snap.Wallets[0].WalletID)
}

func TestRunRefreshesOnWalletChange(t *testing.T) {
	client := newFakePoolHTTPClient()
	client.set(rvnURL("RA"), fakeResponse{body: twoMinersRVN, status: 200})
	settings := entity.AccountSettings{Tier: entity.TierFree, RefreshIntervalMinutes: 60, Wallets: []entity.Wallet{rvnWallet("a", "RA", 0)}}
	c, _, _ := newTestCoordinator(t, settings, client, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	waitEntered(t, client, rvnURL("RA"))
	c.NotifyWalletsChanged()
	waitEntered(t, client, rvnURL("RA"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.GreaterOrEqual(t, client.callCount(rvnURL("RA")), 2)
}

func TestRunAbandonsHungCycleOnNextTrigger(t *testing.T) {
	client := newFakePoolHTTPClient()
	client.ignoreCtx = true
	client.set(rvnURL("RA"), fakeResponse{body: twoMinersRVN, status: 200})
	gate := client.block(rvnURL("RA"))

	settings := entity.AccountSettings{Tier: entity.TierFree, RefreshIntervalMinutes: 60, Wallets: []entity.Wallet{rvnWallet("a", "RA", 0)}}
	c, _, clock := newTestCoordinator(t, settings, client, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	waitEntered(t, client, rvnURL("RA"))
	first := c.Snapshot().CycleID
	assert.Equal(t, entity.RefreshFetching, c.Snapshot().State)

	clock.Advance(10 * time.Minute)
	c.NotifyWalletsChanged()
	waitEntered(t, client, rvnURL("RA"))

	assert.Equal(t, 2, client.callCount(rvnURL("RA")))
	assert.NotEqual(t, first, c.Snapshot().CycleID)

	close(gate)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
