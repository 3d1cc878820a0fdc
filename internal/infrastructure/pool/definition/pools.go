package pooldefinition

import (
	"fmt"
	"net/url"
	"sort"
	"time"

	"pool_monitor/internal/app/port"
	"pool_monitor/internal/domain/entity"
)

func coinSet(coins ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(coins))
	for _, c := range coins {
		set[c] = struct{}{}
	}
	return set
}

// substitute maps a coin id through a per-pool naming table, passing unknown ids through.
func substitute(table map[string]string, coin string) string {
	if s, ok := table[coin]; ok {
		return s
	}
	return coin
}

// Per-pool coin naming tables. Each pool's quirks live in its own table.
var ( //nolint:gochecknoglobals // static tables
	f2poolCurrencies = map[string]string{
		"btc": "bitcoin",
		"bch": "bitcoin-cash",
		"ltc": "litecoin",
		"kas": "kaspa",
		"dgb": "digibyte",
	}
	herominersSubdomains = map[string]string{
		"xmr":   "monero",
		"rvn":   "ravencoin",
		"kas":   "kaspa",
		"erg":   "ergo",
		"zeph":  "zephyr",
		"xna":   "neoxa",
		"rtm":   "raptoreum",
		"etc":   "etc",
		"clore": "clore",
		"nexa":  "nexa",
	}
	viporPoolIDs = map[string]string{
		"rvn":   "ravencoin",
		"kas":   "kaspa",
		"erg":   "ergo",
		"xna":   "neoxa",
		"nexa":  "nexa",
		"clore": "clore",
	}
)

// Predefined pool adapters
var ( //nolint:gochecknoglobals // Global for definitions
	TwoMiners = entity.PoolAdapter{
		ID:             "2miners",
		DisplayName:    "2Miners",
		SupportedCoins: coinSet("etc", "ethw", "rvn", "kas", "erg", "xna", "clore", "zec", "btc", "bch"),
		StatsURL: func(coin, address string) string {
			return fmt.Sprintf("https://%s.2miners.com/api/accounts/%s", coin, url.PathEscape(address))
		},
		DashboardURL: func(coin, address string) string {
			return fmt.Sprintf("https://%s.2miners.com/account/%s", coin, url.PathEscape(address))
		},
		NotFoundIsNoData: true,
		StaleAfter:       10 * time.Minute,
	}
	Nanopool = entity.PoolAdapter{
		ID:             "nanopool",
		DisplayName:    "Nanopool",
		SupportedCoins: coinSet("etc", "xmr", "rvn", "zec", "erg"),
		StatsURL: func(coin, address string) string {
			return fmt.Sprintf("https://api.nanopool.org/v1/%s/user/%s", coin, url.PathEscape(address))
		},
		DashboardURL: func(coin, address string) string {
			return fmt.Sprintf("https://%s.nanopool.org/account/%s", coin, url.PathEscape(address))
		},
		StaleAfter: 15 * time.Minute,
	}
	F2Pool = entity.PoolAdapter{
		ID:             "f2pool",
		DisplayName:    "F2Pool",
		SupportedCoins: coinSet("btc", "bch", "ltc", "etc", "kas", "zec", "dgb"),
		StatsURL: func(coin, address string) string {
			return fmt.Sprintf("https://api.f2pool.com/%s/%s", substitute(f2poolCurrencies, coin), url.PathEscape(address))
		},
		DashboardURL: func(coin, address string) string {
			return fmt.Sprintf("https://www.f2pool.com/mining-user/%s?currency=%s", url.PathEscape(address), substitute(f2poolCurrencies, coin))
		},
		StaleAfter: 15 * time.Minute,
	}
	HeroMiners = entity.PoolAdapter{
		ID:             "herominers",
		DisplayName:    "HeroMiners",
		SupportedCoins: coinSet("xmr", "rvn", "kas", "erg", "etc", "zeph", "xna", "clore", "nexa", "rtm"),
		StatsURL: func(coin, address string) string {
			return fmt.Sprintf("https://%s.herominers.com/api/stats_address?address=%s&longpoll=false",
				substitute(herominersSubdomains, coin), url.QueryEscape(address))
		},
		DashboardURL: func(coin, address string) string {
			return fmt.Sprintf("https://%s.herominers.com/#/dashboard?addr=%s", substitute(herominersSubdomains, coin), url.QueryEscape(address))
		},
		StaleAfter: 10 * time.Minute,
	}
	Kryptex = entity.PoolAdapter{
		ID:             "kryptex",
		DisplayName:    "Kryptex Pool",
		SupportedCoins: coinSet("etc", "xmr", "rvn", "kas", "erg", "xna", "nexa", "clore"),
		StatsURL: func(coin, address string) string {
			return fmt.Sprintf("https://pool.kryptex.com/%s/api/v1/miner/stats/%s", coin, url.PathEscape(address))
		},
		DashboardURL: func(coin, address string) string {
			return fmt.Sprintf("https://pool.kryptex.com/%s/miner/stats/%s", coin, url.PathEscape(address))
		},
		NotFoundIsNoData: true,
		StaleAfter:       15 * time.Minute,
	}
	CKPool = entity.PoolAdapter{
		ID:             "ckpool",
		DisplayName:    "CKPool Solo",
		SupportedCoins: coinSet("btc"),
		StatsURL: func(_, address string) string {
			return "https://solo.ckpool.org/users/" + url.PathEscape(address)
		},
		DashboardURL: func(_, address string) string {
			return "https://solostats.ckpool.org/users/" + url.PathEscape(address)
		},
		StaleAfter: 15 * time.Minute,
	}
	CKPoolEU = entity.PoolAdapter{
		ID:             "ckpool-eu",
		DisplayName:    "CKPool Solo EU",
		SupportedCoins: coinSet("btc"),
		StatsURL: func(_, address string) string {
			return "https://eusolo.ckpool.org/users/" + url.PathEscape(address)
		},
		DashboardURL: func(_, address string) string {
			return "https://eusolostats.ckpool.org/users/" + url.PathEscape(address)
		},
		StaleAfter: 15 * time.Minute,
	}
	PublicPool = entity.PoolAdapter{
		ID:             "publicpool",
		DisplayName:    "Public Pool",
		SupportedCoins: coinSet("btc"),
		StatsURL: func(_, address string) string {
			return "https://public-pool.io:40557/api/client/" + url.PathEscape(address)
		},
		DashboardURL: func(_, address string) string {
			return "https://web.public-pool.io/#/app/" + url.PathEscape(address)
		},
		NotFoundIsNoData: true,
		StaleAfter:       10 * time.Minute,
	}
	Vipor = entity.PoolAdapter{
		ID:             "vipor",
		DisplayName:    "Vipor",
		SupportedCoins: coinSet("rvn", "kas", "erg", "xna", "nexa", "clore"),
		StatsURL: func(coin, address string) string {
			return fmt.Sprintf("https://restapi.vipor.net/api/pools/%s/miners/%s", substitute(viporPoolIDs, coin), url.PathEscape(address))
		},
		DashboardURL: func(coin, address string) string {
			return fmt.Sprintf("https://vipor.net/dashboard?wallet=%s&coin=%s", url.QueryEscape(address), substitute(viporPoolIDs, coin))
		},
		NotFoundIsNoData: true,
		StaleAfter:       10 * time.Minute,
	}
	ZergPool = entity.PoolAdapter{
		ID:             "zergpool",
		DisplayName:    "Zergpool",
		SupportedCoins: coinSet("btc", "ltc", "doge", "dgb", "rvn", "bch"),
		StatsURL: func(_, address string) string {
			return "https://zergpool.com/api/walletEx?address=" + url.QueryEscape(address)
		},
		DashboardURL: func(_, address string) string {
			return "https://zergpool.com/?address=" + url.QueryEscape(address)
		},
		StaleAfter: 10 * time.Minute,
	}
	FlockPool = entity.PoolAdapter{
		ID:             "flockpool",
		DisplayName:    "Flockpool",
		SupportedCoins: coinSet("rtm"),
		StatsURL: func(_, address string) string {
			return "https://flockpool.com/api/v1/wallets/rtm/" + url.PathEscape(address)
		},
		DashboardURL: func(_, address string) string {
			return "https://flockpool.com/miners/rtm/" + url.PathEscape(address)
		},
		NotFoundIsNoData: true,
		StaleAfter:       10 * time.Minute,
	}
	MoneroOcean = entity.PoolAdapter{
		ID:             "moneroocean",
		DisplayName:    "MoneroOcean",
		SupportedCoins: coinSet("xmr"),
		StatsURL: func(_, address string) string {
			return fmt.Sprintf("https://api.moneroocean.stream/miner/%s/stats", url.PathEscape(address))
		},
		DashboardURL: func(_, address string) string {
			return "https://moneroocean.stream/#/dashboard?addr=" + url.QueryEscape(address)
		},
		StaleAfter: 10 * time.Minute,
	}
)

// allKnownPools indexes every predefined adapter by id.
var allKnownPools = map[string]entity.PoolAdapter{
	TwoMiners.ID:   TwoMiners,
	Nanopool.ID:    Nanopool,
	F2Pool.ID:      F2Pool,
	HeroMiners.ID:  HeroMiners,
	Kryptex.ID:     Kryptex,
	CKPool.ID:      CKPool,
	CKPoolEU.ID:    CKPoolEU,
	PublicPool.ID:  PublicPool,
	Vipor.ID:       Vipor,
	ZergPool.ID:    ZergPool,
	FlockPool.ID:   FlockPool,
	MoneroOcean.ID: MoneroOcean,
}

// PoolRegistry serves the predefined adapter table.
type PoolRegistry struct {
	pools map[string]entity.PoolAdapter
}

// NewPoolRegistry creates a registry over the predefined adapters.
func NewPoolRegistry() port.PoolRegistry {
	return &PoolRegistry{pools: allKnownPools}
}

// Resolve returns the adapter for a pool id.
func (r *PoolRegistry) Resolve(poolID string) (entity.PoolAdapter, bool) {
	p, ok := r.pools[poolID]
	return p, ok
}

// SupportsCoin reports whether poolID is known and mines coinID.
func (r *PoolRegistry) SupportsCoin(poolID, coinID string) bool {
	p, ok := r.pools[poolID]
	return ok && p.SupportsCoin(coinID)
}

// PoolsForCoin returns every adapter that mines coinID, sorted by id.
func (r *PoolRegistry) PoolsForCoin(coinID string) []entity.PoolAdapter {
	out := make([]entity.PoolAdapter, 0)
	for _, p := range r.pools {
		if p.SupportsCoin(coinID) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// All returns every adapter sorted by id.
func (r *PoolRegistry) All() []entity.PoolAdapter {
	out := make([]entity.PoolAdapter, 0, len(r.pools))
	for _, p := range r.pools {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
