package pooldefinition

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	r := NewPoolRegistry()

	p, ok := r.Resolve("2miners")
	require.True(t, ok)
	assert.Equal(t, "2Miners", p.DisplayName)

	_, ok = r.Resolve("no-such-pool")
	assert.False(t, ok)
}

func TestSupportsCoin(t *testing.T) {
	r := NewPoolRegistry()

	assert.True(t, r.SupportsCoin("herominers", "xmr"))
	assert.False(t, r.SupportsCoin("ckpool", "xmr"))
	assert.False(t, r.SupportsCoin("no-such-pool", "btc"))
}

func TestPoolsForCoin(t *testing.T) {
	r := NewPoolRegistry()

	var ids []string
	for _, p := range r.PoolsForCoin("btc") {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"2miners", "ckpool", "ckpool-eu", "f2pool", "publicpool", "zergpool"}, ids)
	assert.Empty(t, r.PoolsForCoin("unknown"))
}

func TestStatsURLSubstitution(t *testing.T) {
	r := NewPoolRegistry()

	tests := []struct {
		pool, coin, address, want string
	}{
		{"2miners", "etc", "0xabc", "https://etc.2miners.com/api/accounts/0xabc"},
		{"herominers", "xmr", "4Abc", "https://monero.herominers.com/api/stats_address?address=4Abc&longpoll=false"},
		{"herominers", "etc", "0xabc", "https://etc.herominers.com/api/stats_address?address=0xabc&longpoll=false"},
		{"f2pool", "btc", "bc1q", "https://api.f2pool.com/bitcoin/bc1q"},
		{"f2pool", "etc", "0xabc", "https://api.f2pool.com/etc/0xabc"},
		{"vipor", "xna", "Gabc", "https://restapi.vipor.net/api/pools/neoxa/miners/Gabc"},
		{"nanopool", "xmr", "4Abc", "https://api.nanopool.org/v1/xmr/user/4Abc"},
		{"zergpool", "ltc", "ltc1q", "https://zergpool.com/api/walletEx?address=ltc1q"},
		{"moneroocean", "xmr", "4Abc", "https://api.moneroocean.stream/miner/4Abc/stats"},
		{"ckpool-eu", "btc", "bc1q", "https://eusolo.ckpool.org/users/bc1q"},
	}
	for _, tt := range tests {
		t.Run(tt.pool+"/"+tt.coin, func(t *testing.T) {
			p, ok := r.Resolve(tt.pool)
			require.True(t, ok)
			assert.Equal(t, tt.want, p.BuildStatsURL(tt.coin, tt.address))
		})
	}
}

func TestStatsURLEscapesAddress(t *testing.T) {
	p, _ := NewPoolRegistry().Resolve("2miners")
	u := p.BuildStatsURL("rvn", "R abc/def")
	assert.False(t, strings.Contains(u, " "))
	assert.True(t, strings.HasSuffix(u, "R%20abc%2Fdef"))
}

func TestEveryAdapterIsComplete(t *testing.T) {
	for _, p := range NewPoolRegistry().All() {
		t.Run(p.ID, func(t *testing.T) {
			assert.NotEmpty(t, p.DisplayName)
			assert.NotEmpty(t, p.SupportedCoins)
			assert.NotNil(t, p.StatsURL)
			assert.Positive(t, p.StaleAfter)
			for _, c := range p.Coins() {
				assert.True(t, strings.HasPrefix(p.BuildStatsURL(c, "addr"), "https://"))
				dash, ok := p.BuildDashboardURL(c, "addr")
				if ok {
					assert.True(t, strings.HasPrefix(dash, "https://"))
				}
			}
		})
	}
}

func TestTwelveAdapters(t *testing.T) {
	assert.Len(t, NewPoolRegistry().All(), 12)
}
