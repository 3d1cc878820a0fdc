package poolparser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pool_monitor/internal/domain/entity"
	pooldefinition "pool_monitor/internal/infrastructure/pool/definition"
)

// fixtureNow is 2026-01-15T12:00:00Z, the clock every fixture is written against.
var fixtureNow = time.Unix(1768478400, 0).UTC()

func request(coin, address string) entity.ParseRequest {
	return entity.ParseRequest{Coin: coin, Address: address, Now: fixtureNow, StaleAfter: 10 * time.Minute}
}

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return b
}

func workerNames(ws []entity.Worker) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Name)
	}
	return out
}

func TestParseTwoMiners(t *testing.T) {
	stats, err := ParseTwoMiners(fixture(t, "twominers_rvn.json"), request("rvn", "RAddr"))
	require.NoError(t, err)

	assert.Equal(t, 250e6, stats.Hashrate)
	assert.Equal(t, 240e6, stats.Hashrate24h)
	assert.InDelta(t, 1.2845, stats.Balance, 1e-9)
	assert.InDelta(t, 100.0, stats.Paid, 1e-9)
	assert.InDelta(t, 15.0, stats.Earnings24h, 1e-9)
	assert.Equal(t, []string{"rig1", "rig2"}, workerNames(stats.Workers))
	assert.False(t, stats.Workers[0].Offline)
	assert.True(t, stats.Workers[1].Offline)
	assert.Equal(t, 1, stats.WorkersOnline)
	assert.Equal(t, 2, stats.WorkersTotal)
	require.NotNil(t, stats.LastShare)
	assert.Equal(t, int64(1768478300), stats.LastShare.Unix())
}

func TestParseTwoMinersUsesShannonForEVMCoins(t *testing.T) {
	stats, err := ParseTwoMiners(fixture(t, "twominers_etc.json"), request("etc", "0xabc"))
	require.NoError(t, err)

	assert.InDelta(t, 0.5, stats.Balance, 1e-12)
	assert.InDelta(t, 2.5, stats.Earnings24h, 1e-12)
	assert.NotNil(t, stats.Workers)
	assert.Empty(t, stats.Workers)
}

func TestParseNanopool(t *testing.T) {
	stats, err := ParseNanopool(fixture(t, "nanopool_etc.json"), request("etc", "0x1111111111111111111111111111111111111111"))
	require.NoError(t, err)

	assert.InDelta(t, 250.5e6, stats.Hashrate, 1e-3)
	assert.InDelta(t, 200e6, stats.Hashrate24h, 1e-3)
	assert.InDelta(t, 1.6, stats.Balance, 1e-9)
	require.Len(t, stats.Workers, 2)
	assert.False(t, stats.Workers[0].Offline)
	assert.True(t, stats.Workers[1].Offline)
	assert.Equal(t, 1, stats.WorkersOnline)
}

func TestParseNanopoolErrors(t *testing.T) {
	_, err := ParseNanopool([]byte(`{"status":false,"error":"Account not found"}`), request("xmr", "4Abc"))
	assert.ErrorIs(t, err, entity.ErrNoData)

	_, err = ParseNanopool([]byte(`{"status":false,"error":"Internal error"}`), request("xmr", "4Abc"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrNoData)
}

func TestParseF2Pool(t *testing.T) {
	stats, err := ParseF2Pool(fixture(t, "f2pool_btc.json"), request("btc", "bc1q"))
	require.NoError(t, err)

	assert.Equal(t, 1.2e14, stats.Hashrate)
	assert.InDelta(t, 1e14, stats.Hashrate24h, 1)
	assert.InDelta(t, 0.0005, stats.Balance, 1e-12)
	assert.InDelta(t, 0.0001, stats.Earnings24h, 1e-12)
	assert.Equal(t, []string{"s19a", "s19b"}, workerNames(stats.Workers))
	assert.Equal(t, 1, stats.WorkersOnline)
	assert.Equal(t, 2, stats.WorkersTotal)
}

func TestParseHeroMiners(t *testing.T) {
	stats, err := ParseHeroMiners(fixture(t, "herominers_xmr.json"), request("xmr", "4Abc"))
	require.NoError(t, err)

	assert.Equal(t, 15000.0, stats.Hashrate)
	assert.Equal(t, 14000.0, stats.Hashrate24h)
	assert.InDelta(t, 1.5, stats.Balance, 1e-12)
	assert.InDelta(t, 3.0, stats.Paid, 1e-12)
	// Only the reward credited within the last day counts.
	assert.InDelta(t, 0.1, stats.Earnings24h, 1e-12)
	assert.Equal(t, 1, stats.WorkersOnline)
	assert.Equal(t, 2, stats.WorkersTotal)
}

func TestParseHeroMinersNotFound(t *testing.T) {
	_, err := ParseHeroMiners([]byte(`{"error":"not found"}`), request("xmr", "4Abc"))
	assert.ErrorIs(t, err, entity.ErrNoData)
}

func TestParseKryptex(t *testing.T) {
	stats, err := ParseKryptex(fixture(t, "kryptex_kas.json"), request("kas", "kaspa:q"))
	require.NoError(t, err)

	assert.Equal(t, 1.2e6, stats.Hashrate)
	assert.Equal(t, 1e6, stats.Hashrate24h)
	assert.InDelta(t, 13.0, stats.Balance, 1e-12)
	assert.InDelta(t, 100.0, stats.Paid, 1e-12)
	assert.InDelta(t, 3.25, stats.Earnings24h, 1e-12)
	assert.Equal(t, 1, stats.WorkersOnline)

	_, err = ParseKryptex([]byte(`{"detail":"Not found."}`), request("kas", "kaspa:q"))
	assert.ErrorIs(t, err, entity.ErrNoData)
}

func TestParseCKPool(t *testing.T) {
	stats, err := ParseCKPool(fixture(t, "ckpool_user.json"), request("btc", "bc1qaddr"))
	require.NoError(t, err)

	assert.InDelta(t, 1.5e12, stats.Hashrate, 1)
	require.NotNil(t, stats.Hashrate5m)
	assert.InDelta(t, 1.4e12, *stats.Hashrate5m, 1)
	assert.InDelta(t, 1.2e12, stats.Hashrate24h, 1)
	assert.Zero(t, stats.Balance)
	require.NotNil(t, stats.BestEver)
	assert.Equal(t, 99999.0, *stats.BestEver)
	assert.Equal(t, []string{"bitaxe1", "bitaxe2"}, workerNames(stats.Workers))
	assert.Equal(t, 1, stats.WorkersOnline)
	assert.Equal(t, 2, stats.WorkersTotal)
}

func TestParseCKPoolJSONLines(t *testing.T) {
	stats, err := ParseCKPool(fixture(t, "ckpool_lines.txt"), request("btc", "bc1qaddr"))
	require.NoError(t, err)

	assert.Equal(t, 2e9, stats.Hashrate)
	assert.Equal(t, 1e9, stats.Hashrate24h)
	assert.Equal(t, []string{"rig"}, workerNames(stats.Workers))
	assert.Equal(t, 1, stats.WorkersOnline)
}

func TestParseCKPoolPlainText(t *testing.T) {
	_, err := ParseCKPool([]byte("User not found\n"), request("btc", "bc1qaddr"))
	assert.ErrorIs(t, err, entity.ErrNoData)

	_, err = ParseCKPool([]byte("<html>Bad Gateway</html>"), request("btc", "bc1qaddr"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrNoData)
}

func TestParsePublicPool(t *testing.T) {
	stats, err := ParsePublicPool(fixture(t, "publicpool_btc.json"), request("btc", "bc1q"))
	require.NoError(t, err)

	assert.Equal(t, 5e11, stats.Hashrate)
	assert.Equal(t, stats.Hashrate, stats.Hashrate24h)
	assert.Equal(t, 1, stats.WorkersOnline)
	assert.Equal(t, 2, stats.WorkersTotal)

	_, err = ParsePublicPool([]byte(`{"bestDifficulty":"0","workersCount":0,"workers":[]}`), request("btc", "bc1q"))
	assert.ErrorIs(t, err, entity.ErrNoData)
}

func TestParseVipor(t *testing.T) {
	stats, err := ParseVipor(fixture(t, "vipor_rvn.json"), request("rvn", "RAddr"))
	require.NoError(t, err)

	assert.Equal(t, 4e8, stats.Hashrate)
	assert.Equal(t, 3e8, stats.Hashrate24h)
	assert.InDelta(t, 1.25, stats.Balance, 1e-12)
	assert.InDelta(t, 100.5, stats.Paid, 1e-12)
	assert.InDelta(t, 2.5, stats.Earnings24h, 1e-12)
	assert.Equal(t, []string{"default", "rig1", "old"}, workerNames(stats.Workers))
	assert.True(t, stats.Workers[2].Offline)
	assert.Equal(t, 2, stats.WorkersOnline)
	assert.Equal(t, 3, stats.WorkersTotal)
}

func TestParseZergPool(t *testing.T) {
	stats, err := ParseZergPool(fixture(t, "zergpool_btc.json"), request("btc", "bc1q"))
	require.NoError(t, err)

	assert.Equal(t, 1.75e9, stats.Hashrate)
	assert.InDelta(t, 0.0003, stats.Balance, 1e-12)
	assert.InDelta(t, 0.001, stats.Paid, 1e-12)
	assert.InDelta(t, 0.0002, stats.Earnings24h, 1e-12)
	require.Equal(t, []string{"default", "rig1"}, workerNames(stats.Workers))
	assert.Equal(t, 1.5e9, stats.Workers[1].Hashrate)
	assert.Equal(t, 2, stats.WorkersOnline)

	_, err = ParseZergPool([]byte(`{"error":"Invalid address"}`), request("btc", "x"))
	assert.ErrorIs(t, err, entity.ErrNoData)
}

func TestParseFlockPool(t *testing.T) {
	stats, err := ParseFlockPool(fixture(t, "flockpool_rtm.json"), request("rtm", "RTMaddr"))
	require.NoError(t, err)

	assert.InDelta(t, 3.0, stats.Balance, 1e-12)
	assert.InDelta(t, 10000.0, stats.Paid, 1e-9)
	assert.InDelta(t, 0.75, stats.Earnings24h, 1e-12)
	assert.Equal(t, []string{"rig1", "default"}, workerNames(stats.Workers))
	assert.Equal(t, 1, stats.WorkersOnline)
}

func TestParseMoneroOcean(t *testing.T) {
	stats, err := ParseMoneroOcean(fixture(t, "moneroocean_xmr.json"), request("xmr", "4Abc"))
	require.NoError(t, err)

	assert.Equal(t, 12000.0, stats.Hashrate)
	assert.Equal(t, 11000.0, stats.Hashrate24h)
	assert.InDelta(t, 0.123, stats.Balance, 1e-12)
	assert.InDelta(t, 2.5, stats.Paid, 1e-12)
	assert.Empty(t, stats.Workers)

	_, err = ParseMoneroOcean([]byte(`{"hash":0,"lastHash":0,"totalHashes":0,"amtPaid":0,"amtDue":0}`), request("xmr", "4Abc"))
	assert.ErrorIs(t, err, entity.ErrNoData)
}

func TestEveryParserTreatsEmptyBodiesAsNoData(t *testing.T) {
	reg := NewRegistry()
	for _, p := range pooldefinition.NewPoolRegistry().All() {
		parse, ok := reg.Lookup(p.ID)
		require.True(t, ok, p.ID)
		for _, body := range []string{"", "null", "{}", "  \n"} {
			_, err := parse([]byte(body), request(p.Coins()[0], "addr"))
			assert.ErrorIs(t, err, entity.ErrNoData, "%s %q", p.ID, body)
		}
	}
}

func TestEveryParserRejectsMalformedJSON(t *testing.T) {
	reg := NewRegistry()
	for _, p := range pooldefinition.NewPoolRegistry().All() {
		parse, _ := reg.Lookup(p.ID)
		_, err := parse([]byte(`{"broken": `), request(p.Coins()[0], "addr"))
		require.Error(t, err, p.ID)
		assert.NotErrorIs(t, err, entity.ErrNoData, p.ID)
	}
}

func TestParsersArePure(t *testing.T) {
	body := fixture(t, "vipor_rvn.json")
	a, err := ParseVipor(body, request("rvn", "RAddr"))
	require.NoError(t, err)
	b, err := ParseVipor(body, request("rvn", "RAddr"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNumberAcceptsQuotedAndBareValues(t *testing.T) {
	var v struct {
		A number `json:"a"`
		B number `json:"b"`
		C number `json:"c"`
		D number `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":1.5,"b":"2.5","c":null,"d":""}`), &v))
	assert.Equal(t, 1.5, v.A.Float())
	assert.Equal(t, 2.5, v.B.Float())
	assert.False(t, v.C.IsSet())
	assert.False(t, v.D.IsSet())

	assert.Error(t, json.Unmarshal([]byte(`{"a":"abc"}`), &v))
}

func TestParseSIRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"0", 0},
		{"850", 850},
		{"1.5K", 1500},
		{"2.5G", 2.5e9},
		{"1.23T", 1.23e12},
		{"3p", 3e15},
	}
	for _, tt := range tests {
		got, err := parseSIRate(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, tt.want*1e-12, tt.in)
	}
	_, err := parseSIRate("fast")
	assert.Error(t, err)
}

func TestNumberRejectsNonFiniteValues(t *testing.T) {
	for _, in := range []string{`"Infinity"`, `"-Infinity"`, `"inf"`, `"+Inf"`, `"NaN"`, `"1e400"`} {
		t.Run(in, func(t *testing.T) {
			var v struct {
				A number `json:"a"`
			}
			assert.Error(t, json.Unmarshal([]byte(`{"a":`+in+`}`), &v))
		})
	}
}

func TestParseSIRateRejectsOverflow(t *testing.T) {
	for _, in := range []string{"Inf", "NaN", "1e300Z"} {
		_, err := parseSIRate(in)
		assert.Error(t, err, in)
	}
}

func TestParseKryptexRejectsInfiniteHashrate(t *testing.T) {
	_, err := ParseKryptex([]byte(`{"hashrate":{"10m":"Infinity","24h":"1"},"balance":{"unpaid":"1"}}`), request("kas", "kaspa:q"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrNoData)
}

func TestParseNanopoolClampsOverflowingHashrate(t *testing.T) {
	body := []byte(`{"status":true,"data":{"account":"0x1","balance":"1","hashrate":"1e305",
		"avgHashrate":{"h24":"1e305"},
		"workers":[{"id":"rig1","hashrate":"1e305","lastShare":1768478300,"h24":"1e305"}]}}`)

	stats, err := ParseNanopool(body, request("etc", "0x1"))
	require.NoError(t, err)

	assert.Zero(t, stats.Hashrate)
	assert.Zero(t, stats.Hashrate24h)
	require.Len(t, stats.Workers, 1)
	assert.Zero(t, stats.Workers[0].Hashrate)
	require.NotNil(t, stats.Workers[0].Hashrate24h)
	assert.Zero(t, *stats.Workers[0].Hashrate24h)

	_, err = json.Marshal(stats)
	assert.NoError(t, err)
}
