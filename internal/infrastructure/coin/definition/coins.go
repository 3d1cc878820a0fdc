package coindefinition

import (
	"sort"
	"strings"

	"pool_monitor/internal/app/port"
	"pool_monitor/internal/domain/entity"
)

// DefaultDecimals is the Bitcoin-style precision assumed for coins missing from the registry.
const DefaultDecimals int32 = 8

// Predefined coin definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Bitcoin = entity.CoinConfig{
		ID:          "btc",
		DisplayName: "Bitcoin",
		Symbol:      "BTC",
		PriceFeedID: "bitcoin",
		Decimals:    8,
	}
	BitcoinCash = entity.CoinConfig{
		ID:          "bch",
		DisplayName: "Bitcoin Cash",
		Symbol:      "BCH",
		PriceFeedID: "bitcoin-cash",
		Decimals:    8,
	}
	Litecoin = entity.CoinConfig{
		ID:          "ltc",
		DisplayName: "Litecoin",
		Symbol:      "LTC",
		PriceFeedID: "litecoin",
		Decimals:    8,
	}
	Dogecoin = entity.CoinConfig{
		ID:          "doge",
		DisplayName: "Dogecoin",
		Symbol:      "DOGE",
		PriceFeedID: "dogecoin",
		Decimals:    8,
	}
	DigiByte = entity.CoinConfig{
		ID:          "dgb",
		DisplayName: "DigiByte",
		Symbol:      "DGB",
		PriceFeedID: "digibyte",
		Decimals:    8,
	}
	EthereumClassic = entity.CoinConfig{
		ID:            "etc",
		DisplayName:   "Ethereum Classic",
		Symbol:        "ETC",
		PriceFeedID:   "ethereum-classic",
		Decimals:      18,
		AddressFormat: entity.AddressFormatEVM,
	}
	EthereumPoW = entity.CoinConfig{
		ID:            "ethw",
		DisplayName:   "EthereumPoW",
		Symbol:        "ETHW",
		PriceFeedID:   "ethereum-pow-iou",
		Decimals:      18,
		AddressFormat: entity.AddressFormatEVM,
	}
	Ravencoin = entity.CoinConfig{
		ID:          "rvn",
		DisplayName: "Ravencoin",
		Symbol:      "RVN",
		PriceFeedID: "ravencoin",
		Decimals:    8,
	}
	Kaspa = entity.CoinConfig{
		ID:          "kas",
		DisplayName: "Kaspa",
		Symbol:      "KAS",
		PriceFeedID: "kaspa",
		Decimals:    8,
	}
	Ergo = entity.CoinConfig{
		ID:          "erg",
		DisplayName: "Ergo",
		Symbol:      "ERG",
		PriceFeedID: "ergo",
		Decimals:    9,
	}
	Monero = entity.CoinConfig{
		ID:          "xmr",
		DisplayName: "Monero",
		Symbol:      "XMR",
		PriceFeedID: "monero",
		Decimals:    12,
	}
	Zephyr = entity.CoinConfig{
		ID:          "zeph",
		DisplayName: "Zephyr Protocol",
		Symbol:      "ZEPH",
		PriceFeedID: "zephyr-protocol",
		Decimals:    12,
	}
	Raptoreum = entity.CoinConfig{
		ID:          "rtm",
		DisplayName: "Raptoreum",
		Symbol:      "RTM",
		PriceFeedID: "raptoreum",
		Decimals:    8,
	}
	Nexa = entity.CoinConfig{
		ID:          "nexa",
		DisplayName: "Nexa",
		Symbol:      "NEXA",
		PriceFeedID: "nexacoin",
		Decimals:    2,
	}
	Clore = entity.CoinConfig{
		ID:          "clore",
		DisplayName: "Clore.ai",
		Symbol:      "CLORE",
		PriceFeedID: "clore-ai",
		Decimals:    8,
	}
	Neoxa = entity.CoinConfig{
		ID:          "xna",
		DisplayName: "Neoxa",
		Symbol:      "XNA",
		PriceFeedID: "neoxa",
		Decimals:    8,
	}
	Zcash = entity.CoinConfig{
		ID:          "zec",
		DisplayName: "Zcash",
		Symbol:      "ZEC",
		PriceFeedID: "zcash",
		Decimals:    8,
	}
)

// allKnownCoins indexes every predefined coin by id.
var allKnownCoins = map[string]entity.CoinConfig{
	Bitcoin.ID:         Bitcoin,
	BitcoinCash.ID:     BitcoinCash,
	Litecoin.ID:        Litecoin,
	Dogecoin.ID:        Dogecoin,
	DigiByte.ID:        DigiByte,
	EthereumClassic.ID: EthereumClassic,
	EthereumPoW.ID:     EthereumPoW,
	Ravencoin.ID:       Ravencoin,
	Kaspa.ID:           Kaspa,
	Ergo.ID:            Ergo,
	Monero.ID:          Monero,
	Zephyr.ID:          Zephyr,
	Raptoreum.ID:       Raptoreum,
	Nexa.ID:            Nexa,
	Clore.ID:           Clore,
	Neoxa.ID:           Neoxa,
	Zcash.ID:           Zcash,
}

// CoinRegistry serves the predefined coin table.
type CoinRegistry struct {
	coins map[string]entity.CoinConfig
}

// NewCoinRegistry creates a registry over the predefined coins.
func NewCoinRegistry() port.CoinRegistry {
	return &CoinRegistry{coins: allKnownCoins}
}

// Default is the shared registry used by pure helpers such as the pool parsers.
var Default = NewCoinRegistry() //nolint:gochecknoglobals // immutable table

func normalizeID(coinID string) string {
	return strings.ToLower(strings.TrimSpace(coinID))
}

// Get returns the coin definition.
func (r *CoinRegistry) Get(coinID string) (entity.CoinConfig, bool) {
	c, ok := r.coins[normalizeID(coinID)]
	return c, ok
}

// GetDecimals returns the fixed-point precision for the coin, DefaultDecimals when unknown.
func (r *CoinRegistry) GetDecimals(coinID string) int32 {
	if c, ok := r.Get(coinID); ok {
		return c.Decimals
	}
	return DefaultDecimals
}

// GetDivisor returns 10^decimals. Unknown coins get 10^8.
func (r *CoinRegistry) GetDivisor(coinID string) int64 {
	d := int64(1)
	for i := int32(0); i < r.GetDecimals(coinID); i++ {
		d *= 10
	}
	return d
}

// GetDisplayName returns the human name, or the uppercased id when unknown.
func (r *CoinRegistry) GetDisplayName(coinID string) string {
	if c, ok := r.Get(coinID); ok {
		return c.DisplayName
	}
	return strings.ToUpper(coinID)
}

// GetSymbol returns the ticker, or the uppercased id when unknown.
func (r *CoinRegistry) GetSymbol(coinID string) string {
	if c, ok := r.Get(coinID); ok {
		return c.Symbol
	}
	return strings.ToUpper(coinID)
}

// GetPriceFeedID returns the CoinGecko id for the coin.
func (r *CoinRegistry) GetPriceFeedID(coinID string) (string, bool) {
	c, ok := r.Get(coinID)
	if !ok || c.PriceFeedID == "" {
		return "", false
	}
	return c.PriceFeedID, true
}

// All returns every coin sorted by id.
func (r *CoinRegistry) All() []entity.CoinConfig {
	out := make([]entity.CoinConfig, 0, len(r.coins))
	for _, c := range r.coins {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
