package entity

// AddressFormat tells the settings loader how to validate a wallet address for a coin.
type AddressFormat string

const (
	AddressFormatAny AddressFormat = ""
	AddressFormatEVM AddressFormat = "evm"
)

// CoinConfig holds static display and conversion metadata for a coin.
// Decimals is the fixed-point precision pools use for raw integer balances.
type CoinConfig struct {
	ID            string        `json:"id" yaml:"id"`
	DisplayName   string        `json:"displayName" yaml:"displayName"`
	Symbol        string        `json:"symbol" yaml:"symbol"`
	PriceFeedID   string        `json:"priceFeedId,omitempty" yaml:"priceFeedId"`
	Decimals      int32         `json:"decimals" yaml:"decimals"`
	AddressFormat AddressFormat `json:"addressFormat,omitempty" yaml:"addressFormat"`
}
