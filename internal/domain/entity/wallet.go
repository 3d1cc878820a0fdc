package entity

import "sort"

// Tier is the subscription tier of the account that owns the wallets.
type Tier string

const (
	TierFree   Tier = "free"
	TierPro    Tier = "pro"
	TierBundle Tier = "bundle"
)

// IsPro reports whether the tier unlocks unlimited wallets. Unknown tiers are treated as free.
func (t Tier) IsPro() bool {
	return t == TierPro || t == TierBundle
}

// Wallet is a user-configured mining identity (pool + coin + address).
type Wallet struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	PoolID       string  `json:"poolId" yaml:"pool"`
	Coin         string  `json:"coin" yaml:"coin"`
	Address      string  `json:"address" yaml:"address"`
	PowerWatts   float64 `json:"powerWatts" yaml:"powerWatts"`
	Enabled      bool    `json:"enabled" yaml:"enabled"`
	DisplayOrder int     `json:"displayOrder" yaml:"displayOrder"`
}

// AccountSettings is the wallet list plus the account-level settings that drive a refresh cycle.
type AccountSettings struct {
	Tier                   Tier     `json:"tier" yaml:"tier"`
	RefreshIntervalMinutes int      `json:"refreshIntervalMinutes" yaml:"refreshIntervalMinutes"`
	ElectricityRatePerKwh  float64  `json:"electricityRatePerKwh" yaml:"electricityRatePerKwh"`
	PowerWatts             float64  `json:"powerWatts" yaml:"powerWatts"`
	Wallets                []Wallet `json:"wallets" yaml:"wallets"`
}

// EnabledWallets returns the enabled wallets sorted by display order, ties broken by id.
// The position in the returned slice is the wallet index used by the entitlement policy.
func (s AccountSettings) EnabledWallets() []Wallet {
	out := make([]Wallet, 0, len(s.Wallets))
	for _, w := range s.Wallets {
		if w.Enabled {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// EffectivePowerWatts returns the wallet wattage, falling back to the account default.
func (s AccountSettings) EffectivePowerWatts(w Wallet) float64 {
	if w.PowerWatts > 0 {
		return w.PowerWatts
	}
	return s.PowerWatts
}
