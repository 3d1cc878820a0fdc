package entity

import "time"

// UpgradeReason is shown on wallets a free account cannot fetch.
const UpgradeReason = "Upgrade to Pro for unlimited wallets"

// EntitlementDecision says whether a wallet may be fetched this cycle. Never stored.
type EntitlementDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// ProfitBreakdown is the USD view of a wallet, computed from the latest cached price.
type ProfitBreakdown struct {
	PriceUSD        float64 `json:"priceUsd"`
	BalanceUSD      float64 `json:"balanceUsd"`
	Earnings24hUSD  float64 `json:"earnings24hUsd"`
	ElectricityCost float64 `json:"electricityCost"`
	NetProfit       float64 `json:"netProfit"`
}

// WalletData is the per-wallet view record consumed by UI layers.
type WalletData struct {
	WalletID        string           `json:"walletId"`
	Name            string           `json:"name"`
	PoolID          string           `json:"poolId"`
	Coin            string           `json:"coin"`
	Hashrate        float64          `json:"hashrate"`
	// HashrateDisplay is the card rendering of Hashrate, e.g. "1.2 MH/s".
	HashrateDisplay string           `json:"hashrateDisplay,omitempty"`
	Hashrate24h     *float64         `json:"hashrate24h,omitempty"`
	Balance         float64          `json:"balance"`
	Earnings24h     float64          `json:"earnings24h"`
	Workers         []Worker         `json:"workers"`
	WorkersOnline   int              `json:"workersOnline"`
	WorkersTotal    int              `json:"workersTotal"`
	LastUpdated     time.Time        `json:"lastUpdated"`
	DashboardURL    string           `json:"dashboardUrl,omitempty"`
	Profit          *ProfitBreakdown `json:"profit,omitempty"`
	Error           string           `json:"error,omitempty"`
	ErrorKind       ErrorKind        `json:"errorKind,omitempty"`
	Restricted      bool             `json:"restricted,omitempty"`
}

// NewWalletData builds the view record for a wallet from fetched stats.
func NewWalletData(w Wallet, stats PoolStats, now time.Time) WalletData {
	h24 := stats.Hashrate24h
	return WalletData{
		WalletID:      w.ID,
		Name:          w.Name,
		PoolID:        w.PoolID,
		Coin:          w.Coin,
		Hashrate:      stats.Hashrate,
		Hashrate24h:   &h24,
		Balance:       stats.Balance,
		Earnings24h:   stats.Earnings24h,
		Workers:       stats.Workers,
		WorkersOnline: stats.WorkersOnline,
		WorkersTotal:  stats.WorkersTotal,
		LastUpdated:   now,
	}
}

// NewFailedWalletData builds the view record for a wallet whose fetch failed.
func NewFailedWalletData(w Wallet, err error, now time.Time) WalletData {
	return WalletData{
		WalletID:    w.ID,
		Name:        w.Name,
		PoolID:      w.PoolID,
		Coin:        w.Coin,
		Workers:     []Worker{},
		LastUpdated: now,
		Error:       UserMessage(err),
		ErrorKind:   ClassifyError(err),
	}
}

// NewRestrictedWalletData builds the synthetic record for a wallet the entitlement policy denied.
func NewRestrictedWalletData(w Wallet, reason string, now time.Time) WalletData {
	return WalletData{
		WalletID:    w.ID,
		Name:        w.Name,
		PoolID:      w.PoolID,
		Coin:        w.Coin,
		Workers:     []Worker{},
		LastUpdated: now,
		Error:       reason,
		ErrorKind:   ErrorKindRestricted,
		Restricted:  true,
	}
}
