package entity

import "time"

// RefreshState is the coordinator state machine: Idle or Fetching.
type RefreshState string

const (
	RefreshIdle     RefreshState = "idle"
	RefreshFetching RefreshState = "fetching"
)

// RefreshEventType names what changed in the coordinator.
type RefreshEventType string

const (
	EventStateChanged  RefreshEventType = "state_changed"
	EventWalletUpdated RefreshEventType = "wallet_updated"
)

// RefreshEvent is pushed to subscribers on every state transition and per-wallet write.
type RefreshEvent struct {
	Type            RefreshEventType `json:"type"`
	CycleID         string           `json:"cycleId,omitempty"`
	State           RefreshState     `json:"state"`
	LastRefreshedAt *time.Time       `json:"lastRefreshedAt,omitempty"`
	Wallet          *WalletData      `json:"wallet,omitempty"`
}

// RefreshSnapshot is a consistent copy of the coordinator state.
type RefreshSnapshot struct {
	State           RefreshState `json:"state"`
	CycleID         string       `json:"cycleId,omitempty"`
	LastRefreshedAt *time.Time   `json:"lastRefreshedAt,omitempty"`
	Wallets         []WalletData `json:"wallets"`
}

// Wallet returns the record for a wallet id.
func (s RefreshSnapshot) Wallet(id string) (WalletData, bool) {
	for _, w := range s.Wallets {
		if w.WalletID == id {
			return w, true
		}
	}
	return WalletData{}, false
}
