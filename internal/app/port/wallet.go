package port

import "pool_monitor/internal/domain/entity"

// WalletProvider supplies the wallet list and account settings. Read once per refresh cycle.
type WalletProvider interface {
	GetSettings() (entity.AccountSettings, error)
}
