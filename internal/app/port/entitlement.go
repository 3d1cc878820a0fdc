package port

import "pool_monitor/internal/domain/entity"

// EntitlementPolicy gates which wallets may be fetched. Must never perform I/O.
type EntitlementPolicy interface {
	CheckWalletAllowed(wallet entity.Wallet, isPro bool, walletIndex int) entity.EntitlementDecision
}
