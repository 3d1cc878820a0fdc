package service

import (
	"pool_monitor/internal/app/port"
	"pool_monitor/internal/domain/entity"
)

// FreeWalletLimit is how many wallets, counted in display order, a free account may fetch.
const FreeWalletLimit = 1

type entitlementPolicyImpl struct{}

// NewEntitlementPolicy returns the tier-based wallet gate.
func NewEntitlementPolicy() port.EntitlementPolicy {
	return entitlementPolicyImpl{}
}

// CheckWalletAllowed allows every wallet for pro accounts and only the first
// FreeWalletLimit positions for free ones. Reordering wallets changes which one is free.
func (entitlementPolicyImpl) CheckWalletAllowed(_ entity.Wallet, isPro bool, walletIndex int) entity.EntitlementDecision {
	if isPro {
		return entity.EntitlementDecision{Allowed: true}
	}
	if walletIndex >= 0 && walletIndex < FreeWalletLimit {
		return entity.EntitlementDecision{Allowed: true}
	}
	return entity.EntitlementDecision{Allowed: false, Reason: entity.UpgradeReason}
}
