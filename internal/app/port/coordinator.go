package port

import (
	"context"

	"pool_monitor/internal/domain/entity"
)

// RefreshCoordinator fans fetches out across wallets and owns the per-wallet view state.
type RefreshCoordinator interface {
	// Refresh runs one cycle and returns false without doing anything if a cycle is already running.
	Refresh(ctx context.Context) (bool, error)
	// Trigger starts a cycle in the background and reports whether one was started.
	Trigger(ctx context.Context) bool
	// Run refreshes on the settings interval and on wallet-list changes until ctx is done.
	Run(ctx context.Context) error
	NotifyWalletsChanged()
	Snapshot() entity.RefreshSnapshot
	// Subscribe returns a channel of events and a function that closes it.
	Subscribe() (<-chan entity.RefreshEvent, func())
}
