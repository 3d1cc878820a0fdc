package walletloader

import (
	"context"
	"time"

	"pool_monitor/internal/app/port"
)

// Watch polls the provider and calls onChange whenever the enabled wallet list
// or the tier changes. Read errors are logged and the previous fingerprint kept.
func Watch(ctx context.Context, provider port.WalletProvider, interval time.Duration, onChange func(), logger port.Logger) {
	var last string
	if s, err := provider.GetSettings(); err == nil {
		last = Fingerprint(s)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s, err := provider.GetSettings()
			if err != nil {
				logger.Warn("Settings watch: failed to read settings", "error", err)
				continue
			}
			if fp := Fingerprint(s); fp != last {
				last = fp
				logger.Info("Settings watch: wallet list changed", "wallets", len(s.EnabledWallets()))
				onChange()
			}
		}
	}
}
