package provider

import (
	"sync"

	"pool_monitor/internal/app/port"
	"pool_monitor/internal/domain/entity"
)

type walletProviderImpl struct {
	source port.WalletProvider
	logger port.Logger

	mu       sync.Mutex
	lastGood *entity.AccountSettings
}

// NewWalletProvider wraps a settings source. When the source fails after a successful
// read, the last good settings are served so a bad edit does not blank every wallet.
func NewWalletProvider(source port.WalletProvider, logger port.Logger) port.WalletProvider {
	return &walletProviderImpl{source: source, logger: logger}
}

// GetSettings loads the settings from the wrapped source.
func (p *walletProviderImpl) GetSettings() (entity.AccountSettings, error) {
	settings, err := p.source.GetSettings()

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		if p.lastGood == nil {
			p.logger.Error("Failed to load settings", "error", err)
			return entity.AccountSettings{}, err
		}
		p.logger.Warn("Failed to load settings, serving last good copy", "error", err)
		return *p.lastGood, nil
	}
	p.lastGood = &settings
	p.logger.Debug("Settings loaded successfully", "wallets", len(settings.Wallets), "tier", string(settings.Tier))
	return settings, nil
}
