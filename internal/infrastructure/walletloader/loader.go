package walletloader

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"pool_monitor/internal/app/port"
	"pool_monitor/internal/domain/entity"
)

const defaultSettingsFilePath = "data/settings.yml"

// SettingsFileLoader implements port.WalletProvider by reading a YAML settings file.
// The file is re-read on every call so edits apply on the next refresh cycle.
type SettingsFileLoader struct {
	filePath string
	coins    port.CoinRegistry
	pools    port.PoolRegistry
	logger   port.Logger
}

// NewSettingsFileLoader creates a loader. An empty path falls back to data/settings.yml.
func NewSettingsFileLoader(filePath string, coins port.CoinRegistry, pools port.PoolRegistry, logger port.Logger) *SettingsFileLoader {
	if filePath == "" {
		filePath = defaultSettingsFilePath
	}
	return &SettingsFileLoader{filePath: filePath, coins: coins, pools: pools, logger: logger}
}

// Path returns the settings file location.
func (l *SettingsFileLoader) Path() string {
	return l.filePath
}

// GetSettings reads the settings file and drops wallets that cannot be fetched.
func (l *SettingsFileLoader) GetSettings() (entity.AccountSettings, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return entity.AccountSettings{}, fmt.Errorf("failed to read settings file %s: %w", l.filePath, err)
	}
	return l.Parse(data)
}

// walletEntry is the on-disk wallet. A missing `enabled` key means enabled.
type walletEntry struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	Pool         string  `yaml:"pool"`
	Coin         string  `yaml:"coin"`
	Address      string  `yaml:"address"`
	PowerWatts   float64 `yaml:"powerWatts"`
	Enabled      *bool   `yaml:"enabled"`
	DisplayOrder int     `yaml:"displayOrder"`
}

type settingsFile struct {
	Tier                   string        `yaml:"tier"`
	RefreshIntervalMinutes int           `yaml:"refreshIntervalMinutes"`
	ElectricityRatePerKwh  float64       `yaml:"electricityRatePerKwh"`
	PowerWatts             float64       `yaml:"powerWatts"`
	Wallets                []walletEntry `yaml:"wallets"`
}

// Parse decodes settings YAML and validates every wallet entry.
func (l *SettingsFileLoader) Parse(data []byte) (entity.AccountSettings, error) {
	var raw settingsFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return entity.AccountSettings{}, fmt.Errorf("failed to unmarshal settings from %s: %w", l.filePath, err)
	}
	settings := entity.AccountSettings{
		Tier:                   entity.Tier(raw.Tier),
		RefreshIntervalMinutes: raw.RefreshIntervalMinutes,
		ElectricityRatePerKwh:  raw.ElectricityRatePerKwh,
		PowerWatts:             raw.PowerWatts,
		Wallets:                make([]entity.Wallet, 0, len(raw.Wallets)),
	}
	for _, e := range raw.Wallets {
		settings.Wallets = append(settings.Wallets, entity.Wallet{
			ID:           e.ID,
			Name:         e.Name,
			PoolID:       e.Pool,
			Coin:         e.Coin,
			Address:      e.Address,
			PowerWatts:   e.PowerWatts,
			Enabled:      e.Enabled == nil || *e.Enabled,
			DisplayOrder: e.DisplayOrder,
		})
	}

	settings.Tier = entity.Tier(strings.ToLower(strings.TrimSpace(string(settings.Tier))))
	switch settings.Tier {
	case entity.TierFree, entity.TierPro, entity.TierBundle:
	case "":
		settings.Tier = entity.TierFree
	default:
		l.logger.Warn("Unknown tier in settings, treating as free", "tier", string(settings.Tier), "path", l.filePath)
		settings.Tier = entity.TierFree
	}
	if settings.RefreshIntervalMinutes < 0 {
		settings.RefreshIntervalMinutes = 0
	}
	if settings.ElectricityRatePerKwh < 0 {
		settings.ElectricityRatePerKwh = 0
	}
	if settings.PowerWatts < 0 {
		settings.PowerWatts = 0
	}

	seen := make(map[string]struct{}, len(settings.Wallets))
	valid := make([]entity.Wallet, 0, len(settings.Wallets))
	for i, w := range settings.Wallets {
		w.ID = strings.TrimSpace(w.ID)
		w.PoolID = strings.ToLower(strings.TrimSpace(w.PoolID))
		w.Coin = strings.ToLower(strings.TrimSpace(w.Coin))
		w.Address = strings.TrimSpace(w.Address)
		if w.PowerWatts < 0 {
			w.PowerWatts = 0
		}

		if err := l.validate(w); err != nil {
			l.logger.Warn("Skipping invalid wallet entry", "path", l.filePath, "index", i, "wallet_id", w.ID, "reason", err.Error())
			continue
		}
		if _, dup := seen[w.ID]; dup {
			l.logger.Warn("Skipping duplicate wallet id", "path", l.filePath, "index", i, "wallet_id", w.ID)
			continue
		}
		seen[w.ID] = struct{}{}
		valid = append(valid, w)
	}
	settings.Wallets = valid

	l.logger.Debug("Settings loaded", "path", l.filePath, "wallets", len(valid), "tier", string(settings.Tier))
	return settings, nil
}

func (l *SettingsFileLoader) validate(w entity.Wallet) error {
	if w.ID == "" {
		return fmt.Errorf("missing id")
	}
	if w.Address == "" {
		return fmt.Errorf("missing address")
	}
	if _, ok := l.pools.Resolve(w.PoolID); !ok {
		return fmt.Errorf("unknown pool %q", w.PoolID)
	}
	if !l.pools.SupportsCoin(w.PoolID, w.Coin) {
		return fmt.Errorf("pool %s does not mine %s", w.PoolID, w.Coin)
	}
	if c, ok := l.coins.Get(w.Coin); ok && c.AddressFormat == entity.AddressFormatEVM && !common.IsHexAddress(w.Address) {
		return fmt.Errorf("malformed %s address", strings.ToUpper(w.Coin))
	}
	return nil
}

// Fingerprint identifies the enabled wallet list. Two settings with the same
// fingerprint fetch the same wallets in the same order.
func Fingerprint(settings entity.AccountSettings) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n", settings.Tier)
	for _, w := range settings.EnabledWallets() {
		fmt.Fprintf(h, "%s|%s|%s|%s\n", w.ID, w.PoolID, w.Coin, w.Address)
	}
	return hex.EncodeToString(h.Sum(nil))
}
