package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pool_monitor/internal/domain/entity"
	"pool_monitor/internal/pkg/logger"
)

type scriptedSource struct {
	settings entity.AccountSettings
	err      error
}

func (s *scriptedSource) GetSettings() (entity.AccountSettings, error) {
	return s.settings, s.err
}

func TestWalletProviderFailsWithoutPriorRead(t *testing.T) {
	src := &scriptedSource{err: errors.New("no such file")}
	_, err := NewWalletProvider(src, logger.Nop{}).GetSettings()
	assert.Error(t, err)
}

func TestWalletProviderServesLastGood(t *testing.T) {
	src := &scriptedSource{settings: entity.AccountSettings{Tier: entity.TierPro}}
	p := NewWalletProvider(src, logger.Nop{})

	s, err := p.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, entity.TierPro, s.Tier)

	src.err = errors.New("yaml: line 3: mapping values are not allowed")
	s, err = p.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, entity.TierPro, s.Tier)

	src.err = nil
	src.settings = entity.AccountSettings{Tier: entity.TierFree}
	s, err = p.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, entity.TierFree, s.Tier)
}
