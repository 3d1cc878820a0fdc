package poolparser

import (
	"pool_monitor/internal/app/port"
	pooldefinition "pool_monitor/internal/infrastructure/pool/definition"
)

// Registry maps pool ids to their response parser.
type Registry struct {
	parsers map[string]port.PoolStatsParser
}

// NewRegistry creates the parser table for every predefined pool adapter.
func NewRegistry() port.ParserRegistry {
	return &Registry{parsers: map[string]port.PoolStatsParser{
		pooldefinition.TwoMiners.ID:   ParseTwoMiners,
		pooldefinition.Nanopool.ID:    ParseNanopool,
		pooldefinition.F2Pool.ID:      ParseF2Pool,
		pooldefinition.HeroMiners.ID:  ParseHeroMiners,
		pooldefinition.Kryptex.ID:     ParseKryptex,
		pooldefinition.CKPool.ID:      ParseCKPool,
		pooldefinition.CKPoolEU.ID:    ParseCKPool,
		pooldefinition.PublicPool.ID:  ParsePublicPool,
		pooldefinition.Vipor.ID:       ParseVipor,
		pooldefinition.ZergPool.ID:    ParseZergPool,
		pooldefinition.FlockPool.ID:   ParseFlockPool,
		pooldefinition.MoneroOcean.ID: ParseMoneroOcean,
	}}
}

// Lookup returns the parser for poolID.
func (r *Registry) Lookup(poolID string) (port.PoolStatsParser, bool) {
	p, ok := r.parsers[poolID]
	return p, ok
}
