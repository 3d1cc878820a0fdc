package poolparser

import (
	"pool_monitor/internal/domain/entity"
)

type publicPoolClient struct {
	BestDifficulty number `json:"bestDifficulty"`
	WorkersCount   int    `json:"workersCount"`
	Workers        []struct {
		SessionID      string `json:"sessionId"`
		Name           string `json:"name"`
		BestDifficulty number `json:"bestDifficulty"`
		HashRate       number `json:"hashRate"`
		StartTime      string `json:"startTime"`
		LastSeen       string `json:"lastSeen"`
	} `json:"workers"`
}

// ParsePublicPool parses /api/client/{address}. The pool keeps no balance; hashrate is
// the sum of the connected sessions.
func ParsePublicPool(body []byte, req entity.ParseRequest) (entity.PoolStats, error) {
	if isEmptyBody(body) {
		return entity.PoolStats{}, entity.ErrNoData
	}
	var c publicPoolClient
	if err := decode(body, &c); err != nil {
		return entity.PoolStats{}, err
	}
	if len(c.Workers) == 0 && c.BestDifficulty.Float() == 0 {
		return entity.PoolStats{}, entity.ErrNoData
	}

	stats := entity.PoolStats{
		WorkersTotal: c.WorkersCount,
		BestEver:     optionalFloat(c.BestDifficulty),
	}
	for _, w := range c.Workers {
		name := w.Name
		if name == "" {
			name = w.SessionID
		}
		lastSeen := parseTimestamp(w.LastSeen)
		worker := entity.Worker{
			Name:      name,
			Hashrate:  w.HashRate.Float(),
			LastSeen:  lastSeen,
			Offline:   req.IsStale(lastSeen),
			BestShare: optionalFloat(w.BestDifficulty),
		}
		if !worker.Offline {
			stats.Hashrate += worker.Hashrate
		}
		stats.Workers = append(stats.Workers, worker)
		stats.LastShare = latest(stats.LastShare, lastSeen)
	}
	stats.Hashrate24h = stats.Hashrate
	stats.WorkersOnline = entity.CountOnline(stats.Workers)
	return finish(stats), nil
}
