package poolparser

import (
	"pool_monitor/internal/domain/entity"
)

// Flockpool reports RTM amounts in satoshi-style integers regardless of the registry.
const flockPoolDecimals int32 = 8

type flockPoolRate struct {
	Now number `json:"now"`
	Avg number `json:"avg"`
}

type flockPoolWallet struct {
	Error   string `json:"error"`
	Balance *struct {
		Paid     number `json:"paid"`
		Immature number `json:"immature"`
		Mature   number `json:"mature"`
	} `json:"balance"`
	Hashrate    flockPoolRate `json:"hashrate"`
	Earnings24h number        `json:"earnings24h"`
	Workers     []struct {
		Name      string        `json:"name"`
		Hashrate  flockPoolRate `json:"hashrate"`
		LastShare number        `json:"lastShare"`
	} `json:"workers"`
}

// ParseFlockPool parses /api/v1/wallets/rtm/{address}.
func ParseFlockPool(body []byte, req entity.ParseRequest) (entity.PoolStats, error) {
	if isEmptyBody(body) {
		return entity.PoolStats{}, entity.ErrNoData
	}
	var w flockPoolWallet
	if err := decode(body, &w); err != nil {
		return entity.PoolStats{}, err
	}
	if w.Error != "" {
		return entity.PoolStats{}, poolReportedError(w.Error)
	}
	if w.Balance == nil && len(w.Workers) == 0 && !w.Hashrate.Now.IsSet() {
		return entity.PoolStats{}, entity.ErrNoData
	}

	stats := entity.PoolStats{
		Hashrate:    w.Hashrate.Now.Float(),
		Hashrate24h: w.Hashrate.Avg.Float(),
	}
	earnings, err := w.Earnings24h.FixedPoint(flockPoolDecimals)
	if err != nil {
		return entity.PoolStats{}, err
	}
	stats.Earnings24h = earnings
	if w.Balance != nil {
		amounts, err := fixedPoint(flockPoolDecimals, w.Balance.Mature, w.Balance.Immature, w.Balance.Paid)
		if err != nil {
			return entity.PoolStats{}, err
		}
		stats.Balance = amounts[0] + amounts[1]
		stats.Paid = amounts[2]
	}
	for _, wk := range w.Workers {
		lastSeen := unixMillis(wk.LastShare)
		stats.Workers = append(stats.Workers, entity.Worker{
			Name:        workerName(wk.Name),
			Hashrate:    wk.Hashrate.Now.Float(),
			Hashrate24h: optionalFloat(wk.Hashrate.Avg),
			LastSeen:    lastSeen,
			Offline:     req.IsStale(lastSeen),
		})
		stats.LastShare = latest(stats.LastShare, lastSeen)
	}
	stats.WorkersTotal = len(stats.Workers)
	stats.WorkersOnline = entity.CountOnline(stats.Workers)
	return finish(stats), nil
}
