package poolparser

import (
	"time"

	"pool_monitor/internal/domain/entity"
	coindefinition "pool_monitor/internal/infrastructure/coin/definition"
)

type heroMinersWorker struct {
	Name        string `json:"name"`
	Hashrate    number `json:"hashrate"`
	Hashrate24h number `json:"hashrate_24h"`
	LastShare   number `json:"lastShare"`
	Hashes      number `json:"hashes"`
}

type heroMinersAccount struct {
	Error string `json:"error"`
	Stats *struct {
		Balance     number `json:"balance"`
		Paid        number `json:"paid"`
		Hashrate    number `json:"hashrate"`
		Hashrate24h number `json:"hashrate_24h"`
		LastShare   number `json:"lastShare"`
		Hashes      number `json:"hashes"`
	} `json:"stats"`
	Workers []heroMinersWorker `json:"workers"`
	Rewards []struct {
		Time   number `json:"time"`
		Reward number `json:"reward"`
	} `json:"rewards"`
}

// ParseHeroMiners parses the cryptonote-style stats_address payload.
// Amounts are atomic units; earnings24h sums the rewards credited in the last day.
func ParseHeroMiners(body []byte, req entity.ParseRequest) (entity.PoolStats, error) {
	if isEmptyBody(body) {
		return entity.PoolStats{}, entity.ErrNoData
	}
	var acc heroMinersAccount
	if err := decode(body, &acc); err != nil {
		return entity.PoolStats{}, err
	}
	if acc.Error != "" {
		return entity.PoolStats{}, poolReportedError(acc.Error)
	}
	if acc.Stats == nil {
		return entity.PoolStats{}, entity.ErrNoData
	}

	decimals := coindefinition.Default.GetDecimals(req.Coin)
	amounts, err := fixedPoint(decimals, acc.Stats.Balance, acc.Stats.Paid)
	if err != nil {
		return entity.PoolStats{}, err
	}

	stats := entity.PoolStats{
		Hashrate:    acc.Stats.Hashrate.Float(),
		Hashrate24h: acc.Stats.Hashrate24h.Float(),
		Balance:     amounts[0],
		Paid:        amounts[1],
		Shares:      optionalFloat(acc.Stats.Hashes),
		LastShare:   unixSeconds(acc.Stats.LastShare),
	}

	since := req.Now.Add(-24 * time.Hour)
	for _, r := range acc.Rewards {
		at := unixSeconds(r.Time)
		if at == nil || at.Before(since) {
			continue
		}
		v, err := r.Reward.FixedPoint(decimals)
		if err != nil {
			return entity.PoolStats{}, err
		}
		stats.Earnings24h += v
	}

	for _, w := range acc.Workers {
		lastSeen := unixSeconds(w.LastShare)
		stats.Workers = append(stats.Workers, entity.Worker{
			Name:        w.Name,
			Hashrate:    w.Hashrate.Float(),
			Hashrate24h: optionalFloat(w.Hashrate24h),
			LastSeen:    lastSeen,
			Offline:     req.IsStale(lastSeen),
			Shares:      optionalFloat(w.Hashes),
		})
	}
	stats.WorkersTotal = len(stats.Workers)
	stats.WorkersOnline = entity.CountOnline(stats.Workers)
	return finish(stats), nil
}
