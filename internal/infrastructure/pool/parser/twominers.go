package poolparser

import (
	"sort"

	"pool_monitor/internal/domain/entity"
	coindefinition "pool_monitor/internal/infrastructure/coin/definition"
)

// 2Miners reports ETC/ETHW amounts in Shannon (10^9); every other coin uses its native precision.
var twoMinersDecimals = map[string]int32{ //nolint:gochecknoglobals
	"etc":  9,
	"ethw": 9,
}

type twoMinersWorker struct {
	LastBeat    number `json:"lastBeat"`
	Hashrate    number `json:"hr"`
	Hashrate2   number `json:"hr2"`
	Offline     bool   `json:"offline"`
	SharesValid number `json:"sharesValid"`
}

type twoMinersAccount struct {
	Error           string `json:"error"`
	CurrentHashrate number `json:"currentHashrate"`
	Hashrate        number `json:"hashrate"`
	Reward24h       number `json:"24hreward"`
	Stats           *struct {
		Balance   number `json:"balance"`
		Immature  number `json:"immature"`
		Paid      number `json:"paid"`
		LastShare number `json:"lastShare"`
	} `json:"stats"`
	Workers       map[string]twoMinersWorker `json:"workers"`
	WorkersOnline int                        `json:"workersOnline"`
	WorkersTotal  int                        `json:"workersTotal"`
	SharesValid   number                     `json:"sharesValid"`
}

// ParseTwoMiners parses /api/accounts/{address}. Workers carry an explicit offline flag.
func ParseTwoMiners(body []byte, req entity.ParseRequest) (entity.PoolStats, error) {
	if isEmptyBody(body) {
		return entity.PoolStats{}, entity.ErrNoData
	}
	var acc twoMinersAccount
	if err := decode(body, &acc); err != nil {
		return entity.PoolStats{}, err
	}
	if acc.Error != "" {
		return entity.PoolStats{}, poolReportedError(acc.Error)
	}
	if acc.Stats == nil && len(acc.Workers) == 0 && !acc.CurrentHashrate.IsSet() {
		return entity.PoolStats{}, entity.ErrNoData
	}

	decimals, ok := twoMinersDecimals[req.Coin]
	if !ok {
		decimals = coindefinition.Default.GetDecimals(req.Coin)
	}

	stats := entity.PoolStats{
		Hashrate:      acc.CurrentHashrate.Float(),
		Hashrate24h:   acc.Hashrate.Float(),
		WorkersOnline: acc.WorkersOnline,
		WorkersTotal:  acc.WorkersTotal,
		Shares:        optionalFloat(acc.SharesValid),
	}

	amounts, err := fixedPoint(decimals, acc.Reward24h)
	if err != nil {
		return entity.PoolStats{}, err
	}
	stats.Earnings24h = amounts[0]

	if acc.Stats != nil {
		amounts, err := fixedPoint(decimals, acc.Stats.Balance, acc.Stats.Immature, acc.Stats.Paid)
		if err != nil {
			return entity.PoolStats{}, err
		}
		stats.Balance = amounts[0] + amounts[1]
		stats.Paid = amounts[2]
		stats.LastShare = unixSeconds(acc.Stats.LastShare)
	}

	names := make([]string, 0, len(acc.Workers))
	for name := range acc.Workers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		w := acc.Workers[name]
		stats.Workers = append(stats.Workers, entity.Worker{
			Name:        name,
			Hashrate:    w.Hashrate.Float(),
			Hashrate24h: optionalFloat(w.Hashrate2),
			LastSeen:    unixSeconds(w.LastBeat),
			Offline:     w.Offline,
			Shares:      optionalFloat(w.SharesValid),
		})
	}
	if len(stats.Workers) > 0 {
		stats.WorkersOnline = entity.CountOnline(stats.Workers)
		stats.WorkersTotal = len(stats.Workers)
	}
	return finish(stats), nil
}
