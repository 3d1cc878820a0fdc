package poolparser

import (
	"pool_monitor/internal/domain/entity"
)

type kryptexAccount struct {
	Detail   string `json:"detail"`
	Hashrate *struct {
		Current number `json:"10m"`
		Hour    number `json:"1h"`
		Day     number `json:"24h"`
	} `json:"hashrate"`
	Balance *struct {
		Unpaid   number `json:"unpaid"`
		Paid     number `json:"paid"`
		Immature number `json:"immature"`
	} `json:"balance"`
	Earnings struct {
		Day number `json:"24h"`
	} `json:"earnings"`
	Workers []struct {
		Name        string `json:"name"`
		Hashrate10m number `json:"hashrate_10m"`
		Hashrate24h number `json:"hashrate_24h"`
		LastShareAt string `json:"last_share_at"`
		Online      *bool  `json:"online"`
	} `json:"workers"`
}

// ParseKryptex parses the Kryptex miner stats payload. Amounts are decimal strings.
func ParseKryptex(body []byte, req entity.ParseRequest) (entity.PoolStats, error) {
	if isEmptyBody(body) {
		return entity.PoolStats{}, entity.ErrNoData
	}
	var acc kryptexAccount
	if err := decode(body, &acc); err != nil {
		return entity.PoolStats{}, err
	}
	if acc.Detail != "" {
		return entity.PoolStats{}, poolReportedError(acc.Detail)
	}
	if acc.Hashrate == nil && acc.Balance == nil && len(acc.Workers) == 0 {
		return entity.PoolStats{}, entity.ErrNoData
	}

	stats := entity.PoolStats{Earnings24h: acc.Earnings.Day.Float()}
	if acc.Hashrate != nil {
		stats.Hashrate = acc.Hashrate.Current.Float()
		stats.Hashrate24h = acc.Hashrate.Day.Float()
	}
	if acc.Balance != nil {
		stats.Balance = acc.Balance.Unpaid.Float() + acc.Balance.Immature.Float()
		stats.Paid = acc.Balance.Paid.Float()
	}
	for _, w := range acc.Workers {
		lastSeen := parseTimestamp(w.LastShareAt)
		offline := req.IsStale(lastSeen)
		if w.Online != nil {
			offline = !*w.Online
		}
		stats.Workers = append(stats.Workers, entity.Worker{
			Name:        w.Name,
			Hashrate:    w.Hashrate10m.Float(),
			Hashrate24h: optionalFloat(w.Hashrate24h),
			LastSeen:    lastSeen,
			Offline:     offline,
		})
		stats.LastShare = latest(stats.LastShare, lastSeen)
	}
	stats.WorkersTotal = len(stats.Workers)
	stats.WorkersOnline = entity.CountOnline(stats.Workers)
	return finish(stats), nil
}
