package poolparser

import (
	"sort"
	"strings"

	"pool_monitor/internal/domain/entity"
)

type zergPoolWallet struct {
	Currency string `json:"currency"`
	Unsold   number `json:"unsold"`
	Balance  number `json:"balance"`
	Unpaid   number `json:"unpaid"`
	Paid24h  number `json:"paid24h"`
	Total    number `json:"total"`
	Error    string `json:"error"`
	Miners   []struct {
		ID         string `json:"ID"`
		Password   string `json:"password"`
		Algo       string `json:"algo"`
		Difficulty number `json:"difficulty"`
		Accepted   number `json:"accepted"`
		Rejected   number `json:"rejected"`
	} `json:"miners"`
}

// zergPoolWorkerID takes the rig name from the ID field or, failing that, from the
// "ID=" option in the stratum password.
func zergPoolWorkerID(id, password string) string {
	if id != "" {
		return id
	}
	for _, opt := range strings.Split(password, ",") {
		if k, v, ok := strings.Cut(strings.TrimSpace(opt), "="); ok && strings.EqualFold(k, "id") && v != "" {
			return v
		}
	}
	return defaultWorkerName
}

// ParseZergPool parses walletEx. Zergpool lists connected miners only, so every
// reported worker is online. A rig mining several algos is merged into one worker.
// Earnings24h is paid24h, the payouts of the last day; walletEx exposes nothing finer.
func ParseZergPool(body []byte, _ entity.ParseRequest) (entity.PoolStats, error) {
	if isEmptyBody(body) {
		return entity.PoolStats{}, entity.ErrNoData
	}
	var w zergPoolWallet
	if err := decode(body, &w); err != nil {
		return entity.PoolStats{}, err
	}
	if w.Error != "" {
		return entity.PoolStats{}, poolReportedError(w.Error)
	}
	if w.Currency == "" && !w.Unpaid.IsSet() && !w.Balance.IsSet() && len(w.Miners) == 0 {
		return entity.PoolStats{}, entity.ErrNoData
	}

	stats := entity.PoolStats{
		Balance:     w.Unpaid.Float(),
		Earnings24h: w.Paid24h.Float(),
	}
	if !w.Unpaid.IsSet() {
		stats.Balance = w.Balance.Float()
	}
	stats.Paid = max(w.Total.Float()-stats.Balance, 0)

	byName := make(map[string]*entity.Worker)
	for _, m := range w.Miners {
		name := zergPoolWorkerID(m.ID, m.Password)
		rate := m.Accepted.Float()
		stats.Hashrate += rate
		if existing, ok := byName[name]; ok {
			existing.Hashrate += rate
			continue
		}
		byName[name] = &entity.Worker{Name: name, Hashrate: rate}
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stats.Workers = append(stats.Workers, *byName[name])
	}
	stats.Hashrate24h = stats.Hashrate
	stats.WorkersTotal = len(stats.Workers)
	stats.WorkersOnline = len(stats.Workers)
	return finish(stats), nil
}
