package poolparser

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"pool_monitor/internal/domain/entity"
)

// Nanopool reports hashrate in MH/s for GPU coins and in H/s (or Sol/s) otherwise.
var nanopoolHashrateUnit = map[string]float64{ //nolint:gochecknoglobals
	"etc": 1e6,
	"rvn": 1e6,
	"erg": 1e6,
}

type nanopoolEnvelope struct {
	Status bool               `json:"status"`
	Error  string             `json:"error"`
	Data   jsoniter.RawMessage `json:"data"`
}

type nanopoolAccount struct {
	Account            string `json:"account"`
	UnconfirmedBalance number `json:"unconfirmed_balance"`
	Balance            number `json:"balance"`
	Hashrate           number `json:"hashrate"`
	AvgHashrate        struct {
		H1  number `json:"h1"`
		H24 number `json:"h24"`
	} `json:"avgHashrate"`
	Workers []struct {
		ID        string `json:"id"`
		UID       int64  `json:"uid"`
		Hashrate  number `json:"hashrate"`
		LastShare number `json:"lastShare"`
		Rating    number `json:"rating"`
		H24       number `json:"h24"`
	} `json:"workers"`
}

// ParseNanopool parses /v1/{coin}/user/{address}. Offline is inferred from lastShare staleness.
func ParseNanopool(body []byte, req entity.ParseRequest) (entity.PoolStats, error) {
	if isEmptyBody(body) {
		return entity.PoolStats{}, entity.ErrNoData
	}
	var env nanopoolEnvelope
	if err := decode(body, &env); err != nil {
		return entity.PoolStats{}, err
	}
	if !env.Status {
		if env.Error == "" {
			return entity.PoolStats{}, errors.New("pool reported failure without a message")
		}
		return entity.PoolStats{}, poolReportedError(env.Error)
	}
	if isEmptyBody(env.Data) {
		return entity.PoolStats{}, entity.ErrNoData
	}
	var acc nanopoolAccount
	if err := decode(env.Data, &acc); err != nil {
		return entity.PoolStats{}, err
	}

	unit, ok := nanopoolHashrateUnit[req.Coin]
	if !ok {
		unit = 1
	}

	stats := entity.PoolStats{
		Hashrate:    acc.Hashrate.Float() * unit,
		Hashrate24h: acc.AvgHashrate.H24.Float() * unit,
		Balance:     acc.Balance.Float() + acc.UnconfirmedBalance.Float(),
	}
	for _, w := range acc.Workers {
		lastSeen := unixSeconds(w.LastShare)
		worker := entity.Worker{
			Name:     w.ID,
			Hashrate: w.Hashrate.Float() * unit,
			LastSeen: lastSeen,
			Offline:  req.IsStale(lastSeen),
			Shares:   optionalFloat(w.Rating),
		}
		if w.H24.IsSet() {
			worker.Hashrate24h = floatPtr(w.H24.Float() * unit)
		}
		stats.Workers = append(stats.Workers, worker)
		stats.LastShare = latest(stats.LastShare, lastSeen)
	}
	stats.WorkersTotal = len(stats.Workers)
	stats.WorkersOnline = entity.CountOnline(stats.Workers)
	return finish(stats), nil
}
