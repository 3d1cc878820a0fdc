package poolparser

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"pool_monitor/internal/domain/entity"
)

const secondsPerDay = 86400

type f2poolAccount struct {
	Hashrate           number                  `json:"hashrate"`
	HashesLastDay      number                  `json:"hashes_last_day"`
	ValueLastDay       number                  `json:"value_last_day"`
	Balance            number                  `json:"balance"`
	Paid               number                  `json:"paid"`
	WorkerLength       number                  `json:"worker_length"`
	WorkerLengthOnline number                  `json:"worker_length_online"`
	Workers            [][]jsoniter.RawMessage `json:"workers"`
}

// f2poolWorker decodes the positional worker row:
// [name, hashrate, hashrate_1h, stale_hashrate, hashes_last_day, stale_hashes_last_day, last_share_time].
func f2poolWorker(row []jsoniter.RawMessage, req entity.ParseRequest) (entity.Worker, error) {
	if len(row) < 2 {
		return entity.Worker{}, fmt.Errorf("worker row has %d columns", len(row))
	}
	var name string
	if err := json.Unmarshal(row[0], &name); err != nil {
		return entity.Worker{}, fmt.Errorf("worker name: %w", err)
	}
	var hashrate number
	if err := json.Unmarshal(row[1], &hashrate); err != nil {
		return entity.Worker{}, fmt.Errorf("worker %s hashrate: %w", name, err)
	}

	w := entity.Worker{Name: name, Hashrate: hashrate.Float()}
	if len(row) > 4 {
		var day number
		if err := json.Unmarshal(row[4], &day); err == nil && day.IsSet() {
			w.Hashrate24h = floatPtr(day.Float() / secondsPerDay)
		}
	}
	if len(row) > 6 {
		var ts string
		if err := json.Unmarshal(row[6], &ts); err == nil {
			w.LastSeen = parseTimestamp(ts)
		}
	}
	// Rows without a timestamp fall back to the live hashrate.
	if w.LastSeen != nil {
		w.Offline = req.IsStale(w.LastSeen)
	} else {
		w.Offline = w.Hashrate == 0
	}
	return w, nil
}

// ParseF2Pool parses api.f2pool.com/{currency}/{address}. Amounts are already decimal.
func ParseF2Pool(body []byte, req entity.ParseRequest) (entity.PoolStats, error) {
	if isEmptyBody(body) {
		return entity.PoolStats{}, entity.ErrNoData
	}
	var acc f2poolAccount
	if err := decode(body, &acc); err != nil {
		return entity.PoolStats{}, err
	}
	if !acc.Hashrate.IsSet() && !acc.Balance.IsSet() && !acc.Paid.IsSet() && len(acc.Workers) == 0 {
		return entity.PoolStats{}, entity.ErrNoData
	}

	stats := entity.PoolStats{
		Hashrate:      acc.Hashrate.Float(),
		Hashrate24h:   acc.HashesLastDay.Float() / secondsPerDay,
		Balance:       acc.Balance.Float(),
		Paid:          acc.Paid.Float(),
		Earnings24h:   acc.ValueLastDay.Float(),
		WorkersOnline: int(acc.WorkerLengthOnline.Int()),
		WorkersTotal:  int(acc.WorkerLength.Int()),
	}
	for _, row := range acc.Workers {
		w, err := f2poolWorker(row, req)
		if err != nil {
			return entity.PoolStats{}, err
		}
		stats.Workers = append(stats.Workers, w)
		stats.LastShare = latest(stats.LastShare, w.LastSeen)
	}
	if len(stats.Workers) > 0 {
		stats.WorkersOnline = entity.CountOnline(stats.Workers)
		stats.WorkersTotal = len(stats.Workers)
	}
	return finish(stats), nil
}
