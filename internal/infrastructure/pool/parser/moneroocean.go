package poolparser

import (
	"pool_monitor/internal/domain/entity"
)

// MoneroOcean amounts are piconero.
const moneroOceanDecimals int32 = 12

type moneroOceanStats struct {
	Hash          number `json:"hash"`
	Hash2         number `json:"hash2"`
	LastHash      number `json:"lastHash"`
	TotalHashes   number `json:"totalHashes"`
	ValidShares   number `json:"validShares"`
	InvalidShares number `json:"invalidShares"`
	AmtPaid       number `json:"amtPaid"`
	AmtDue        number `json:"amtDue"`
	Error         string `json:"error"`
}

// ParseMoneroOcean parses /miner/{address}/stats. The endpoint has no worker list and
// no 24h average, so hash2 (the algo-normalized rate) stands in for the long window.
func ParseMoneroOcean(body []byte, _ entity.ParseRequest) (entity.PoolStats, error) {
	if isEmptyBody(body) {
		return entity.PoolStats{}, entity.ErrNoData
	}
	var s moneroOceanStats
	if err := decode(body, &s); err != nil {
		return entity.PoolStats{}, err
	}
	if s.Error != "" {
		return entity.PoolStats{}, poolReportedError(s.Error)
	}
	if s.LastHash.Float() == 0 && s.TotalHashes.Float() == 0 && s.AmtPaid.Float() == 0 && s.AmtDue.Float() == 0 {
		return entity.PoolStats{}, entity.ErrNoData
	}

	amounts, err := fixedPoint(moneroOceanDecimals, s.AmtDue, s.AmtPaid)
	if err != nil {
		return entity.PoolStats{}, err
	}
	stats := entity.PoolStats{
		Hashrate:    s.Hash.Float(),
		Hashrate24h: s.Hash2.Float(),
		Balance:     amounts[0],
		Paid:        amounts[1],
		Shares:      optionalFloat(s.ValidShares),
		LastShare:   unixSeconds(s.LastHash),
	}
	if !s.Hash2.IsSet() {
		stats.Hashrate24h = stats.Hashrate
	}
	return finish(stats), nil
}
