package poolparser

import (
	"sort"
	"time"

	"pool_monitor/internal/domain/entity"
)

const defaultWorkerName = "default"

type miningCoreWorker struct {
	Hashrate        number `json:"hashrate"`
	SharesPerSecond number `json:"sharesPerSecond"`
}

type miningCorePerformance struct {
	Created string                      `json:"created"`
	Workers map[string]miningCoreWorker `json:"workers"`
}

type miningCoreMiner struct {
	PendingShares      number                  `json:"pendingShares"`
	PendingBalance     number                  `json:"pendingBalance"`
	TotalPaid          number                  `json:"totalPaid"`
	TodayPaid          number                  `json:"todayPaid"`
	Performance        *miningCorePerformance  `json:"performance"`
	PerformanceSamples []miningCorePerformance `json:"performanceSamples"`
}

func workerName(name string) string {
	if name == "" {
		return defaultWorkerName
	}
	return name
}

// ParseVipor parses a MiningCore miner endpoint. Workers in the current performance
// snapshot are online; workers only present in the last day of samples are reported offline.
// The miner endpoint has no earnings figure, so Earnings24h is todayPaid (payouts since
// midnight UTC) and reads 0 until the pool pays out.
func ParseVipor(body []byte, req entity.ParseRequest) (entity.PoolStats, error) {
	if isEmptyBody(body) {
		return entity.PoolStats{}, entity.ErrNoData
	}
	var m miningCoreMiner
	if err := decode(body, &m); err != nil {
		return entity.PoolStats{}, err
	}
	if m.Performance == nil && len(m.PerformanceSamples) == 0 &&
		m.PendingBalance.Float() == 0 && m.TotalPaid.Float() == 0 && m.PendingShares.Float() == 0 {
		return entity.PoolStats{}, entity.ErrNoData
	}

	stats := entity.PoolStats{
		Balance:     m.PendingBalance.Float(),
		Paid:        m.TotalPaid.Float(),
		Earnings24h: m.TodayPaid.Float(),
		Shares:      optionalFloat(m.PendingShares),
	}

	current := make(map[string]struct{})
	if m.Performance != nil {
		stats.LastShare = parseTimestamp(m.Performance.Created)
		names := make([]string, 0, len(m.Performance.Workers))
		for name := range m.Performance.Workers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			w := m.Performance.Workers[name]
			current[workerName(name)] = struct{}{}
			stats.Hashrate += w.Hashrate.Float()
			stats.Workers = append(stats.Workers, entity.Worker{
				Name:            workerName(name),
				Hashrate:        w.Hashrate.Float(),
				LastSeen:        stats.LastShare,
				SharesPerSecond: optionalFloat(w.SharesPerSecond),
			})
		}
	}

	since := req.Now.Add(-24 * time.Hour)
	var sampleSum float64
	var samples int
	lastSeen := make(map[string]*time.Time)
	for _, s := range m.PerformanceSamples {
		created := parseTimestamp(s.Created)
		var total float64
		for name, w := range s.Workers {
			total += w.Hashrate.Float()
			if created != nil && !created.Before(since) {
				n := workerName(name)
				lastSeen[n] = latest(lastSeen[n], created)
			}
		}
		sampleSum += total
		samples++
	}
	if samples > 0 {
		stats.Hashrate24h = sampleSum / float64(samples)
	} else {
		stats.Hashrate24h = stats.Hashrate
	}

	var gone []string
	for name := range lastSeen {
		if _, ok := current[name]; !ok {
			gone = append(gone, name)
		}
	}
	sort.Strings(gone)
	for _, name := range gone {
		stats.Workers = append(stats.Workers, entity.Worker{
			Name:     name,
			LastSeen: lastSeen[name],
			Offline:  true,
		})
	}

	stats.WorkersTotal = len(stats.Workers)
	stats.WorkersOnline = entity.CountOnline(stats.Workers)
	return finish(stats), nil
}
