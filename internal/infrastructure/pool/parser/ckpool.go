package poolparser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"

	"pool_monitor/internal/domain/entity"
)

type ckpoolWorker struct {
	WorkerName  string `json:"workername"`
	Hashrate1m  siRate `json:"hashrate1m"`
	Hashrate5m  siRate `json:"hashrate5m"`
	Hashrate1hr siRate `json:"hashrate1hr"`
	Hashrate1d  siRate `json:"hashrate1d"`
	LastShare   number `json:"lastshare"`
	Shares      number `json:"shares"`
	BestShare   number `json:"bestshare"`
	BestEver    number `json:"bestever"`
}

type ckpoolUser struct {
	Hashrate1m  siRate         `json:"hashrate1m"`
	Hashrate5m  siRate         `json:"hashrate5m"`
	Hashrate1hr siRate         `json:"hashrate1hr"`
	Hashrate1d  siRate         `json:"hashrate1d"`
	Hashrate7d  siRate         `json:"hashrate7d"`
	LastShare   number         `json:"lastshare"`
	Workers     number         `json:"workers"`
	Shares      number         `json:"shares"`
	BestShare   number         `json:"bestshare"`
	BestEver    number         `json:"bestever"`
	Worker      []ckpoolWorker `json:"worker"`
}

// ParseCKPool parses the solo.ckpool.org user file. It is served either as one JSON
// document or as JSON lines (user summary first, then one line per worker), and as
// plain text when the address is unknown.
func ParseCKPool(body []byte, req entity.ParseRequest) (entity.PoolStats, error) {
	trimmed := bytes.TrimSpace(body)
	if isEmptyBody(trimmed) {
		return entity.PoolStats{}, entity.ErrNoData
	}
	if trimmed[0] != '{' {
		if isNoDataMessage(string(trimmed)) {
			return entity.PoolStats{}, entity.ErrNoData
		}
		return entity.PoolStats{}, fmt.Errorf("unexpected non-JSON body: %.64q", trimmed)
	}

	user, err := decodeCKPoolUser(trimmed)
	if err != nil {
		return entity.PoolStats{}, err
	}

	stats := entity.PoolStats{
		Hashrate:     float64(user.Hashrate1m),
		Hashrate5m:   floatPtr(float64(user.Hashrate5m)),
		Hashrate24h:  float64(user.Hashrate1d),
		WorkersTotal: int(user.Workers.Int()),
		Shares:       optionalFloat(user.Shares),
		BestShare:    optionalFloat(user.BestShare),
		BestEver:     optionalFloat(user.BestEver),
		LastShare:    unixSeconds(user.LastShare),
	}

	prefix := req.Address + "."
	for _, w := range user.Worker {
		name := strings.TrimPrefix(w.WorkerName, prefix)
		if name == "" {
			name = w.WorkerName
		}
		lastSeen := unixSeconds(w.LastShare)
		stats.Workers = append(stats.Workers, entity.Worker{
			Name:        name,
			Hashrate:    float64(w.Hashrate1m),
			Hashrate24h: floatPtr(float64(w.Hashrate1d)),
			LastSeen:    lastSeen,
			Offline:     req.IsStale(lastSeen),
			Shares:      optionalFloat(w.Shares),
			BestShare:   optionalFloat(w.BestShare),
		})
	}
	if len(stats.Workers) > 0 {
		stats.WorkersTotal = len(stats.Workers)
		stats.WorkersOnline = entity.CountOnline(stats.Workers)
	} else if !req.IsStale(stats.LastShare) {
		stats.WorkersOnline = stats.WorkersTotal
	}
	return finish(stats), nil
}

func decodeCKPoolUser(body []byte) (ckpoolUser, error) {
	var user ckpoolUser
	whole := decode(body, &user)
	if whole == nil {
		return user, nil
	}

	user = ckpoolUser{}
	sc := bufio.NewScanner(bytes.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if first {
			if err := decode(line, &user); err != nil {
				return ckpoolUser{}, errors.Join(whole, err)
			}
			first = false
			continue
		}
		var w ckpoolWorker
		if err := decode(line, &w); err != nil {
			return ckpoolUser{}, err
		}
		if w.WorkerName != "" {
			user.Worker = append(user.Worker, w)
		}
	}
	if err := sc.Err(); err != nil {
		return ckpoolUser{}, err
	}
	return user, nil
}
