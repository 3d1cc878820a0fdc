package entity

import (
	"math"
	"time"
)

// Worker is one rig reporting to a pool under a wallet. Rebuilt on every fetch.
type Worker struct {
	Name            string     `json:"name"`
	Hashrate        float64    `json:"hashrate"`
	Hashrate24h     *float64   `json:"hashrate24h,omitempty"`
	LastSeen        *time.Time `json:"lastSeen,omitempty"`
	Offline         bool       `json:"offline"`
	Shares          *float64   `json:"shares,omitempty"`
	BestShare       *float64   `json:"bestShare,omitempty"`
	SharesPerSecond *float64   `json:"sharesPerSecond,omitempty"`
}

// PoolStats is the canonical record every pool parser produces.
// Hashrates are in H/s and coin amounts are human-readable decimal units.
type PoolStats struct {
	Hashrate      float64    `json:"hashrate"`
	Hashrate5m    *float64   `json:"hashrate5m,omitempty"`
	Hashrate24h   float64    `json:"hashrate24h"`
	Workers       []Worker   `json:"workers"`
	WorkersOnline int        `json:"workersOnline"`
	WorkersTotal  int        `json:"workersTotal"`
	Balance       float64    `json:"balance"`
	Paid          float64    `json:"paid"`
	Earnings24h   float64    `json:"earnings24h"`
	Shares        *float64   `json:"shares,omitempty"`
	BestShare     *float64   `json:"bestShare,omitempty"`
	BestEver      *float64   `json:"bestEver,omitempty"`
	LastShare     *time.Time `json:"lastShare,omitempty"`
}

// Normalize enforces the record invariants: finite, non-negative hashrates, share counts
// and coin amounts, a non-nil worker slice and workersOnline <= workersTotal.
// Values that overflowed to infinity are zeroed.
func (s *PoolStats) Normalize() {
	s.Hashrate = nonNegative(s.Hashrate)
	s.Hashrate24h = nonNegative(s.Hashrate24h)
	s.Balance = nonNegative(s.Balance)
	s.Paid = nonNegative(s.Paid)
	s.Earnings24h = nonNegative(s.Earnings24h)
	for _, p := range []*float64{s.Hashrate5m, s.Shares, s.BestShare, s.BestEver} {
		nonNegativePtr(p)
	}
	if s.Workers == nil {
		s.Workers = []Worker{}
	}
	for i := range s.Workers {
		w := &s.Workers[i]
		w.Hashrate = nonNegative(w.Hashrate)
		for _, p := range []*float64{w.Hashrate24h, w.Shares, w.BestShare, w.SharesPerSecond} {
			nonNegativePtr(p)
		}
	}
	if s.WorkersTotal < len(s.Workers) {
		s.WorkersTotal = len(s.Workers)
	}
	if s.WorkersOnline < 0 {
		s.WorkersOnline = 0
	}
	if s.WorkersOnline > s.WorkersTotal {
		s.WorkersOnline = s.WorkersTotal
	}
}

// CountOnline returns how many workers are not flagged offline.
func CountOnline(workers []Worker) int {
	n := 0
	for _, w := range workers {
		if !w.Offline {
			n++
		}
	}
	return n
}

// ParseRequest carries what a pool parser needs besides the body. Now and StaleAfter
// keep offline inference a pure function of its inputs.
type ParseRequest struct {
	Coin       string
	Address    string
	Now        time.Time
	StaleAfter time.Duration
}

// IsStale reports whether a worker last seen at t counts as offline.
// A worker that never reported is stale.
func (r ParseRequest) IsStale(t *time.Time) bool {
	if t == nil || t.IsZero() {
		return true
	}
	return r.Now.Sub(*t) > r.StaleAfter
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func nonNegativePtr(p *float64) {
	if p != nil {
		*p = nonNegative(*p)
	}
}
