package poolparser

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"pool_monitor/internal/domain/entity"
	"pool_monitor/internal/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// number keeps the textual form of a JSON value that pools send either as a number or
// as a quoted string. The raw text is kept so fixed-point integers never pass through float64.
type number string

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	if s == "" {
		*n = ""
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("expected a finite number, got %q", s)
	}
	*n = number(s)
	return nil
}

// IsSet reports whether the field was present with a value.
func (n number) IsSet() bool { return n != "" }

// Float returns the value as float64, 0 when unset.
func (n number) Float() float64 {
	if n == "" {
		return 0
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0
	}
	return f
}

// Int returns the value truncated to int64.
func (n number) Int() int64 {
	return int64(n.Float())
}

// FixedPoint divides the raw integer by 10^decimals.
func (n number) FixedPoint(decimals int32) (float64, error) {
	return utils.FixedPointToFloat(string(n), decimals)
}

// siRate is a hashrate that may carry an SI suffix, e.g. "1.23T" or "850G".
type siRate float64

var siMultipliers = map[byte]float64{ //nolint:gochecknoglobals
	'K': 1e3, 'M': 1e6, 'G': 1e9, 'T': 1e12, 'P': 1e15, 'E': 1e18, 'Z': 1e21,
}

func (r *siRate) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*r = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	v, err := parseSIRate(s)
	if err != nil {
		return err
	}
	*r = siRate(v)
	return nil
}

func parseSIRate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	mult := 1.0
	if m, ok := siMultipliers[strings.ToUpper(s[len(s)-1:])[0]]; ok {
		mult = m
		s = s[:len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v*mult, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("invalid hashrate %q", s)
	}
	return v * mult, nil
}

// isEmptyBody reports bodies pools send for addresses they do not know.
func isEmptyBody(body []byte) bool {
	switch string(bytes.TrimSpace(body)) {
	case "", "null", "{}", "[]", `""`:
		return true
	}
	return false
}

var noDataMarkers = []string{ //nolint:gochecknoglobals
	"not found", "no data", "does not exist", "doesn't exist", "unknown address", "invalid address", "invalid user", "never",
}

// isNoDataMessage reports whether a pool error message means "this address has never mined here".
func isNoDataMessage(msg string) bool {
	msg = strings.ToLower(msg)
	for _, m := range noDataMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// poolReportedError converts an error message embedded in a 200 response.
func poolReportedError(msg string) error {
	if isNoDataMessage(msg) {
		return entity.ErrNoData
	}
	return fmt.Errorf("pool reported error: %s", msg)
}

func decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func unixSeconds(n number) *time.Time {
	sec := n.Int()
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

func unixMillis(n number) *time.Time {
	ms := n.Int()
	if ms <= 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}

func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func floatPtr(v float64) *float64 { return &v }

// optionalFloat returns nil for unset numbers.
func optionalFloat(n number) *float64 {
	if !n.IsSet() {
		return nil
	}
	return floatPtr(n.Float())
}

func latest(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.After(*a):
		return b
	default:
		return a
	}
}

// fixedPoint converts raw fixed-point fields and reports every malformed one.
func fixedPoint(decimals int32, fields ...number) ([]float64, error) {
	out := make([]float64, len(fields))
	var errs []error
	for i, f := range fields {
		v, err := f.FixedPoint(decimals)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[i] = v
	}
	return out, errors.Join(errs...)
}

// finish applies the PoolStats invariants shared by every parser.
func finish(stats entity.PoolStats) entity.PoolStats {
	stats.Normalize()
	return stats
}
