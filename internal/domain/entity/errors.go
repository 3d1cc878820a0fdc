package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPool is returned when a pool id is not in the adapter registry.
	ErrUnknownPool = errors.New("unknown pool")
	// ErrUnsupportedCoin is returned when a known pool does not mine the requested coin.
	ErrUnsupportedCoin = errors.New("pool does not support coin")
	// ErrNoData means the pool answered but has never seen the address.
	ErrNoData = errors.New("no data found - check your address or mine to this pool first")
)

// ErrorKind classifies a per-wallet failure for the UI and for metrics.
type ErrorKind string

const (
	ErrorKindNone        ErrorKind = ""
	ErrorKindUnsupported ErrorKind = "unsupported"
	ErrorKindFetch       ErrorKind = "fetch_failed"
	ErrorKindParse       ErrorKind = "parse_failed"
	ErrorKindNoData      ErrorKind = "no_data"
	ErrorKindRestricted  ErrorKind = "restricted"
	ErrorKindInternal    ErrorKind = "internal"
)

// UnsupportedError is a local validation failure. It is never transient.
type UnsupportedError struct {
	PoolID string
	Coin   string
	Err    error // ErrUnknownPool or ErrUnsupportedCoin
}

func (e *UnsupportedError) Error() string {
	if errors.Is(e.Err, ErrUnknownPool) {
		return fmt.Sprintf("unknown pool %q", e.PoolID)
	}
	return fmt.Sprintf("pool %q does not support coin %q", e.PoolID, e.Coin)
}

func (e *UnsupportedError) Unwrap() error { return e.Err }

// FetchError is a network-level failure: timeout, transport error or non-2xx status.
type FetchError struct {
	PoolID     string
	URL        string
	StatusCode int // 0 when no response was received
	Timeout    bool
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("fetch from pool %s timed out", e.PoolID)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch from pool %s failed with status %d", e.PoolID, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("fetch from pool %s failed: %v", e.PoolID, e.Err)
	default:
		return fmt.Sprintf("fetch from pool %s failed", e.PoolID)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means the pool answered with a body its parser could not understand.
type ParseError struct {
	PoolID string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response from pool %s: %v", e.PoolID, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsTransient reports whether retrying on the next refresh may succeed.
func IsTransient(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// ClassifyError maps an error returned by the fetch pipeline onto an ErrorKind.
func ClassifyError(err error) ErrorKind {
	var (
		ue *UnsupportedError
		fe *FetchError
		pe *ParseError
	)
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrNoData):
		return ErrorKindNoData
	case errors.As(err, &ue):
		return ErrorKindUnsupported
	case errors.As(err, &fe):
		return ErrorKindFetch
	case errors.As(err, &pe):
		return ErrorKindParse
	default:
		return ErrorKindInternal
	}
}

// UserMessage renders the per-wallet error string shown next to a wallet card.
func UserMessage(err error) string {
	var (
		ue *UnsupportedError
		fe *FetchError
		pe *ParseError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoData):
		return ErrNoData.Error()
	case errors.As(err, &ue):
		return ue.Error()
	case errors.As(err, &fe):
		if fe.Timeout {
			return fmt.Sprintf("Pool %s unreachable: request timed out", fe.PoolID)
		}
		if fe.StatusCode != 0 {
			return fmt.Sprintf("Pool %s unreachable: HTTP %d", fe.PoolID, fe.StatusCode)
		}
		return fmt.Sprintf("Pool %s unreachable", fe.PoolID)
	case errors.As(err, &pe):
		return fmt.Sprintf("Pool %s changed its response format", pe.PoolID)
	default:
		return err.Error()
	}
}
