package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAndTransient(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		kind      ErrorKind
		transient bool
	}{
		{"nil", nil, ErrorKindNone, false},
		{"no data", fmt.Errorf("wrapped: %w", ErrNoData), ErrorKindNoData, false},
		{"unsupported", &UnsupportedError{PoolID: "ckpool", Coin: "xmr", Err: ErrUnsupportedCoin}, ErrorKindUnsupported, false},
		{"fetch", &FetchError{PoolID: "2miners", Timeout: true}, ErrorKindFetch, true},
		{"parse", &ParseError{PoolID: "2miners", Err: errors.New("bad json")}, ErrorKindParse, false},
		{"other", errors.New("boom"), ErrorKindInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, ClassifyError(tt.err))
			assert.Equal(t, tt.transient, IsTransient(tt.err))
		})
	}
}
