package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetSimplePrices(t *testing.T) {
	var gotIDs, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		gotIDs = r.URL.Query().Get("ids")
		gotKey = r.Header.Get(demoAPIKeyHeader)
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":65000.5},"ravencoin":{"usd":0.02},"kaspa":{}}`))
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(srv.URL+"/", "demo-key", 5*time.Second, zap.NewNop())
	prices, err := c.GetSimplePrices(context.Background(), []string{"bitcoin", "ravencoin", "kaspa"}, "USD")
	require.NoError(t, err)

	assert.Equal(t, "bitcoin,ravencoin,kaspa", gotIDs)
	assert.Equal(t, "demo-key", gotKey)
	assert.Equal(t, map[string]float64{"bitcoin": 65000.5, "ravencoin": 0.02}, prices)
}

func TestGetSimplePricesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(srv.URL, "", 5*time.Second, zap.NewNop())
	_, err := c.GetSimplePrices(context.Background(), []string{"bitcoin"}, "usd")
	assert.ErrorContains(t, err, "429")
}

func TestGetSimplePricesEmpty(t *testing.T) {
	c := NewCoinGeckoClient("http://127.0.0.1:1", "", time.Second, zap.NewNop())
	prices, err := c.GetSimplePrices(context.Background(), nil, "usd")
	require.NoError(t, err)
	assert.Empty(t, prices)
}
