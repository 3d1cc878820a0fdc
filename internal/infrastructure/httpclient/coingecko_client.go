package httpclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"pool_monitor/internal/app/port"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const demoAPIKeyHeader = "x-cg-demo-api-key"

// coinGeckoClientImpl implements port.PriceFeedClient over /simple/price.
type coinGeckoClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewCoinGeckoClient creates a CoinGecko price client. apiKey may be empty for the public tier.
func NewCoinGeckoClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) port.PriceFeedClient {
	return &coinGeckoClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger.Named("CoinGeckoClient"),
	}
}

// GetSimplePrices returns price per feed id. Ids CoinGecko does not know are absent from the map.
func (c *coinGeckoClientImpl) GetSimplePrices(ctx context.Context, feedIDs []string, vsCurrency string) (map[string]float64, error) {
	if len(feedIDs) == 0 {
		return map[string]float64{}, nil
	}
	vsCurrency = strings.ToLower(vsCurrency)

	q := url.Values{}
	q.Set("ids", strings.Join(feedIDs, ","))
	q.Set("vs_currencies", vsCurrency)
	requestURL := c.baseURL + "/simple/price?" + q.Encode()

	c.logger.Debug("Requesting prices from CoinGecko", zap.String("url", requestURL), zap.Int("ids", len(feedIDs)))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if c.apiKey != "" {
		req.Header.Set(demoAPIKeyHeader, c.apiKey)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			return nil, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("CoinGecko API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, fmt.Errorf("CoinGecko request failed with status %d", resp.StatusCode())
	}

	var payload map[string]map[string]float64
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal CoinGecko response: %w", err)
	}

	prices := make(map[string]float64, len(payload))
	for id, quotes := range payload {
		if p, ok := quotes[vsCurrency]; ok {
			prices[id] = p
		}
	}
	return prices, nil
}
