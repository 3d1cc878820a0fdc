package poolclient

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"pool_monitor/internal/app/port"
)

const (
	MinTimeout     = 5 * time.Second
	MaxTimeout     = 10 * time.Second
	DefaultTimeout = 8 * time.Second

	defaultUserAgent = "pool-monitor/1.0"
)

// Config controls the shared pool HTTP client.
type Config struct {
	Timeout time.Duration
	// UserAgent is sent on every request; some pools reject the fasthttp default.
	UserAgent string
	// RequestsPerSecond and Burst bound traffic per pool host. Zero or less disables limiting;
	// configloader maps a negative config value to zero and an unset one to 5.
	RequestsPerSecond float64
	Burst             int
}

// ClampTimeout keeps a configured timeout within the 5-10s window pools tolerate.
func ClampTimeout(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return DefaultTimeout
	case d < MinTimeout:
		return MinTimeout
	case d > MaxTimeout:
		return MaxTimeout
	default:
		return d
	}
}

type poolHTTPClient struct {
	client    *fasthttp.Client
	timeout   time.Duration
	userAgent string
	rps       float64
	burst     int
	logger    *zap.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewClient creates the fasthttp-backed client every pool fetch goes through.
func NewClient(cfg Config, logger *zap.Logger) port.PoolHTTPClient {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &poolHTTPClient{
		client: &fasthttp.Client{
			Name:                     ua,
			MaxIdleConnDuration:      30 * time.Second,
			NoDefaultUserAgentHeader: true,
		},
		timeout:   ClampTimeout(cfg.Timeout),
		userAgent: ua,
		rps:       cfg.RequestsPerSecond,
		burst:     burst,
		logger:    logger.Named("PoolHTTPClient"),
		limiters:  make(map[string]*rate.Limiter),
	}
}

// limiterFor returns the cached limiter for a pool host.
func (c *poolHTTPClient) limiterFor(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(c.rps), c.burst)
	c.limiters[host] = l
	return l
}

// Get issues one GET. The returned body is a copy and outlives the fasthttp response.
func (c *poolHTTPClient) Get(ctx context.Context, requestURL string) ([]byte, int, error) {
	u, err := url.Parse(requestURL)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid url %s: %w", requestURL, err)
	}
	if c.rps > 0 {
		if err := c.limiterFor(u.Host).Wait(ctx); err != nil {
			// Wait fails early when the next token lands past the deadline.
			if _, ok := ctx.Deadline(); ok && ctx.Err() == nil {
				err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
			}
			return nil, 0, fmt.Errorf("rate limiter for %s: %w", u.Host, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json, text/plain, */*")
	req.Header.SetUserAgent(c.userAgent)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	c.logger.Debug("Requesting pool stats", zap.String("url", requestURL))

	// The tighter of the caller's deadline and the client timeout wins.
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		c.logger.Warn("Pool request failed", zap.String("url", requestURL), zap.Error(err))
		return nil, 0, err
	}

	body := append([]byte(nil), resp.Body()...)
	return body, resp.StatusCode(), nil
}
