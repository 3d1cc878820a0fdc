package service

import (
	"context"
	"sync"

	"pool_monitor/internal/app/port"
)

type fakeResponse struct {
	body   string
	status int
	err    error
}

// fakePoolHTTPClient serves canned responses by URL and counts calls.
type fakePoolHTTPClient struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     map[string]int
	fallback  fakeResponse
	// gates hold a URL's response until the channel is closed.
	gates   map[string]chan struct{}
	entered chan string
	// ignoreCtx makes gated requests hang past cancellation, like a client with no deadline.
	ignoreCtx bool
}

func newFakePoolHTTPClient() *fakePoolHTTPClient {
	return &fakePoolHTTPClient{
		responses: make(map[string]fakeResponse),
		calls:     make(map[string]int),
		fallback:  fakeResponse{status: 404},
		gates:     make(map[string]chan struct{}),
		entered:   make(chan string, 64),
	}
}

func (c *fakePoolHTTPClient) set(url string, r fakeResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses[url] = r
}

// block makes Get for url wait until the returned channel is closed.
func (c *fakePoolHTTPClient) block(url string) chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	gate := make(chan struct{})
	c.gates[url] = gate
	return gate
}

func (c *fakePoolHTTPClient) Get(ctx context.Context, url string) ([]byte, int, error) {
	c.mu.Lock()
	c.calls[url]++
	r, ok := c.responses[url]
	if !ok {
		r = c.fallback
	}
	gate := c.gates[url]
	ignoreCtx := c.ignoreCtx
	c.mu.Unlock()

	select {
	case c.entered <- url:
	default:
	}
	if gate != nil && ignoreCtx {
		<-gate
	} else if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		}
	}
	if r.err != nil {
		return nil, 0, r.err
	}
	return []byte(r.body), r.status, nil
}

func (c *fakePoolHTTPClient) callCount(url string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[url]
}

func (c *fakePoolHTTPClient) totalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

type stubParserRegistry map[string]port.PoolStatsParser

func (r stubParserRegistry) Lookup(poolID string) (port.PoolStatsParser, bool) {
	p, ok := r[poolID]
	return p, ok
}
