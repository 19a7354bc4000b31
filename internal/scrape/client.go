package scrape

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/markbakos/advanced-ufc-analyzer/internal/config"
	"github.com/valyala/fasthttp"
)

// Fetcher fetches one page and returns its HTML. The crawler depends only on
// this interface so tests and alternate transports can stand in.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// StatsClient fetches stats-site pages over fasthttp.
type StatsClient struct {
	userAgent string
	timeout   time.Duration
	client    *fasthttp.Client
	fetched   atomic.Int64
}

func NewStatsClient(cfg *config.Config) *StatsClient {
	return &StatsClient{
		userAgent: cfg.UserAgent,
		timeout:   cfg.FetchTimeout,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         cfg.FetchTimeout,
			WriteTimeout:        cfg.FetchTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// PagesFetched reports the number of successful fetches this run.
func (c *StatsClient) PagesFetched() int64 {
	return c.fetched.Load()
}

func (c *StatsClient) FetchPage(ctx context.Context, url string) (string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(c.userAgent)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return "", &FetchError{URL: url, Err: fmt.Errorf("status %d", resp.StatusCode())}
	}

	c.fetched.Add(1)
	return string(resp.Body()), nil
}
