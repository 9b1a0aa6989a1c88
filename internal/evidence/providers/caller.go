package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"riskscreen/internal/screening/metrics"
	"riskscreen/pkg/platform/circuit"
)

// maxBodyBytes caps what we read from any upstream; filings can be large but
// never legitimately this large.
const maxBodyBytes = 16 << 20

// Caller performs HTTP calls to a single upstream. It owns the upstream's
// circuit breaker, applies a per-call timeout, and turns every failure into a
// *ProviderError.
type Caller struct {
	id      string
	client  *http.Client
	timeout time.Duration
	breaker *circuit.Breaker
	headers http.Header
	metrics *metrics.Metrics
}

// CallerOption configures a Caller.
type CallerOption func(*Caller)

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) CallerOption {
	return func(c *Caller) {
		c.headers.Set(key, value)
	}
}

// WithBreaker replaces the default breaker.
func WithBreaker(b *circuit.Breaker) CallerOption {
	return func(c *Caller) {
		if b != nil {
			c.breaker = b
		}
	}
}

// WithMetrics records per-provider latency and failures.
func WithMetrics(m *metrics.Metrics) CallerOption {
	return func(c *Caller) {
		c.metrics = m
	}
}

// NewCaller builds a Caller for the provider id. A nil client means
// http.DefaultClient; timeout <= 0 disables the per-call deadline.
func NewCaller(id string, client *http.Client, timeout time.Duration, opts ...CallerOption) *Caller {
	if client == nil {
		client = http.DefaultClient
	}
	c := &Caller{
		id:      id,
		client:  client,
		timeout: timeout,
		breaker: circuit.New(id),
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends req and returns the response body of a 2xx answer. Non-2xx
// answers, transport errors and an open breaker become *ProviderError.
func (c *Caller) Do(ctx context.Context, req *http.Request) ([]byte, error) {
	if !c.breaker.Allow() {
		c.metrics.IncrementProviderFailure(c.id, string(ErrorCircuitOpen))
		return nil, NewProviderError(ErrorCircuitOpen, c.id, "circuit open", nil)
	}

	parent := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	req = req.WithContext(ctx)
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	start := time.Now()
	body, err := c.roundTrip(req)
	c.metrics.ObserveProviderLatency(c.id, time.Since(start))
	if err != nil {
		category := GetCategory(err)
		c.metrics.IncrementProviderFailure(c.id, string(category))
		// A missing record is an answer, not an upstream fault. A caller that
		// gave up (cancelled or out of its own budget) says nothing about the
		// upstream either.
		if category != ErrorNotFound && category != ErrorBadData && parent.Err() == nil {
			c.breaker.RecordFailure()
		}
		return nil, err
	}
	c.breaker.RecordSuccess()
	return body, nil
}

func (c *Caller) roundTrip(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, NewProviderError(categoryForTransport(err), c.id, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, NewProviderError(categoryForTransport(err), c.id, "read body", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewProviderError(CategoryForStatus(resp.StatusCode), c.id,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
	return body, nil
}
