// Package httpclient builds the outbound HTTP client shared by every evidence
// provider. All providers draw from one semaphore so the process never has
// more than a fixed number of upstream requests in flight.
package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"
)

// New returns a client whose transport admits at most maxInFlight concurrent
// requests. timeout bounds every request end to end.
func New(timeout time.Duration, maxInFlight int) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewLimitedTransport(http.DefaultTransport, maxInFlight),
	}
}

// LimitedTransport is an http.RoundTripper gated by a weighted semaphore.
type LimitedTransport struct {
	next http.RoundTripper
	sem  *semaphore.Weighted
}

// NewLimitedTransport wraps next. maxInFlight below 1 is treated as 1.
func NewLimitedTransport(next http.RoundTripper, maxInFlight int) *LimitedTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &LimitedTransport{next: next, sem: semaphore.NewWeighted(int64(maxInFlight))}
}

// RoundTrip waits for a slot (or the request context) and forwards the request.
// The slot is held until the response body is closed.
func (t *LimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.sem.Acquire(req.Context(), 1); err != nil {
		return nil, fmt.Errorf("acquire outbound slot: %w", err)
	}
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.sem.Release(1)
		return nil, err
	}
	resp.Body = &releasingBody{ReadCloser: resp.Body, release: func() { t.sem.Release(1) }}
	return resp, nil
}
