package screening_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"riskscreen/internal/evidence/corporate"
)

// fakeRegistry answers from a fixed table; delay simulates a slow upstream.
type fakeRegistry struct {
	types map[string]string
	delay time.Duration
	calls atomic.Int32
}

func (f *fakeRegistry) Lookup(ctx context.Context, name string) (*corporate.Company, bool) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, false
		}
	}
	t, ok := f.types[name]
	if !ok {
		return nil, false
	}
	return &corporate.Company{Name: name, Type: t}, true
}

type fakeOwnership struct {
	shareholders map[string][]string
	calls        atomic.Int32
}

func (f *fakeOwnership) Resolve(_ context.Context, name string) []string {
	f.calls.Add(1)
	return f.shareholders[name]
}

type fakeMedia struct {
	news  map[string][]string
	delay time.Duration

	mu    sync.Mutex
	asked map[string][]int
}

func (f *fakeMedia) Analyze(ctx context.Context, name string, maxArticles int) ([]string, []float64) {
	f.mu.Lock()
	if f.asked == nil {
		f.asked = make(map[string][]int)
	}
	f.asked[name] = append(f.asked[name], maxArticles)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return []string{}, []float64{}
		}
	}
	texts := f.news[name]
	if len(texts) > maxArticles {
		texts = texts[:maxArticles]
	}
	scores := make([]float64, len(texts))
	for i := range scores {
		scores[i] = 0.9
	}
	return append([]string{}, texts...), scores
}

func (f *fakeMedia) maxArticlesFor(name string) []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.asked[name]...)
}
