package circuit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBreakerIsClosed(t *testing.T) {
	b := New("OpenCorporates")
	assert.Equal(t, "OpenCorporates", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())
	assert.True(t, b.Allow())
}

func TestBreakerTransitions(t *testing.T) {
	type step struct {
		fail       bool
		wantOpen   bool
		wantChange Change
	}
	cases := map[string]struct {
		opts  []Option
		steps []step
	}{
		"opens on the threshold failure": {
			opts: []Option{WithFailureThreshold(3)},
			steps: []step{
				{fail: true},
				{fail: true},
				{fail: true, wantOpen: true, wantChange: Change{Opened: true}},
				{fail: true, wantOpen: true},
			},
		},
		"success clears the failure streak": {
			opts: []Option{WithFailureThreshold(2)},
			steps: []step{
				{fail: true},
				{fail: false},
				{fail: true},
				{fail: true, wantOpen: true, wantChange: Change{Opened: true}},
			},
		},
		"closes after consecutive probe successes": {
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			steps: []step{
				{fail: true, wantOpen: true, wantChange: Change{Opened: true}},
				{fail: false, wantOpen: true},
				{fail: false, wantChange: Change{Closed: true}},
			},
		},
		"failed probe restarts the success streak": {
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			steps: []step{
				{fail: true, wantOpen: true, wantChange: Change{Opened: true}},
				{fail: false, wantOpen: true},
				{fail: true, wantOpen: true},
				{fail: false, wantOpen: true},
				{fail: false, wantChange: Change{Closed: true}},
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			b := New("SEC EDGAR", tc.opts...)
			for i, s := range tc.steps {
				var change Change
				if s.fail {
					_, change = b.RecordFailure()
				} else {
					_, change = b.RecordSuccess()
				}
				require.Equal(t, s.wantOpen, b.IsOpen(), "step %d", i)
				assert.Equal(t, s.wantChange, change, "step %d", i)
			}
		})
	}
}

func TestBreakerFallbackSignals(t *testing.T) {
	b := New("NewsAPI", WithFailureThreshold(1), WithSuccessThreshold(1))

	useFallback, _ := b.RecordFailure()
	assert.True(t, useFallback)

	usePrimary, _ := b.RecordSuccess()
	assert.True(t, usePrimary)
}

func TestBreakerCooldown(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b := New("Gemini",
		WithFailureThreshold(1),
		WithCooldown(30*time.Second),
		WithClock(func() time.Time { return now }),
	)

	b.RecordFailure()
	assert.False(t, b.Allow())

	now = now.Add(29 * time.Second)
	assert.False(t, b.Allow())

	now = now.Add(time.Second)
	assert.True(t, b.Allow(), "a probe is let through once the cooldown elapses")

	b.RecordFailure()
	assert.False(t, b.Allow(), "a failed probe restarts the cooldown")
}

func TestBreakerReset(t *testing.T) {
	b := New("HuggingFace", WithFailureThreshold(1))
	b.RecordFailure()
	require.True(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreakerConcurrentUse(t *testing.T) {
	b := New("OpenCorporates", WithFailureThreshold(50))
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.RecordFailure()
			b.Allow()
		}()
	}
	wg.Wait()
	assert.True(t, b.IsOpen())
}
