package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the screening pipeline.
type Metrics struct {
	// Evidence gathering latencies by source
	EvidenceLatency *prometheus.HistogramVec

	// Raw upstream call latency and failures by provider
	ProviderLatency  *prometheus.HistogramVec
	ProviderFailures *prometheus.CounterVec

	// Entity cache lookups by result: hit, miss, shared
	CacheLookups *prometheus.CounterVec

	// Filing documents without a full-text attachment
	OwnershipHardFailures prometheus.Counter

	// Batch outcomes by status: success, failed
	BatchOutcomes *prometheus.CounterVec
	Verdicts      prometheus.Counter

	SynthesisLatency prometheus.Histogram
	ProcessLatency   prometheus.Histogram
}

// New creates a Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the screening metrics with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EvidenceLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "riskscreen_evidence_duration_seconds",
			Help:    "Duration of evidence gathering operations by source",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}), // source: sanctions, registry, ownership, media

		ProviderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "riskscreen_provider_request_duration_seconds",
			Help:    "Duration of outbound provider requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),

		ProviderFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "riskscreen_provider_failures_total",
			Help: "Failed provider requests by provider and error category",
		}, []string{"provider", "category"}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "riskscreen_entity_cache_lookups_total",
			Help: "Entity cache lookups by result",
		}, []string{"result"}),

		OwnershipHardFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "riskscreen_ownership_missing_fulltext_total",
			Help: "Ownership filings whose full-text attachment could not be located",
		}),

		BatchOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "riskscreen_batches_total",
			Help: "Screening batches by outcome",
		}, []string{"status"}),

		Verdicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "riskscreen_verdicts_total",
			Help: "Risk verdicts produced",
		}),

		SynthesisLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "riskscreen_synthesis_duration_seconds",
			Help:    "Duration of the batched score synthesis call",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}),

		ProcessLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "riskscreen_process_duration_seconds",
			Help:    "Duration of a full screening batch including evidence gathering",
			Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
	}
}

// ObserveEvidenceLatency records the duration of fetching evidence from a source.
func (m *Metrics) ObserveEvidenceLatency(source string, d time.Duration) {
	if m != nil {
		m.EvidenceLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveProviderLatency(provider string, d time.Duration) {
	if m != nil {
		m.ProviderLatency.WithLabelValues(provider).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementProviderFailure(provider, category string) {
	if m != nil {
		m.ProviderFailures.WithLabelValues(provider, category).Inc()
	}
}

// RecordCacheLookup counts an entity cache lookup by result: hit, miss,
// shared or remote_hit.
func (m *Metrics) RecordCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncrementOwnershipHardFailure() {
	if m != nil {
		m.OwnershipHardFailures.Inc()
	}
}

// RecordBatch records a batch outcome and, on success, its verdict count.
func (m *Metrics) RecordBatch(status string, verdicts int) {
	if m != nil {
		m.BatchOutcomes.WithLabelValues(status).Inc()
		m.Verdicts.Add(float64(verdicts))
	}
}

func (m *Metrics) ObserveSynthesisLatency(d time.Duration) {
	if m != nil {
		m.SynthesisLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveProcessLatency(d time.Duration) {
	if m != nil {
		m.ProcessLatency.Observe(d.Seconds())
	}
}
