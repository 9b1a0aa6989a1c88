// Package screening runs the transaction risk-screening pipeline: evidence
// aggregation per transaction followed by one batched score synthesis.
package screening

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"riskscreen/internal/screening/metrics"
	pstrings "riskscreen/pkg/platform/strings"
)

const defaultMaxBatchSize = 100

type evidenceAggregator interface {
	Aggregate(ctx context.Context, txs []TransactionRecord) ([]EvidenceBundle, error)
}

type scoreSynthesizer interface {
	Synthesize(ctx context.Context, bundles []EvidenceBundle) ([]RiskVerdict, error)
}

// Service is the pipeline entry point.
type Service struct {
	aggregator   evidenceAggregator
	synthesizer  scoreSynthesizer
	maxBatchSize int
	metrics      *metrics.Metrics
	logger       *slog.Logger
	newID        func() string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMaxBatchSize bounds the rows accepted per batch.
func WithMaxBatchSize(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// WithServiceMetrics records batch outcomes.
func WithServiceMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithServiceLogger sets the logger.
func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService wires aggregation and synthesis.
func NewService(aggregator evidenceAggregator, synthesizer scoreSynthesizer, opts ...ServiceOption) *Service {
	s := &Service{
		aggregator:   aggregator,
		synthesizer:  synthesizer,
		maxBatchSize: defaultMaxBatchSize,
		logger:       slog.Default(),
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process screens rows and returns one verdict per row in row order.
func (s *Service) Process(ctx context.Context, rows []TransactionRecord) ([]RiskVerdict, error) {
	result, err := s.ProcessBatch(ctx, rows)
	if err != nil {
		return nil, err
	}
	return result.Verdicts, nil
}

// ProcessBatch is Process with the generated batch id.
func (s *Service) ProcessBatch(ctx context.Context, rows []TransactionRecord) (*BatchResult, error) {
	if err := s.validate(rows); err != nil {
		return nil, err
	}

	batchID := s.newID()
	logger := s.logger.With("batch_id", batchID)
	start := time.Now()
	defer func() {
		s.metrics.ObserveProcessLatency(time.Since(start))
	}()

	logger.InfoContext(ctx, "screening batch started", "transactions", len(rows))

	bundles, err := s.aggregator.Aggregate(ctx, rows)
	if err != nil {
		s.metrics.RecordBatch("failed", 0)
		logger.ErrorContext(ctx, "evidence aggregation failed", "error", err)
		return nil, fmt.Errorf("%w: aggregate: %w", ErrBatchFailed, err)
	}

	verdicts, err := s.synthesizer.Synthesize(ctx, bundles)
	if err != nil {
		s.metrics.RecordBatch("failed", 0)
		logger.ErrorContext(ctx, "score synthesis failed", "error", err)
		return nil, err
	}

	s.metrics.RecordBatch("success", len(verdicts))
	logger.InfoContext(ctx, "screening batch completed",
		"verdicts", len(verdicts),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &BatchResult{BatchID: batchID, Verdicts: verdicts}, nil
}

func (s *Service) validate(rows []TransactionRecord) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: no transactions", ErrInvalidInput)
	}
	if len(rows) > s.maxBatchSize {
		return fmt.Errorf("%w: %d transactions exceeds the limit of %d", ErrInvalidInput, len(rows), s.maxBatchSize)
	}
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		if pstrings.IsBlank(row.ID) {
			return fmt.Errorf("%w: row %d has no transaction id", ErrInvalidInput, i+1)
		}
		if _, dup := seen[row.ID]; dup {
			return fmt.Errorf("%w: duplicate transaction id %q", ErrInvalidInput, row.ID)
		}
		seen[row.ID] = struct{}{}
	}
	return nil
}
