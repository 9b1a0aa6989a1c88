package screening

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"riskscreen/internal/screening/metrics"
)

const defaultSynthesisTimeout = 60 * time.Second

// Synthesizer turns a batch of evidence bundles into verdicts with one
// generator call.
type Synthesizer struct {
	generator TextGenerator
	weights   WeightTable
	timeout   time.Duration
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
}

// SynthesizerOption configures a Synthesizer.
type SynthesizerOption func(*Synthesizer)

// WithSynthesisWeights sets the weight table sent to the generator.
func WithSynthesisWeights(w WeightTable) SynthesizerOption {
	return func(s *Synthesizer) {
		s.weights = w
	}
}

// WithSynthesisTimeout bounds the generator call.
func WithSynthesisTimeout(d time.Duration) SynthesizerOption {
	return func(s *Synthesizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithSynthesizerMetrics records synthesis latency.
func WithSynthesizerMetrics(m *metrics.Metrics) SynthesizerOption {
	return func(s *Synthesizer) {
		s.metrics = m
	}
}

// WithSynthesizerLogger sets the logger.
func WithSynthesizerLogger(l *slog.Logger) SynthesizerOption {
	return func(s *Synthesizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSynthesizer wires the generator.
func NewSynthesizer(generator TextGenerator, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		generator: generator,
		weights:   DefaultWeights(),
		timeout:   defaultSynthesisTimeout,
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize returns one verdict per bundle, in bundle order, or an error
// wrapping ErrBatchFailed and no verdicts at all.
func (s *Synthesizer) Synthesize(ctx context.Context, bundles []EvidenceBundle) ([]RiskVerdict, error) {
	if len(bundles) == 0 {
		return []RiskVerdict{}, nil
	}

	ctx, span := s.tracer.Start(ctx, "screening.synthesize",
		trace.WithAttributes(attribute.Int("batch.size", len(bundles))))
	defer span.End()

	verdicts, err := s.synthesize(ctx, bundles)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "synthesis failed")
		return nil, fmt.Errorf("%w: %w", ErrBatchFailed, err)
	}
	return verdicts, nil
}

func (s *Synthesizer) synthesize(ctx context.Context, bundles []EvidenceBundle) ([]RiskVerdict, error) {
	prompt, err := buildPrompt(bundles, s.weights)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.generator.Generate(callCtx, prompt)
	s.metrics.ObserveSynthesisLatency(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	// Cancelled batches never yield verdicts.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	generated, err := parseVerdicts(text)
	if err != nil {
		s.logger.ErrorContext(ctx, "synthesis response unparseable",
			"error", err,
			"response_prefix", truncate(text, 200),
		)
		return nil, err
	}
	if len(generated) != len(bundles) {
		s.logger.ErrorContext(ctx, "synthesis verdict count mismatch",
			"bundles", len(bundles),
			"verdicts", len(generated),
		)
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVerdictCountMismatch, len(generated), len(bundles))
	}

	verdicts := make([]RiskVerdict, len(bundles))
	for i, b := range bundles {
		if id := string(generated[i].TransactionID); id != "" && id != b.Transaction.ID {
			s.logger.WarnContext(ctx, "synthesis verdict id differs from bundle",
				"bundle_id", b.Transaction.ID,
				"verdict_id", id,
			)
		}
		verdicts[i] = finalize(b, generated[i])
	}
	return verdicts, nil
}

// finalize applies the scoring policy: the verdict score never drops below the
// evidence score, and sources and identities come from the bundle.
func finalize(b EvidenceBundle, g generatedVerdict) RiskVerdict {
	advisory := normalizeScore(float64(g.RiskScore))

	id := b.Transaction.ID
	if id == "" {
		id = string(g.TransactionID)
	}

	return RiskVerdict{
		TransactionID:   id,
		Entities:        [2]string{b.Transaction.PayerName, b.Transaction.ReceiverName},
		EntityTypes:     [2]string{entityType(b.Payer, g.EntityType, 0), entityType(b.Receiver, g.EntityType, 1)},
		RiskScore:       max(b.EvidenceScore, advisory),
		ConfidenceScore: normalizeScore(float64(g.ConfidenceScore)),
		EvidenceSources: append([]string{}, b.EvidenceSources...),
		Rationale:       strings.TrimSpace(g.Reason),
		AdvisoryScore:   advisory,
	}
}

func entityType(ev EntityEvidence, guessed []string, i int) string {
	if ev.RegistryType != "" {
		return ev.RegistryType
	}
	if i < len(guessed) {
		if g := strings.TrimSpace(guessed[i]); g != "" {
			return g
		}
	}
	return UnknownEntityType
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
