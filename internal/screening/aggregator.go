package screening

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"riskscreen/internal/evidence/cache"
	"riskscreen/internal/screening/metrics"
	pstrings "riskscreen/pkg/platform/strings"
)

const tracerName = "riskscreen/internal/screening"

// Aggregator gathers the evidence bundle of every transaction in a batch.
type Aggregator struct {
	sanctions SanctionsScreener
	registry  RegistryLookup
	ownership ShareholderResolver
	media     MediaAnalyzer
	cache     EvidenceCache

	weights  WeightTable
	highRisk map[string]struct{}

	txConcurrency          int
	entityConcurrency      int
	maxShareholders        int
	maxArticles            int
	maxShareholderArticles int

	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithCache memoizes entity evidence across transactions and batches.
func WithCache(c EvidenceCache) AggregatorOption {
	return func(a *Aggregator) {
		a.cache = c
	}
}

// WithWeights replaces DefaultWeights.
func WithWeights(w WeightTable) AggregatorOption {
	return func(a *Aggregator) {
		a.weights = w
	}
}

// WithHighRiskCountries sets the jurisdictions that trigger country risk.
func WithHighRiskCountries(countries []string) AggregatorOption {
	return func(a *Aggregator) {
		a.highRisk = highRiskSet(countries)
	}
}

// WithConcurrency bounds parallel transactions and parallel entities per
// transaction. Non-positive values keep the defaults.
func WithConcurrency(transactions, entities int) AggregatorOption {
	return func(a *Aggregator) {
		if transactions > 0 {
			a.txConcurrency = transactions
		}
		if entities > 0 {
			a.entityConcurrency = entities
		}
	}
}

// WithFanOut bounds shareholder expansion and article counts.
func WithFanOut(maxShareholders, maxArticles, maxShareholderArticles int) AggregatorOption {
	return func(a *Aggregator) {
		a.maxShareholders = max(0, maxShareholders)
		a.maxArticles = max(0, maxArticles)
		a.maxShareholderArticles = max(0, maxShareholderArticles)
	}
}

// WithAggregatorMetrics records per-source latency.
func WithAggregatorMetrics(m *metrics.Metrics) AggregatorOption {
	return func(a *Aggregator) {
		a.metrics = m
	}
}

// WithAggregatorLogger sets the logger.
func WithAggregatorLogger(l *slog.Logger) AggregatorOption {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAggregator wires the four evidence sources.
func NewAggregator(
	sanctions SanctionsScreener,
	registry RegistryLookup,
	ownership ShareholderResolver,
	media MediaAnalyzer,
	opts ...AggregatorOption,
) *Aggregator {
	a := &Aggregator{
		sanctions:              sanctions,
		registry:               registry,
		ownership:              ownership,
		media:                  media,
		weights:                DefaultWeights(),
		txConcurrency:          4,
		entityConcurrency:      4,
		maxShareholders:        5,
		maxArticles:            5,
		maxShareholderArticles: 1,
		logger:                 slog.Default(),
		tracer:                 otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate returns one bundle per transaction in input order. Lookup failures
// degrade to missing evidence; only cancellation of ctx fails the batch.
func (a *Aggregator) Aggregate(ctx context.Context, txs []TransactionRecord) ([]EvidenceBundle, error) {
	bundles := make([]EvidenceBundle, len(txs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.txConcurrency)
	for i, tx := range txs {
		g.Go(func() error {
			b, err := a.aggregateOne(gctx, tx)
			if err != nil {
				return err
			}
			bundles[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundles, nil
}

func (a *Aggregator) aggregateOne(ctx context.Context, tx TransactionRecord) (EvidenceBundle, error) {
	ctx, span := a.tracer.Start(ctx, "screening.aggregate_transaction",
		trace.WithAttributes(attribute.String("transaction.id", tx.ID)))
	defer span.End()

	bundle := EvidenceBundle{Transaction: tx, Weights: a.weights}

	// Payer and receiver in parallel.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ev, err := a.entity(gctx, tx.PayerName)
		bundle.Payer = ev
		return err
	})
	g.Go(func() error {
		ev, err := a.entity(gctx, tx.ReceiverName)
		bundle.Receiver = ev
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return EvidenceBundle{}, err
	}

	payerShareholders := a.capShareholders(bundle.Payer.Shareholders)
	receiverShareholders := a.capShareholders(bundle.Receiver.Shareholders)
	bundle.PayerShareholders = make([]EntityEvidence, len(payerShareholders))
	bundle.ReceiverShareholders = make([]EntityEvidence, len(receiverShareholders))

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(a.entityConcurrency)
	for i, name := range payerShareholders {
		g.Go(func() error {
			ev, err := a.shareholder(gctx, name)
			bundle.PayerShareholders[i] = ev
			return err
		})
	}
	for i, name := range receiverShareholders {
		g.Go(func() error {
			ev, err := a.shareholder(gctx, name)
			bundle.ReceiverShareholders[i] = ev
			return err
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return EvidenceBundle{}, err
	}

	bundle.EvidenceSources = evidenceSources(bundle)
	bundle.EvidenceScore = evidenceScore(bundle, a.weights, a.highRisk)
	span.SetAttributes(
		attribute.Int("evidence.sources", len(bundle.EvidenceSources)),
		attribute.Float64("evidence.score", bundle.EvidenceScore),
	)
	return bundle, nil
}

func (a *Aggregator) capShareholders(names []string) []string {
	if len(names) > a.maxShareholders {
		return names[:a.maxShareholders]
	}
	return names
}

// entity returns full-profile evidence: sanctions, registry, shareholders, media.
func (a *Aggregator) entity(ctx context.Context, name string) (EntityEvidence, error) {
	return a.cached(ctx, cache.ProfileEntity, name, func(ctx context.Context) (EntityEvidence, error) {
		ctx, span := a.tracer.Start(ctx, "screening.entity_evidence",
			trace.WithAttributes(attribute.String("entity.profile", string(cache.ProfileEntity))))
		defer span.End()

		ev := a.screen(name)

		// Each source absorbs its own failures, so there is nothing to propagate.
		var wg sync.WaitGroup
		wg.Go(func() {
			start := time.Now()
			if company, ok := a.registry.Lookup(ctx, name); ok {
				ev.RegistryType = company.Type
			}
			a.metrics.ObserveEvidenceLatency("registry", time.Since(start))
		})
		wg.Go(func() {
			start := time.Now()
			ev.Shareholders = pstrings.DedupeNames(a.ownership.Resolve(ctx, name))
			a.metrics.ObserveEvidenceLatency("ownership", time.Since(start))
		})
		wg.Go(func() {
			ev.NegativeNews = a.news(ctx, name, a.maxArticles)
		})
		wg.Wait()

		// Evidence gathered under an expired deadline is incomplete; keep it
		// out of the cache.
		return ev, ctx.Err()
	})
}

// shareholder returns the lighter profile: sanctions and top media only.
func (a *Aggregator) shareholder(ctx context.Context, name string) (EntityEvidence, error) {
	return a.cached(ctx, cache.ProfileShareholder, name, func(ctx context.Context) (EntityEvidence, error) {
		ev := a.screen(name)
		ev.NegativeNews = a.news(ctx, name, a.maxShareholderArticles)
		return ev, ctx.Err()
	})
}

func (a *Aggregator) screen(name string) EntityEvidence {
	ev := EntityEvidence{Name: name, NegativeNews: []NewsSnippet{}}
	start := time.Now()
	if m, ok := a.sanctions.Match(name); ok {
		ev.Sanctions = &m
	}
	a.metrics.ObserveEvidenceLatency("sanctions", time.Since(start))
	return ev
}

func (a *Aggregator) news(ctx context.Context, name string, maxArticles int) []NewsSnippet {
	start := time.Now()
	texts, scores := a.media.Analyze(ctx, name, maxArticles)
	a.metrics.ObserveEvidenceLatency("media", time.Since(start))

	n := min(len(texts), len(scores))
	out := make([]NewsSnippet, 0, n)
	for i := range n {
		out = append(out, NewsSnippet{Text: texts[i], Confidence: scores[i]})
	}
	return out
}

// cached routes compute through the cache. A failed compute degrades to bare
// evidence unless the caller itself was cancelled.
func (a *Aggregator) cached(
	ctx context.Context,
	profile cache.Profile,
	name string,
	compute func(context.Context) (EntityEvidence, error),
) (EntityEvidence, error) {
	if pstrings.IsBlank(name) {
		return EntityEvidence{Name: name, NegativeNews: []NewsSnippet{}}, nil
	}

	var ev EntityEvidence
	var err error
	if a.cache != nil {
		ev, err = a.cache.GetOrCompute(ctx, cache.Key(profile, name), compute)
	} else {
		ev, err = compute(ctx)
	}
	if err == nil {
		return ev, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return EntityEvidence{}, ctxErr
	}
	a.logger.WarnContext(ctx, "entity evidence incomplete",
		"entity", name,
		"profile", profile,
		"error", err,
	)
	if ev.Name == "" {
		ev = a.screen(name)
	}
	return ev, nil
}
