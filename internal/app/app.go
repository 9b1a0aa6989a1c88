// Package app assembles the screening pipeline from configuration for the
// server and CLI binaries.
package app

import (
	"log/slog"

	"riskscreen/internal/evidence/cache"
	"riskscreen/internal/evidence/corporate"
	"riskscreen/internal/evidence/media"
	"riskscreen/internal/evidence/ownership"
	"riskscreen/internal/evidence/providers"
	"riskscreen/internal/evidence/sanctions"
	"riskscreen/internal/genai"
	"riskscreen/internal/platform/config"
	"riskscreen/internal/platform/httpclient"
	"riskscreen/internal/platform/redis"
	"riskscreen/internal/screening"
	"riskscreen/internal/screening/metrics"
	"riskscreen/pkg/platform/circuit"
)

// BuildService assembles the screening pipeline from configuration. It fails
// on anything that would make every batch fail: malformed sanctions lists,
// an invalid weight table or an unparseable provider URL.
func BuildService(cfg config.Config, rc *redis.Client, m *metrics.Metrics, log *slog.Logger) (*screening.Service, error) {
	lists, err := sanctions.LoadLists(sanctions.Paths{
		OFAC: cfg.Sanctions.OFACPath,
		EU:   cfg.Sanctions.EUPath,
		ICIJ: cfg.Sanctions.ICIJPath,
	})
	if err != nil {
		return nil, err
	}
	matcher := sanctions.NewMatcher(lists)
	ofac, eu, icij := matcher.Size()
	log.Info("sanctions lists loaded", "ofac", ofac, "eu", eu, "icij", icij)

	weights, err := screening.LoadWeights(cfg.Pipeline.WeightsPath)
	if err != nil {
		return nil, err
	}

	p := cfg.Providers
	client := httpclient.New(p.Timeout, p.MaxOutboundCalls)
	newCaller := func(id string, opts ...providers.CallerOption) *providers.Caller {
		return providers.NewCaller(id, client, p.Timeout, callerOptions(id, p, m, opts)...)
	}

	registry := corporate.New(p.OpenCorporatesURL, p.OpenCorporatesAPIKey,
		newCaller(corporate.ProviderID), log)

	resolver, err := ownership.New(p.SECBaseURL,
		newCaller(ownership.ProviderID, providers.WithHeader("User-Agent", p.SECUserAgent)),
		ownership.WithLogger(log),
		ownership.WithMetrics(m),
		ownership.WithMaxShareholders(cfg.Pipeline.MaxShareholders),
	)
	if err != nil {
		return nil, err
	}

	var inferenceOpts []providers.CallerOption
	if p.HFAPIToken != "" {
		inferenceOpts = append(inferenceOpts, providers.WithHeader("Authorization", "Bearer "+p.HFAPIToken))
	}
	inference := media.NewInferenceClient(p.HFInferenceURL, newCaller(media.InferenceProviderID, inferenceOpts...))
	news := media.NewNewsClient(p.NewsAPIURL, p.NewsAPIKey, newCaller(media.NewsProviderID))
	analyzer := media.NewAnalyzer(news, inference, inference, log)

	cacheOpts := []cache.Option{
		cache.WithTTL(cfg.Pipeline.EntityCacheTTL),
		cache.WithComputeTimeout(cfg.Pipeline.ComputeTimeout),
		cache.WithMetrics(m),
		cache.WithLogger(log),
	}
	if rc != nil {
		cacheOpts = append(cacheOpts, cache.WithStore(cache.NewRedisStore(rc.Client)))
	}
	entityCache := cache.New[screening.EntityEvidence](cacheOpts...)

	aggregator := screening.NewAggregator(matcher, registry, resolver, analyzer,
		screening.WithCache(entityCache),
		screening.WithWeights(weights),
		screening.WithHighRiskCountries(cfg.Pipeline.HighRiskCountries),
		screening.WithConcurrency(cfg.Pipeline.TransactionConcurrency, cfg.Pipeline.EntityConcurrency),
		screening.WithFanOut(cfg.Pipeline.MaxShareholders, cfg.Pipeline.MaxArticles, cfg.Pipeline.MaxShareholderArticles),
		screening.WithAggregatorMetrics(m),
		screening.WithAggregatorLogger(log),
	)

	// Synthesis is a single long call, so it gets its own client bounded by
	// the synthesis timeout instead of the per-lookup provider timeout.
	genClient := httpclient.New(cfg.Pipeline.SynthesisTimeout, p.MaxOutboundCalls)
	gemini := genai.NewGemini(p.GeminiURL, p.GeminiModel,
		providers.NewCaller(genai.ProviderID, genClient, cfg.Pipeline.SynthesisTimeout,
			callerOptions(genai.ProviderID, p, m, []providers.CallerOption{
				providers.WithHeader("x-goog-api-key", p.GeminiAPIKey),
			})...))
	synthesizer := screening.NewSynthesizer(gemini,
		screening.WithSynthesisWeights(weights),
		screening.WithSynthesisTimeout(cfg.Pipeline.SynthesisTimeout),
		screening.WithSynthesizerMetrics(m),
		screening.WithSynthesizerLogger(log),
	)

	svc := screening.NewService(aggregator, synthesizer,
		screening.WithMaxBatchSize(cfg.Pipeline.MaxBatchSize),
		screening.WithServiceMetrics(m),
		screening.WithServiceLogger(log),
	)
	return svc, nil
}

// callerOptions gives every provider its own breaker and the shared metrics.
func callerOptions(id string, p config.Providers, m *metrics.Metrics, extra []providers.CallerOption) []providers.CallerOption {
	breaker := circuit.New(id,
		circuit.WithFailureThreshold(p.BreakerFailures),
		circuit.WithCooldown(p.BreakerCooldown),
	)
	return append(extra, providers.WithBreaker(breaker), providers.WithMetrics(m))
}
