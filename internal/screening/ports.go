package screening

import (
	"context"

	"riskscreen/internal/evidence/corporate"
	"riskscreen/internal/evidence/sanctions"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

// SanctionsScreener checks a name against the static sanctions lists.
type SanctionsScreener interface {
	Match(name string) (sanctions.Match, bool)
}

// RegistryLookup resolves a name to a corporate record; false means unknown.
type RegistryLookup interface {
	Lookup(ctx context.Context, name string) (*corporate.Company, bool)
}

// ShareholderResolver returns the disclosed group members of an entity.
type ShareholderResolver interface {
	Resolve(ctx context.Context, name string) []string
}

// MediaAnalyzer returns index-aligned negative snippets and confidences.
type MediaAnalyzer interface {
	Analyze(ctx context.Context, name string, maxArticles int) ([]string, []float64)
}

// TextGenerator completes a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EvidenceCache memoizes entity evidence by key.
type EvidenceCache interface {
	GetOrCompute(ctx context.Context, key string, fn func(context.Context) (EntityEvidence, error)) (EntityEvidence, error)
}
