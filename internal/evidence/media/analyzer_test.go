package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"riskscreen/internal/platform/logger"
)

type stubNews struct {
	articles []Article
	err      error
	calls    int
}

func (s *stubNews) Search(_ context.Context, _ string) ([]Article, error) {
	s.calls++
	return s.articles, s.err
}

// prefixSummarizer returns the body unchanged and fails on bodies starting with "fail".
type prefixSummarizer struct{}

func (prefixSummarizer) Summarize(_ context.Context, text string) (string, error) {
	if strings.HasPrefix(text, "fail") {
		return "", errors.New("model overloaded")
	}
	return text, nil
}

// keywordClassifier rates "fraud" 1 star, "probe" 2 stars, "broken" as an error and everything else 5.
type keywordClassifier struct{}

func (keywordClassifier) Classify(_ context.Context, text string) (Sentiment, error) {
	switch {
	case strings.Contains(text, "fraud"):
		return Sentiment{Rank: 1, Score: 0.91}, nil
	case strings.Contains(text, "probe"):
		return Sentiment{Rank: 2, Score: 0.64}, nil
	case strings.Contains(text, "broken"):
		return Sentiment{}, errors.New("bad label")
	default:
		return Sentiment{Rank: 5, Score: 0.88}, nil
	}
}

func newAnalyzer(news NewsSource) *Analyzer {
	return NewAnalyzer(news, prefixSummarizer{}, keywordClassifier{}, logger.Discard())
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()
	articles := []Article{
		{Content: "Acme charged with fraud"},
		{Content: "Acme posts record profits"},
		{Content: ""},
		{Content: "fail to summarise this"},
		{Content: "broken classifier input"},
		{Content: "Regulators open probe into Acme"},
	}

	t.Run("keeps the two most negative classes", func(t *testing.T) {
		snippets, scores := newAnalyzer(&stubNews{articles: articles}).Analyze(ctx, "Acme", 10)
		assert.Equal(t, []string{"Acme charged with fraud", "Regulators open probe into Acme"}, snippets)
		assert.Equal(t, []float64{0.91, 0.64}, scores)
	})

	t.Run("only the first max articles are considered", func(t *testing.T) {
		snippets, scores := newAnalyzer(&stubNews{articles: articles}).Analyze(ctx, "Acme", 2)
		assert.Equal(t, []string{"Acme charged with fraud"}, snippets)
		assert.Len(t, scores, 1)
	})

	t.Run("non positive max makes no call", func(t *testing.T) {
		news := &stubNews{articles: articles}
		snippets, scores := newAnalyzer(news).Analyze(ctx, "Acme", 0)
		assert.Empty(t, snippets)
		assert.Empty(t, scores)
		assert.Zero(t, news.calls)
	})

	t.Run("news failure is empty", func(t *testing.T) {
		snippets, scores := newAnalyzer(&stubNews{err: errors.New("timeout")}).Analyze(ctx, "Acme", 5)
		assert.NotNil(t, snippets)
		assert.NotNil(t, scores)
		assert.Empty(t, snippets)
	})

	t.Run("sequences always align", func(t *testing.T) {
		sources := []*stubNews{
			{},
			{articles: articles},
			{articles: articles[:1]},
			{err: errors.New("down")},
		}
		for _, news := range sources {
			for n := range 8 {
				snippets, scores := newAnalyzer(news).Analyze(ctx, "Acme", n)
				assert.Len(t, scores, len(snippets), "n=%d", n)
			}
		}
	})
}

func TestSentimentNegative(t *testing.T) {
	for rank, want := range map[int]bool{1: true, 2: true, 3: false, 4: false, 5: false} {
		assert.Equal(t, want, Sentiment{Rank: rank}.Negative(), "rank %d", rank)
	}
}
