// Package media finds adverse news coverage of an entity: it fetches recent
// articles, summarises each, and keeps the summaries classified as negative.
package media

import (
	"context"
	"log/slog"

	pstrings "riskscreen/pkg/platform/strings"
)

// Article is one news item returned by a NewsSource.
type Article struct {
	Title   string
	Source  string
	URL     string
	Content string
}

// NewsSource searches recent news about a keyword.
type NewsSource interface {
	Search(ctx context.Context, query string) ([]Article, error)
}

// Summarizer condenses an article body into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Sentiment is a classification on the 1..5 star scale; Score is the
// classifier's confidence in Rank.
type Sentiment struct {
	Rank  int
	Score float64
}

// Negative reports whether the sentiment falls in the two most negative classes.
func (s Sentiment) Negative() bool {
	return s.Rank == 1 || s.Rank == 2
}

// SentimentClassifier rates the sentiment of a summary.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (Sentiment, error)
}

// Analyzer combines a news source with the two model capabilities.
type Analyzer struct {
	news       NewsSource
	summarizer Summarizer
	classifier SentimentClassifier
	logger     *slog.Logger
}

// NewAnalyzer wires an Analyzer. A nil logger means slog.Default().
func NewAnalyzer(news NewsSource, summarizer Summarizer, classifier SentimentClassifier, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		news:       news,
		summarizer: summarizer,
		classifier: classifier,
		logger:     logger,
	}
}

// Analyze returns the negative summaries among the first maxArticles articles
// about name, with the classifier confidence for each. The two slices always
// have equal length and are never nil. Failures degrade to fewer results.
func (a *Analyzer) Analyze(ctx context.Context, name string, maxArticles int) ([]string, []float64) {
	snippets := []string{}
	confidences := []float64{}
	if maxArticles <= 0 || pstrings.IsBlank(name) {
		return snippets, confidences
	}

	articles, err := a.news.Search(ctx, name)
	if err != nil {
		a.logger.WarnContext(ctx, "news search failed", "entity", name, "error", err)
		return snippets, confidences
	}
	if len(articles) > maxArticles {
		articles = articles[:maxArticles]
	}

	for _, article := range articles {
		if pstrings.IsBlank(article.Content) {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		summary, err := a.summarizer.Summarize(ctx, article.Content)
		if err != nil {
			a.logger.WarnContext(ctx, "summarize article failed", "entity", name, "error", err)
			continue
		}
		sentiment, err := a.classifier.Classify(ctx, summary)
		if err != nil {
			a.logger.WarnContext(ctx, "classify summary failed", "entity", name, "error", err)
			continue
		}
		if sentiment.Negative() {
			snippets = append(snippets, summary)
			confidences = append(confidences, sentiment.Score)
		}
	}
	return snippets, confidences
}
