package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"riskscreen/internal/evidence/providers"
)

// InferenceProviderID names the model host in errors and metrics.
const InferenceProviderID = "HuggingFace"

const (
	DefaultSummaryModel   = "sshleifer/distilbart-cnn-12-6"
	DefaultSentimentModel = "nlptown/bert-base-multilingual-uncased-sentiment"

	summaryMaxLength = 50
	summaryMinLength = 10
)

// InferenceClient implements Summarizer and SentimentClassifier against the
// Hugging Face inference API.
type InferenceClient struct {
	baseURL        string
	summaryModel   string
	sentimentModel string
	caller         *providers.Caller
}

// InferenceOption configures an InferenceClient.
type InferenceOption func(*InferenceClient)

// WithSummaryModel overrides the summarisation model.
func WithSummaryModel(model string) InferenceOption {
	return func(c *InferenceClient) {
		if model != "" {
			c.summaryModel = model
		}
	}
}

// WithSentimentModel overrides the sentiment model.
func WithSentimentModel(model string) InferenceOption {
	return func(c *InferenceClient) {
		if model != "" {
			c.sentimentModel = model
		}
	}
}

// NewInferenceClient builds a client against baseURL
// (https://api-inference.huggingface.co). caller carries the bearer token.
func NewInferenceClient(baseURL string, caller *providers.Caller, opts ...InferenceOption) *InferenceClient {
	c := &InferenceClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		summaryModel:   DefaultSummaryModel,
		sentimentModel: DefaultSentimentModel,
		caller:         caller,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type inferenceRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Summarize returns a short abstractive summary of text.
func (c *InferenceClient) Summarize(ctx context.Context, text string) (string, error) {
	body, err := c.infer(ctx, c.summaryModel, inferenceRequest{
		Inputs: text,
		Parameters: map[string]any{
			"max_length": summaryMaxLength,
			"min_length": summaryMinLength,
			"do_sample":  false,
		},
	})
	if err != nil {
		return "", err
	}

	var out []struct {
		SummaryText string `json:"summary_text"`
	}
	if err := json.Unmarshal(body, &out); err != nil || len(out) == 0 {
		return "", providers.NewProviderError(providers.ErrorBadData, InferenceProviderID, "decode summary", err)
	}
	return strings.TrimSpace(out[0].SummaryText), nil
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns the top-scored star rating for text.
func (c *InferenceClient) Classify(ctx context.Context, text string) (Sentiment, error) {
	body, err := c.infer(ctx, c.sentimentModel, inferenceRequest{Inputs: text})
	if err != nil {
		return Sentiment{}, err
	}

	// The API answers [[{label,score},...]] for a single input; some
	// deployments flatten it to [{label,score},...].
	var nested [][]labelScore
	var candidates []labelScore
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 {
		candidates = nested[0]
	} else if err := json.Unmarshal(body, &candidates); err != nil {
		return Sentiment{}, providers.NewProviderError(providers.ErrorBadData, InferenceProviderID, "decode sentiment", err)
	}
	if len(candidates) == 0 {
		return Sentiment{}, providers.NewProviderError(providers.ErrorBadData, InferenceProviderID, "empty sentiment", nil)
	}

	best := candidates[0]
	for _, cand := range candidates[1:] {
		if cand.Score > best.Score {
			best = cand
		}
	}
	rank, err := starRank(best.Label)
	if err != nil {
		return Sentiment{}, providers.NewProviderError(providers.ErrorBadData, InferenceProviderID, "unknown sentiment label", err)
	}
	return Sentiment{Rank: rank, Score: best.Score}, nil
}

func (c *InferenceClient) infer(ctx context.Context, model string, payload inferenceRequest) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/models/"+model, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.caller.Do(ctx, req)
}

// starRank parses labels such as "1 star" or "4 stars".
func starRank(label string) (int, error) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return 0, errors.New("empty label")
	}
	rank, err := strconv.Atoi(fields[0])
	if err != nil || rank < 1 || rank > 5 {
		return 0, fmt.Errorf("label %q", label)
	}
	return rank, nil
}
