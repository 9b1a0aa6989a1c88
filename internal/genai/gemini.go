// Package genai is the text-generation collaborator used for score synthesis.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"riskscreen/internal/evidence/providers"
)

// ProviderID names the generation service in errors and metrics.
const ProviderID = "Gemini"

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// Gemini calls the generateContent endpoint. The API key travels in the
// x-goog-api-key header configured on the caller.
type Gemini struct {
	endpoint string
	caller   *providers.Caller
}

// NewGemini builds a client for model against baseURL
// (https://generativelanguage.googleapis.com).
func NewGemini(baseURL, model string, caller *providers.Caller) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{
		endpoint: strings.TrimRight(baseURL, "/") + "/v1beta/models/" + url.PathEscape(model) + ":generateContent",
		caller:   caller,
	}
}

// Generate returns the first candidate's text for prompt.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	raw, err := json.Marshal(generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{Temperature: 0},
	})
	if err != nil {
		return "", providers.NewProviderError(providers.ErrorInternal, ProviderID, "encode request", err)
	}
	req, err := http.NewRequest(http.MethodPost, g.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", providers.NewProviderError(providers.ErrorInternal, ProviderID, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := g.caller.Do(ctx, req)
	if err != nil {
		return "", err
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", providers.NewProviderError(providers.ErrorBadData, ProviderID, "decode response", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		msg := "no candidates"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			msg = "prompt blocked: " + resp.PromptFeedback.BlockReason
		}
		return "", providers.NewProviderError(providers.ErrorBadData, ProviderID, msg, nil)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
