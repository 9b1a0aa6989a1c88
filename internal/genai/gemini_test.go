package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskscreen/internal/evidence/providers"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.Len(t, req.Contents, 1) && assert.Len(t, req.Contents[0].Parts, 1) {
			assert.Equal(t, "score these", req.Contents[0].Parts[0].Text)
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newGemini(server *httptest.Server) *Gemini {
	caller := providers.NewCaller(ProviderID, server.Client(), time.Second, providers.WithHeader("x-goog-api-key", "k"))
	return NewGemini(server.URL, "gemini-test", caller)
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns first candidate text", func(t *testing.T) {
		server := newServer(t, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"[{\"Transaction ID\":\"T1\"}]"}]},"finishReason":"STOP"}]}`)
		text, err := newGemini(server).Generate(ctx, "score these")
		require.NoError(t, err)
		assert.Equal(t, `[{"Transaction ID":"T1"}]`, text)
	})

	t.Run("blocked prompt is bad data", func(t *testing.T) {
		server := newServer(t, http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`)
		_, err := newGemini(server).Generate(ctx, "score these")
		require.Error(t, err)
		assert.Equal(t, providers.ErrorBadData, providers.GetCategory(err))
		assert.Contains(t, err.Error(), "SAFETY")
	})

	t.Run("upstream failure keeps its category", func(t *testing.T) {
		server := newServer(t, http.StatusTooManyRequests, `{}`)
		_, err := newGemini(server).Generate(ctx, "score these")
		require.Error(t, err)
		assert.Equal(t, providers.ErrorRateLimited, providers.GetCategory(err))
	})
}

func TestNewGeminiDefaultsModel(t *testing.T) {
	g := NewGemini("https://example.test/", "", nil)
	assert.Equal(t, "https://example.test/v1beta/models/"+DefaultModel+":generateContent", g.endpoint)
}
