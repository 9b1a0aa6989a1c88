package screening

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdicts(t *testing.T) {
	t.Run("accepted shapes", func(t *testing.T) {
		tests := []struct {
			name    string
			text    string
			wantIDs []string
		}{
			{
				name:    "bare array",
				text:    `[{"transaction_id":"T1","risk_score":0.2},{"transaction_id":"T2","risk_score":0.9}]`,
				wantIDs: []string{"T1", "T2"},
			},
			{
				name:    "fenced with prose and newlines",
				text:    "Here you go:\n```json\n[\n  {\"transaction_id\": \"T1\",\n   \"reason\": \"low\"}\n]\n```\nThanks",
				wantIDs: []string{"T1"},
			},
			{
				name:    "single object is wrapped",
				text:    `Result: {"transaction_id":"T9","risk_score":"0.4"} done`,
				wantIDs: []string{"T9"},
			},
			{
				name: "single object with list fields is wrapped",
				text: "```json\n{\"transaction_id\":\"T7\",\"extracted_entities\":[\"Acme Corp\",\"Jane Roe\"]," +
					"\"entity_type\":[\"Corporation\",\"Individual\"],\"risk_score\":0.45," +
					"\"supporting_evidence\":[\"OpenCorporates\"],\"confidence_score\":0.8,\"reason\":\"[note] ok\"}\n```",
				wantIDs: []string{"T7"},
			},
			{
				name:    "numeric id",
				text:    `[{"transaction_id":1001}]`,
				wantIDs: []string{"1001"},
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := parseVerdicts(tt.text)
				require.NoError(t, err)
				ids := make([]string, len(got))
				for i, v := range got {
					ids[i] = string(v.TransactionID)
				}
				assert.Equal(t, tt.wantIDs, ids)
			})
		}
	})

	t.Run("string and percent scores", func(t *testing.T) {
		got, err := parseVerdicts(`[{"risk_score":"35%","confidence_score":"0.7"}]`)
		require.NoError(t, err)
		assert.InDelta(t, 35, float64(got[0].RiskScore), 1e-9)
		assert.InDelta(t, 0.7, float64(got[0].ConfidenceScore), 1e-9)
	})

	t.Run("rejected shapes", func(t *testing.T) {
		for name, text := range map[string]string{
			"free text":          "The transaction looks risky because the payer is sanctioned.",
			"empty":              "",
			"broken json":        `[{"transaction_id": "T1",}]`,
			"array of strings":   `["T1", "T2"]`,
			"array with null":    `[{"transaction_id":"T1"}, null]`,
			"close before open":  `] nothing [`,
			"bad score":          `[{"risk_score":"high"}]`,
			"trailing bracket":   `[{"transaction_id":"T1"}] see [note]`,
		} {
			t.Run(name, func(t *testing.T) {
				_, err := parseVerdicts(text)
				require.ErrorIs(t, err, ErrUnparseableResponse)
			})
		}
	})
}

func TestBuildPrompt(t *testing.T) {
	bundles := []EvidenceBundle{{
		Transaction:     TransactionRecord{ID: "T1", PayerName: "Acme", ReceiverName: "Globex", Amount: decimal.RequireFromString("1250.50")},
		Payer:           EntityEvidence{Name: "Acme", NegativeNews: []NewsSnippet{}},
		Receiver:        EntityEvidence{Name: "Globex", NegativeNews: []NewsSnippet{}},
		EvidenceSources: []string{},
		Weights:         DefaultWeights(),
	}}

	prompt, err := buildPrompt(bundles, DefaultWeights())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(prompt, instructions))
	assert.Contains(t, prompt, `"sanctions":50`)
	assert.Contains(t, prompt, `"shareholder_negative_news":15`)
	assert.Contains(t, prompt, `"transaction_id":"TXN001"`)
	assert.Contains(t, prompt, `"transaction_id":"T1"`)
	assert.Contains(t, prompt, `"amount":"1250.5"`)
	assert.Equal(t, 1, strings.Count(prompt, `"financial_risk"`), "weights appear once per prompt")

	idx := strings.Index(prompt, "Transactions: ")
	require.Positive(t, idx)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(prompt[idx+len("Transactions: "):]), &decoded))
	assert.Len(t, decoded, 1)
}
