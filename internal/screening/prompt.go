package screening

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const instructions = `You are given the gathered compliance evidence for a batch of financial transactions, one object per transaction.
"payer" and "receiver" hold the evidence for the two parties; "payer_shareholders" and "receiver_shareholders" hold the evidence for their disclosed group members.
"sanctions" names the list an entity appears on and is absent when the entity is not listed.
"negative_news" holds summaries of adverse media coverage with the classifier confidence of each.
"supporting_evidence" lists the external systems that contributed evidence and "evidence_score" is the score implied by that evidence alone.
Using the weights below for each risk factor, compute an overall risk score and a confidence score for every transaction, both between 0 and 1 (divide weighted totals by 100).
The confidence score is how confident you are in the risk score.
Use "transaction_details" and "remarks" as additional risk signals and mention them in the reason.
When an entity type is unknown, give a general type such as Corporation, Individual, NGO, Bank or Government Agency.
Answer with JSON only: an array with exactly one object per transaction, in input order, shaped like the example output. Write the reason in natural language.`

var sampleVerdict = generatedVerdict{
	TransactionID:      "TXN001",
	ExtractedEntities:  []string{"Apple", "Google"},
	EntityType:         []string{"Corporation", "Corporation"},
	RiskScore:          0.35,
	SupportingEvidence: []string{"OFAC", "NewsAPI"},
	ConfidenceScore:    0.8,
	Reason:             "Apple appears on the OFAC sanctions list and has recent negative coverage; the remarks describe a routine supplier payment, so the overall risk is moderate.",
}

// buildPrompt renders the single synthesis request of a batch.
func buildPrompt(bundles []EvidenceBundle, weights WeightTable) (string, error) {
	weightsJSON, err := json.Marshal(weights)
	if err != nil {
		return "", fmt.Errorf("encode weights: %w", err)
	}
	sampleJSON, err := json.Marshal(sampleVerdict)
	if err != nil {
		return "", fmt.Errorf("encode sample: %w", err)
	}
	bundlesJSON, err := json.Marshal(bundles)
	if err != nil {
		return "", fmt.Errorf("encode bundles: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\nRisk factor weights: ")
	sb.Write(weightsJSON)
	sb.WriteString("\n\nExample output object: ")
	sb.Write(sampleJSON)
	sb.WriteString("\n\nTransactions: ")
	sb.Write(bundlesJSON)
	return sb.String(), nil
}

// generatedVerdict is the object shape requested from the generator.
type generatedVerdict struct {
	TransactionID      looseString `json:"transaction_id"`
	ExtractedEntities  []string    `json:"extracted_entities"`
	EntityType         []string    `json:"entity_type"`
	RiskScore          looseFloat  `json:"risk_score"`
	SupportingEvidence []string    `json:"supporting_evidence"`
	ConfidenceScore    looseFloat  `json:"confidence_score"`
	Reason             string      `json:"reason"`
}

// parseVerdicts extracts the verdict objects from free text. Newlines are
// dropped, then the text is cut from the first '[' or '{', whichever comes
// first, to the last matching closer. A lone object becomes a one-element
// list.
func parseVerdicts(text string) ([]generatedVerdict, error) {
	cleaned := strings.NewReplacer("\r", " ", "\n", " ").Replace(text)

	start := strings.IndexAny(cleaned, "[{")
	if start < 0 {
		return nil, fmt.Errorf("%w: no JSON found", ErrUnparseableResponse)
	}
	closer := "]"
	if cleaned[start] == '{' {
		closer = "}"
	}
	end := strings.LastIndex(cleaned, closer)
	if end < start {
		return nil, fmt.Errorf("%w: no JSON found", ErrUnparseableResponse)
	}
	raw := []byte(strings.TrimSpace(cleaned[start : end+1]))

	var elements []json.RawMessage
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &elements); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnparseableResponse, err)
		}
	default:
		elements = []json.RawMessage{raw}
	}

	verdicts := make([]generatedVerdict, 0, len(elements))
	for i, el := range elements {
		el = bytes.TrimSpace(el)
		if len(el) == 0 || el[0] != '{' {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrUnparseableResponse, i)
		}
		var v generatedVerdict
		if err := json.Unmarshal(el, &v); err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", ErrUnparseableResponse, i, err)
		}
		verdicts = append(verdicts, v)
	}
	return verdicts, nil
}

// looseFloat accepts a JSON number or a numeric string.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return fmt.Errorf("score %s: %w", b, err)
	}
	*f = looseFloat(v)
	return nil
}

// looseString accepts a JSON string or number.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*s = looseString(num.String())
	return nil
}
