package screening

import (
	"github.com/shopspring/decimal"

	"riskscreen/internal/evidence/sanctions"
)

// TransactionRecord is one structured transaction row handed to the pipeline.
// It is never modified after intake.
type TransactionRecord struct {
	ID              string          `json:"transaction_id"`
	PayerName       string          `json:"payer_name"`
	PayerCountry    string          `json:"payer_country"`
	ReceiverName    string          `json:"receiver_name"`
	ReceiverCountry string          `json:"receiver_country"`
	Details         string          `json:"transaction_details"`
	Amount          decimal.Decimal `json:"amount"`
	Remarks         string          `json:"remarks"`
}

// NewsSnippet is a negative news summary and the classifier's confidence.
type NewsSnippet struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// EntityEvidence is everything learned about one entity. Values are shared
// through the entity cache and must be treated as read-only.
type EntityEvidence struct {
	Name         string           `json:"name"`
	Sanctions    *sanctions.Match `json:"sanctions,omitempty"`
	RegistryType string           `json:"registry_type,omitempty"`
	NegativeNews []NewsSnippet    `json:"negative_news"`
	Shareholders []string         `json:"shareholders,omitempty"`
}

// Sanctioned reports whether the entity matched any list.
func (e EntityEvidence) Sanctioned() bool {
	return e.Sanctions != nil
}

// HasNegativeNews reports whether any negative coverage was retained.
func (e EntityEvidence) HasNegativeNews() bool {
	return len(e.NegativeNews) > 0
}

// SanctionsLabel returns the evidence-source label of the match, or "".
func (e EntityEvidence) SanctionsLabel() string {
	if e.Sanctions == nil {
		return ""
	}
	return e.Sanctions.Label()
}

// EvidenceBundle is the synthesis input for one transaction.
type EvidenceBundle struct {
	Transaction          TransactionRecord `json:"transaction"`
	Payer                EntityEvidence    `json:"payer"`
	Receiver             EntityEvidence    `json:"receiver"`
	PayerShareholders    []EntityEvidence  `json:"payer_shareholders"`
	ReceiverShareholders []EntityEvidence  `json:"receiver_shareholders"`
	EvidenceSources      []string          `json:"supporting_evidence"`
	// Weights is sent once per prompt rather than once per bundle.
	Weights       WeightTable `json:"-"`
	EvidenceScore float64     `json:"evidence_score"`
}

// UnknownEntityType is reported when neither the registry nor the generator
// classified a party.
const UnknownEntityType = "Unknown"

// RiskVerdict is the pipeline output for one transaction.
type RiskVerdict struct {
	TransactionID   string    `json:"transaction_id"`
	Entities        [2]string `json:"extracted_entities"`
	EntityTypes     [2]string `json:"entity_type"`
	RiskScore       float64   `json:"risk_score"`
	ConfidenceScore float64   `json:"confidence_score"`
	EvidenceSources []string  `json:"supporting_evidence"`
	Rationale       string    `json:"reason"`
	// AdvisoryScore is the generator's own score before the evidence floor.
	AdvisoryScore float64 `json:"advisory_score"`
}

// BatchResult is a processed batch.
type BatchResult struct {
	BatchID  string        `json:"batch_id"`
	Verdicts []RiskVerdict `json:"verdicts"`
}
