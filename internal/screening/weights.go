package screening

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// WeightTable assigns an integer weight to each risk-factor category. It is a
// value type: every bundle and prompt carries a copy.
type WeightTable struct {
	Sanctions               int `json:"sanctions"`
	FinancialRisk           int `json:"financial_risk"`
	CountryRisk             int `json:"country_risk"`
	AdverseMedia            int `json:"adverse_media"`
	ShareholderSanctions    int `json:"shareholder_sanctions"`
	ShareholderNegativeNews int `json:"shareholder_negative_news"`
}

// DefaultWeights is the production weight table.
func DefaultWeights() WeightTable {
	return WeightTable{
		Sanctions:               50,
		FinancialRisk:           30,
		CountryRisk:             20,
		AdverseMedia:            25,
		ShareholderSanctions:    25,
		ShareholderNegativeNews: 15,
	}
}

// Validate rejects non-positive weights.
func (w WeightTable) Validate() error {
	var errs []error
	for name, v := range map[string]int{
		"sanctions":                 w.Sanctions,
		"financial_risk":            w.FinancialRisk,
		"country_risk":              w.CountryRisk,
		"adverse_media":             w.AdverseMedia,
		"shareholder_sanctions":     w.ShareholderSanctions,
		"shareholder_negative_news": w.ShareholderNegativeNews,
	} {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("weight %s must be positive, got %d", name, v))
		}
	}
	return errors.Join(errs...)
}

// LoadWeights reads a JSON weight table from path over the defaults. An
// empty path returns the defaults. The result is validated.
func LoadWeights(path string) (WeightTable, error) {
	w := DefaultWeights()
	if path == "" {
		return w, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return WeightTable{}, fmt.Errorf("read weight table: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return WeightTable{}, fmt.Errorf("decode weight table: %w", err)
	}
	if err := w.Validate(); err != nil {
		return WeightTable{}, err
	}
	return w, nil
}
