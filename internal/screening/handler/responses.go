package handler

import "riskscreen/internal/screening"

// ScreenResponse is the HTTP response body for POST /v1/screenings.
type ScreenResponse struct {
	BatchID  string                  `json:"batch_id"`
	Verdicts []screening.RiskVerdict `json:"verdicts"`
}

// FromResult converts a processed batch to its response shape.
func FromResult(result *screening.BatchResult) ScreenResponse {
	verdicts := result.Verdicts
	if verdicts == nil {
		verdicts = []screening.RiskVerdict{}
	}
	return ScreenResponse{BatchID: result.BatchID, Verdicts: verdicts}
}
