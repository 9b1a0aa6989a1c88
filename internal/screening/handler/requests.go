package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"riskscreen/internal/screening"
	"riskscreen/pkg/platform/httputil"
)

// ScreenRequest is the HTTP request body for POST /v1/screenings.
type ScreenRequest struct {
	Transactions []TransactionRequest `json:"transactions"`
}

// TransactionRequest is one row of a screening request.
type TransactionRequest struct {
	TransactionID   string `json:"transaction_id"`
	PayerName       string `json:"payer_name"`
	PayerCountry    string `json:"payer_country"`
	ReceiverName    string `json:"receiver_name"`
	ReceiverCountry string `json:"receiver_country"`
	Details         string `json:"transaction_details"`
	Amount          Amount `json:"amount"`
	Remarks         string `json:"remarks"`
}

// Amount accepts either a JSON number or a numeric string such as "1,250.00".
type Amount struct {
	decimal.Decimal
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)
		if raw == "" {
			a.Decimal = decimal.Zero
			return nil
		}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("amount %q: %w", string(data), err)
	}
	a.Decimal = d
	return nil
}

// Records validates the shape of the request and maps it to pipeline rows.
// Row level rules (ids, batch size) are the service's to enforce.
func (r *ScreenRequest) Records() ([]screening.TransactionRecord, error) {
	if r == nil || r.Transactions == nil {
		return nil, httputil.NewError(http.StatusBadRequest, httputil.CodeBadRequest, "transactions is required", nil)
	}
	rows := make([]screening.TransactionRecord, len(r.Transactions))
	for i, t := range r.Transactions {
		rows[i] = screening.TransactionRecord{
			ID:              strings.TrimSpace(t.TransactionID),
			PayerName:       strings.TrimSpace(t.PayerName),
			PayerCountry:    strings.TrimSpace(t.PayerCountry),
			ReceiverName:    strings.TrimSpace(t.ReceiverName),
			ReceiverCountry: strings.TrimSpace(t.ReceiverCountry),
			Details:         strings.TrimSpace(t.Details),
			Amount:          t.Amount.Decimal,
			Remarks:         strings.TrimSpace(t.Remarks),
		}
	}
	return rows, nil
}
