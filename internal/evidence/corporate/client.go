// Package corporate resolves entity names to corporate registry records via
// the OpenCorporates search API.
package corporate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"riskscreen/internal/evidence/providers"
	pstrings "riskscreen/pkg/platform/strings"
)

// ProviderID names the registry in errors, metrics and evidence labels.
const ProviderID = "OpenCorporates"

const defaultType = "Company"

// Company is the subset of the registry record the pipeline uses.
type Company struct {
	Name         string `json:"name"`
	Type         string `json:"company_type"`
	Number       string `json:"company_number"`
	Jurisdiction string `json:"jurisdiction_code"`
}

type searchResponse struct {
	Results struct {
		Companies []struct {
			Company Company `json:"company"`
		} `json:"companies"`
	} `json:"results"`
}

// Client queries OpenCorporates. A lookup never fails the caller: every
// upstream problem is logged and reported as "unknown".
type Client struct {
	baseURL string
	apiKey  string
	caller  *providers.Caller
	logger  *slog.Logger
}

// New builds a registry client on top of caller. baseURL is the API root,
// e.g. https://api.opencorporates.com.
func New(baseURL, apiKey string, caller *providers.Caller, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		caller:  caller,
		logger:  logger,
	}
}

// Lookup returns the first search hit for name.
func (c *Client) Lookup(ctx context.Context, name string) (*Company, bool) {
	if pstrings.IsBlank(name) {
		return nil, false
	}

	q := url.Values{}
	q.Set("q", name)
	if c.apiKey != "" {
		q.Set("api_token", c.apiKey)
	}
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/v0.4/companies/search?"+q.Encode(), nil)
	if err != nil {
		c.logger.ErrorContext(ctx, "build registry request", "error", err)
		return nil, false
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.caller.Do(ctx, req)
	if err != nil {
		c.logger.WarnContext(ctx, "registry lookup failed",
			"entity", name,
			"category", providers.GetCategory(err),
			"error", err,
		)
		return nil, false
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.WarnContext(ctx, "registry response undecodable",
			"entity", name,
			"category", providers.ErrorBadData,
			"error", err,
		)
		return nil, false
	}
	if len(resp.Results.Companies) == 0 {
		c.logger.DebugContext(ctx, "registry has no record", "entity", name)
		return nil, false
	}

	company := resp.Results.Companies[0].Company
	if strings.TrimSpace(company.Type) == "" {
		company.Type = defaultType
	}
	return &company, true
}
