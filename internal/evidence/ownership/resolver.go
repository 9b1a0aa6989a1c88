// Package ownership discovers the disclosed group members of an entity from
// its most recent SC 13G ownership filing on SEC EDGAR.
package ownership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"riskscreen/internal/evidence/providers"
	"riskscreen/internal/screening/metrics"
	pstrings "riskscreen/pkg/platform/strings"
)

// ProviderID names the filings service in errors, metrics and evidence labels.
const ProviderID = "SEC EDGAR"

const ownershipFormType = "SC 13G"

// ErrNoFullTextLink is returned when a filing index carries no full-submission
// text document. It is the only hard failure of the resolver.
var ErrNoFullTextLink = errors.New("filing index has no full text link")

// Resolver walks EDGAR: company name to CIK, CIK to latest SC 13G filing index,
// filing index to full submission text, text to group members.
type Resolver struct {
	baseURL         *url.URL
	caller          *providers.Caller
	logger          *slog.Logger
	metrics         *metrics.Metrics
	maxShareholders int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for degraded lookups.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics counts hard failures.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithMaxShareholders lowers the per-entity cap below MaxMembers.
func WithMaxShareholders(n int) Option {
	return func(r *Resolver) {
		if n > 0 && n < MaxMembers {
			r.maxShareholders = n
		}
	}
}

// New builds a Resolver against baseURL (https://www.sec.gov in production).
// caller must carry the User-Agent header EDGAR requires.
func New(baseURL string, caller *providers.Caller, opts ...Option) (*Resolver, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse filings base url: %w", err)
	}
	r := &Resolver{
		baseURL:         base,
		caller:          caller,
		logger:          slog.Default(),
		maxShareholders: MaxMembers,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve returns at most the configured number of shareholders of name.
// It never fails: every error is logged and yields an empty result.
func (r *Resolver) Resolve(ctx context.Context, name string) []string {
	members, err := r.lookup(ctx, name)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoFullTextLink):
		r.metrics.IncrementOwnershipHardFailure()
		r.logger.ErrorContext(ctx, "ownership resolution failed", "entity", name, "error", err)
		return []string{}
	default:
		r.logger.WarnContext(ctx, "ownership lookup degraded",
			"entity", name,
			"category", providers.GetCategory(err),
			"error", err,
		)
		return []string{}
	}
	if len(members) > r.maxShareholders {
		members = members[:r.maxShareholders]
	}
	return members
}

// lookup runs the four EDGAR steps. A missing CIK or filing is an empty,
// successful answer.
func (r *Resolver) lookup(ctx context.Context, name string) ([]string, error) {
	if pstrings.IsBlank(name) {
		return []string{}, nil
	}

	cik, err := r.findCIK(ctx, name)
	if err != nil || cik == "" {
		return []string{}, err
	}

	indexURL, err := r.findFilingIndex(ctx, cik)
	if err != nil || indexURL == "" {
		return []string{}, err
	}

	textURL, err := r.findFullText(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	body, err := r.get(ctx, textURL)
	if err != nil {
		return nil, fmt.Errorf("fetch filing text: %w", err)
	}
	return ExtractGroupMembers(string(body)), nil
}

func (r *Resolver) findCIK(ctx context.Context, name string) (string, error) {
	form := url.Values{}
	form.Set("company", name)
	req, err := http.NewRequest(http.MethodPost, r.resolve("cgi-bin/cik_lookup"), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := r.caller.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("cik lookup: %w", err)
	}
	links, err := parseLinks(body)
	if err != nil {
		return "", fmt.Errorf("cik lookup: %w", err)
	}
	for _, l := range links {
		if n, convErr := strconv.ParseUint(l.Text, 10, 64); convErr == nil {
			return fmt.Sprintf("%010d", n), nil
		}
	}
	return "", nil
}

func (r *Resolver) findFilingIndex(ctx context.Context, cik string) (string, error) {
	q := url.Values{}
	q.Set("action", "getcompany")
	q.Set("CIK", cik)
	q.Set("type", ownershipFormType)
	body, err := r.get(ctx, r.resolve("cgi-bin/browse-edgar?"+q.Encode()))
	if err != nil {
		return "", fmt.Errorf("filing search: %w", err)
	}
	links, err := parseLinks(body)
	if err != nil {
		return "", fmt.Errorf("filing search: %w", err)
	}
	if l, ok := firstLink(links, func(href string) bool { return strings.Contains(href, "Archives") }); ok {
		return r.resolve(l.Href), nil
	}
	return "", nil
}

func (r *Resolver) findFullText(ctx context.Context, indexURL string) (string, error) {
	body, err := r.get(ctx, indexURL)
	if err != nil {
		return "", fmt.Errorf("filing index: %w", err)
	}
	links, err := parseLinks(body)
	if err != nil {
		return "", fmt.Errorf("filing index: %w", err)
	}
	if l, ok := firstLink(links, func(href string) bool { return strings.HasSuffix(href, ".txt") }); ok {
		return r.resolve(l.Href), nil
	}
	return "", fmt.Errorf("%s: %w", indexURL, ErrNoFullTextLink)
}

func (r *Resolver) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	return r.caller.Do(ctx, req)
}

// resolve turns an EDGAR relative reference into an absolute URL.
func (r *Resolver) resolve(ref string) string {
	u, err := url.Parse(strings.TrimPrefix(ref, "/"))
	if err != nil {
		return r.baseURL.String() + strings.TrimPrefix(ref, "/")
	}
	if u.IsAbs() {
		return u.String()
	}
	return r.baseURL.ResolveReference(u).String()
}
