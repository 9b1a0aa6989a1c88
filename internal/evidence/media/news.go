package media

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"riskscreen/internal/evidence/providers"
)

// NewsProviderID names the news service in errors, metrics and evidence labels.
const NewsProviderID = "NewsAPI"

type newsResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"articles"`
}

// NewsClient searches the NewsAPI top-headlines endpoint.
type NewsClient struct {
	baseURL string
	apiKey  string
	caller  *providers.Caller
}

// NewNewsClient builds a client against baseURL (https://newsapi.org/v2).
func NewNewsClient(baseURL, apiKey string, caller *providers.Caller) *NewsClient {
	return &NewsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		caller:  caller,
	}
}

// Search returns the headlines matching query in the order the service ranks them.
func (c *NewsClient) Search(ctx context.Context, query string) ([]Article, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("apiKey", c.apiKey)
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/top-headlines?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	body, err := c.caller.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	var resp newsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, providers.NewProviderError(providers.ErrorBadData, NewsProviderID, "decode articles", err)
	}
	if resp.Status != "" && resp.Status != "ok" {
		return nil, providers.NewProviderError(providers.ErrorBadData, NewsProviderID,
			fmt.Sprintf("status %s: %s %s", resp.Status, resp.Code, resp.Message), nil)
	}

	articles := make([]Article, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		articles = append(articles, Article{
			Title:   a.Title,
			Source:  a.Source.Name,
			URL:     a.URL,
			Content: a.Content,
		})
	}
	return articles, nil
}
