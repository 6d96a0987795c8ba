// Package serpapi implements the competitive SERP analysis capability.
package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/providers"
)

const defaultHTTPTimeout = 30 * time.Second

// Client wraps the SerpAPI search endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a SerpAPI client from configuration.
func NewClient(cfg config.Serp, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("serpapi: api key is required")
	}
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimSpace(cfg.BaseURL),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.baseURL == "" {
		client.baseURL = "https://serpapi.com/search"
	}
	return client, nil
}

type searchResponse struct {
	OrganicResults []struct {
		Position int    `json:"position"`
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
	} `json:"organic_results"`
	RelatedQuestions []struct {
		Question string `json:"question"`
	} `json:"related_questions"`
	Error string `json:"error"`
}

// AnalyzeSERP fetches the target keyword's results page and derives
// competitor coverage gaps from the supplied domain list.
func (c *Client) AnalyzeSERP(ctx context.Context, req providers.SerpRequest) (*providers.SerpResult, error) {
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return nil, providers.NewError(providers.CapabilitySerp, "keyword is required", false, nil)
	}

	query := url.Values{}
	query.Set("engine", "google")
	query.Set("q", keyword)
	query.Set("api_key", c.apiKey)
	query.Set("num", "10")

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, providers.NewError(providers.CapabilitySerp, "build request", false, err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return nil, providers.FromContextErr(providers.CapabilitySerp, ctx.Err())
		}
		return nil, providers.NewError(providers.CapabilitySerp, "request failed", true, err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(response.Body, 4<<20))
	if err != nil {
		return nil, providers.NewError(providers.CapabilitySerp, "read response", true, err)
	}
	if response.StatusCode != http.StatusOK {
		retryable := response.StatusCode == http.StatusTooManyRequests || response.StatusCode >= 500
		return nil, providers.NewError(providers.CapabilitySerp,
			fmt.Sprintf("http %d", response.StatusCode), retryable, nil)
	}

	var parsed searchResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, providers.NewError(providers.CapabilitySerp, "decode response", false, err)
	}
	if parsed.Error != "" {
		return nil, providers.NewError(providers.CapabilitySerp, parsed.Error, false, nil)
	}

	result := &providers.SerpResult{}
	seenDomains := make(map[string]struct{})
	for _, entry := range parsed.OrganicResults {
		domain := domainOf(entry.Link)
		seenDomains[domain] = struct{}{}
		result.Entries = append(result.Entries, providers.SerpEntry{
			Position: entry.Position,
			Title:    entry.Title,
			URL:      entry.Link,
			Domain:   domain,
			Snippet:  entry.Snippet,
		})
	}
	for _, question := range parsed.RelatedQuestions {
		if q := strings.TrimSpace(question.Question); q != "" {
			result.PeopleAlsoAsk = append(result.PeopleAlsoAsk, q)
		}
	}
	for _, competitor := range req.CompetitorDomains {
		normalized := strings.ToLower(strings.TrimSpace(competitor))
		if normalized == "" {
			continue
		}
		if _, ranked := seenDomains[normalized]; !ranked {
			result.CompetitorGaps = append(result.CompetitorGaps, normalized)
		}
	}
	return result, nil
}

func domainOf(link string) string {
	parsed, err := url.Parse(link)
	if err != nil || parsed.Host == "" {
		return link
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
}
