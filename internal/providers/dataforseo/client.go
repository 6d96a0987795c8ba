// Package dataforseo implements the keyword research and advanced
// keyword analysis capabilities against the DataForSEO v3 API.
package dataforseo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/providers"
)

const (
	defaultHTTPTimeout    = 30 * time.Second
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryMaxDelay  = 8 * time.Second

	statusOK = 20000
)

// Client wraps the DataForSEO live endpoints used by the pipeline.
type Client struct {
	login      string
	password   string
	baseURL    string
	httpClient *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(context.Context, time.Duration) error
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

// WithRetryMaxAttempts overrides the default retry count.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.retryMaxAttempts = attempts
		}
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		if sleeper != nil {
			c.sleeper = sleeper
		}
	}
}

// NewClient constructs a DataForSEO client from configuration.
func NewClient(cfg config.DataForSEO, opts ...Option) (*Client, error) {
	login := strings.TrimSpace(cfg.Login)
	password := strings.TrimSpace(cfg.Password)
	if login == "" || password == "" {
		return nil, errors.New("dataforseo: login and password are required")
	}
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		login:            login,
		password:         password,
		baseURL:          strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
		sleeper:          sleepContext,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.baseURL == "" {
		client.baseURL = "https://api.dataforseo.com/v3"
	}
	return client, nil
}

// ResearchKeywords resolves search volume and difficulty for the seed topics.
func (c *Client) ResearchKeywords(ctx context.Context, req providers.KeywordRequest) (*providers.KeywordResult, error) {
	if len(req.Topics) == 0 {
		return nil, providers.NewError(providers.CapabilityKeywords, "no seed topics", false, nil)
	}

	task := []map[string]any{{
		"keywords":      req.Topics,
		"language_code": "en",
	}}
	var response searchVolumeResponse
	if err := c.post(ctx, "/keywords_data/google_ads/search_volume/live", task, &response); err != nil {
		return nil, err
	}

	keywords := make([]providers.Keyword, 0, 8)
	for _, task := range response.Tasks {
		for _, item := range task.Result {
			keyword := providers.Keyword{
				Term:         item.Keyword,
				SearchVolume: item.SearchVolume,
				Difficulty:   item.Competition,
				CPC:          item.CPC,
			}
			if req.MinSearchVolume > 0 && keyword.SearchVolume < req.MinSearchVolume {
				continue
			}
			if req.MaxDifficulty > 0 && keyword.Difficulty > req.MaxDifficulty {
				continue
			}
			keywords = append(keywords, keyword)
		}
	}
	if len(keywords) == 0 {
		return nil, providers.NewError(providers.CapabilityKeywords,
			"no keywords passed the volume/difficulty thresholds", false, nil)
	}

	result := &providers.KeywordResult{Primary: keywords[0]}
	if len(keywords) > 1 {
		result.Related = keywords[1:]
	}
	return result, nil
}

// AnalyzeKeywords expands researched keywords into long-tail variants and questions.
func (c *Client) AnalyzeKeywords(ctx context.Context, req providers.KeywordAnalysisRequest) (*providers.KeywordAnalysisResult, error) {
	if len(req.Keywords) == 0 {
		return nil, providers.NewError(providers.CapabilityKeywords, "no keywords to analyze", false, nil)
	}

	task := []map[string]any{{
		"keyword":       req.Keywords[0].Term,
		"language_code": "en",
		"limit":         50,
	}}
	var response suggestionsResponse
	if err := c.post(ctx, "/dataforseo_labs/google/keyword_suggestions/live", task, &response); err != nil {
		return nil, err
	}

	result := &providers.KeywordAnalysisResult{}
	for _, task := range response.Tasks {
		for _, block := range task.Result {
			for _, item := range block.Items {
				keyword := providers.Keyword{
					Term:         item.Keyword,
					SearchVolume: item.KeywordInfo.SearchVolume,
					Difficulty:   item.KeywordInfo.Competition,
					CPC:          item.KeywordInfo.CPC,
				}
				if req.MaxDifficulty > 0 && keyword.Difficulty > req.MaxDifficulty {
					continue
				}
				if isQuestion(keyword.Term) {
					result.Questions = append(result.Questions, keyword.Term)
					continue
				}
				result.LongTail = append(result.LongTail, keyword)
			}
		}
	}
	return result, nil
}

func isQuestion(term string) bool {
	lowered := strings.ToLower(strings.TrimSpace(term))
	for _, prefix := range []string{"how ", "what ", "why ", "when ", "where ", "which ", "who ", "can ", "should "} {
		if strings.HasPrefix(lowered, prefix) {
			return true
		}
	}
	return false
}

type searchVolumeResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Tasks         []struct {
		Result []struct {
			Keyword      string  `json:"keyword"`
			SearchVolume int     `json:"search_volume"`
			Competition  int     `json:"competition_index"`
			CPC          float64 `json:"cpc"`
		} `json:"result"`
	} `json:"tasks"`
}

type suggestionsResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Tasks         []struct {
		Result []struct {
			Items []struct {
				Keyword     string `json:"keyword"`
				KeywordInfo struct {
					SearchVolume int     `json:"search_volume"`
					Competition  int     `json:"competition_index"`
					CPC          float64 `json:"cpc"`
				} `json:"keyword_info"`
			} `json:"items"`
		} `json:"result"`
	} `json:"tasks"`
}

type apiStatus interface {
	status() (int, string)
}

func (r *searchVolumeResponse) status() (int, string) { return r.StatusCode, r.StatusMessage }

func (r *suggestionsResponse) status() (int, string) { return r.StatusCode, r.StatusMessage }

func (c *Client) post(ctx context.Context, path string, payload any, out apiStatus) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return providers.NewError(providers.CapabilityKeywords, "encode request", false, err)
	}

	attempts := c.retryMaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := c.postOnce(ctx, path, body, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !providers.IsRetryable(err) || attempt == attempts {
			return err
		}
		delay := c.retryBaseDelay << (attempt - 1)
		if delay > c.retryMaxDelay {
			delay = c.retryMaxDelay
		}
		if sleepErr := c.sleeper(ctx, delay); sleepErr != nil {
			return providers.FromContextErr(providers.CapabilityKeywords, sleepErr)
		}
	}
	return lastErr
}

func (c *Client) postOnce(ctx context.Context, path string, body []byte, out apiStatus) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return providers.NewError(providers.CapabilityKeywords, "build request", false, err)
	}
	request.SetBasicAuth(c.login, c.password)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return providers.FromContextErr(providers.CapabilityKeywords, ctx.Err())
		}
		return providers.NewError(providers.CapabilityKeywords, "request failed", true, err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(response.Body, 4<<20))
	if err != nil {
		return providers.NewError(providers.CapabilityKeywords, "read response", true, err)
	}
	if response.StatusCode != http.StatusOK {
		retryable := response.StatusCode == http.StatusTooManyRequests || response.StatusCode >= 500
		return providers.NewError(providers.CapabilityKeywords,
			fmt.Sprintf("http %d", response.StatusCode), retryable, errors.New(snippet(payload)))
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return providers.NewError(providers.CapabilityKeywords, "decode response", false, err)
	}
	if code, message := out.status(); code != statusOK {
		return providers.NewError(providers.CapabilityKeywords,
			fmt.Sprintf("api status %d: %s", code, message), false, nil)
	}
	return nil
}

func snippet(payload []byte) string {
	trimmed := strings.TrimSpace(string(payload))
	if len(trimmed) > 200 {
		return trimmed[:200] + "..."
	}
	return trimmed
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
