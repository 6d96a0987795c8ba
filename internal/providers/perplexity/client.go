// Package perplexity implements the market research capability via the
// Perplexity chat completions API.
package perplexity

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

const defaultHTTPTimeout = 120 * time.Second

// Client wraps the Perplexity chat completions endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
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

// NewClient constructs a Perplexity client from configuration.
func NewClient(cfg config.Perplexity, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("perplexity: api key is required")
	}
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimSpace(cfg.BaseURL),
		model:      strings.TrimSpace(cfg.Model),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.baseURL == "" {
		client.baseURL = "https://api.perplexity.ai/chat/completions"
	}
	if client.model == "" {
		client.model = "sonar-pro"
	}
	return client, nil
}

const researchSystemPrompt = `You are a market research analyst. Respond with JSON only:
{"summary": "...", "key_points": ["..."]}`

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Research runs a market research query for the topic and audience.
func (c *Client) Research(ctx context.Context, req providers.ResearchRequest) (*providers.ResearchResult, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, providers.NewError(providers.CapabilityResearch, "topic is required", false, nil)
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Research the current market landscape for %q.", topic)
	if req.Industry != "" {
		fmt.Fprintf(&prompt, " Industry: %s.", req.Industry)
	}
	if req.Audience != "" {
		fmt.Fprintf(&prompt, " Target audience: %s.", req.Audience)
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: researchSystemPrompt},
			{Role: "user", Content: prompt.String()},
		},
	})
	if err != nil {
		return nil, providers.NewError(providers.CapabilityResearch, "encode request", false, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, providers.NewError(providers.CapabilityResearch, "build request", false, err)
	}
	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return nil, providers.FromContextErr(providers.CapabilityResearch, ctx.Err())
		}
		return nil, providers.NewError(providers.CapabilityResearch, "request failed", true, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, 4<<20))
	if err != nil {
		return nil, providers.NewError(providers.CapabilityResearch, "read response", true, err)
	}
	if response.StatusCode != http.StatusOK {
		retryable := response.StatusCode == http.StatusTooManyRequests || response.StatusCode >= 500
		return nil, providers.NewError(providers.CapabilityResearch,
			fmt.Sprintf("http %d", response.StatusCode), retryable, nil)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, providers.NewError(providers.CapabilityResearch, "decode response", false, err)
	}
	if parsed.Error != nil {
		return nil, providers.NewError(providers.CapabilityResearch, parsed.Error.Message, false, nil)
	}
	if len(parsed.Choices) == 0 {
		return nil, providers.NewError(providers.CapabilityResearch, "empty choices", false, nil)
	}

	var content struct {
		Summary   string   `json:"summary"`
		KeyPoints []string `json:"key_points"`
	}
	raw := stripCodeFence(parsed.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		// Some models answer in prose despite the JSON instruction.
		content.Summary = strings.TrimSpace(parsed.Choices[0].Message.Content)
	}
	if content.Summary == "" {
		return nil, providers.NewError(providers.CapabilityResearch, "empty research summary", false, nil)
	}

	return &providers.ResearchResult{
		Summary:   content.Summary,
		KeyPoints: content.KeyPoints,
		Citations: parsed.Citations,
	}, nil
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
