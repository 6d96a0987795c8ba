// Package openai implements the text generation, scoring, quality
// assurance, and image generation capabilities using the official
// openai-go SDK.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"inkwell/internal/config"
	"inkwell/internal/providers"
	"inkwell/internal/textutil"
)

const (
	defaultTextTimeout  = 300 * time.Second
	defaultImageTimeout = 300 * time.Second
	defaultImageCount   = 2
)

// Client drives chat completions and image generation.
type Client struct {
	sdk          openaisdk.Client
	textModel    string
	imageModel   string
	textTimeout  time.Duration
	imageTimeout time.Duration
}

// Option customizes the client.
type Option func(*Client)

// WithSDKOptions appends raw request options (test servers, custom transports).
func WithSDKOptions(opts ...option.RequestOption) Option {
	return func(c *Client) {
		c.sdk = openaisdk.NewClient(opts...)
	}
}

// NewClient constructs an OpenAI client from configuration.
func NewClient(cfg config.OpenAI, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai: api key is required")
	}

	requestOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(baseURL))
	}

	client := &Client{
		sdk:          openaisdk.NewClient(requestOpts...),
		textModel:    strings.TrimSpace(cfg.TextModel),
		imageModel:   strings.TrimSpace(cfg.ImageModel),
		textTimeout:  defaultTextTimeout,
		imageTimeout: defaultImageTimeout,
	}
	if cfg.TextTimeoutSeconds > 0 {
		client.textTimeout = time.Duration(cfg.TextTimeoutSeconds) * time.Second
	}
	if cfg.ImageTimeoutSeconds > 0 {
		client.imageTimeout = time.Duration(cfg.ImageTimeoutSeconds) * time.Second
	}
	if client.textModel == "" {
		client.textModel = "gpt-4o"
	}
	if client.imageModel == "" {
		client.imageModel = "dall-e-3"
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

const strategySystemPrompt = `You are a content strategist. Respond with JSON only:
{"working_title": "...", "angle": "...", "outline": [{"heading": "...", "points": ["..."], "keywords": ["..."]}], "target_word_count": 1500}`

// PlanStrategy produces an outline plan from the accumulated research context.
func (c *Client) PlanStrategy(ctx context.Context, req providers.StrategyRequest) (*providers.StrategyResult, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, providers.NewError(providers.CapabilityGeneration, "topic is required", false, nil)
	}

	userPrompt, err := json.Marshal(req)
	if err != nil {
		return nil, providers.NewError(providers.CapabilityGeneration, "encode strategy context", false, err)
	}

	var result providers.StrategyResult
	if err := c.completeJSON(ctx, c.textTimeout, strategySystemPrompt, string(userPrompt), &result); err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.WorkingTitle) == "" || len(result.Outline) == 0 {
		return nil, providers.NewError(providers.CapabilityGeneration, "strategy response missing title or outline", false, nil)
	}
	return &result, nil
}

const articleSystemPrompt = `You are a senior content writer. Write the full article described by the plan. Respond with JSON only:
{"title": "...", "body": "...", "meta_description": "...", "tags": ["..."]}`

// GenerateArticle writes the article from the strategy and upstream data.
func (c *Client) GenerateArticle(ctx context.Context, req providers.ArticleRequest) (*providers.ArticleResult, error) {
	if strings.TrimSpace(req.Strategy.WorkingTitle) == "" {
		return nil, providers.NewError(providers.CapabilityGeneration, "strategy is required", false, nil)
	}

	userPrompt, err := json.Marshal(req)
	if err != nil {
		return nil, providers.NewError(providers.CapabilityGeneration, "encode article context", false, err)
	}

	var result providers.ArticleResult
	if err := c.completeJSON(ctx, c.textTimeout, articleSystemPrompt, string(userPrompt), &result); err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.Title) == "" || strings.TrimSpace(result.Body) == "" {
		return nil, providers.NewError(providers.CapabilityGeneration, "article response missing title or body", false, nil)
	}
	return &result, nil
}

const scoreSystemPrompt = `You are an SEO auditor. Score the article from 0 to 100 and list concrete improvements. Respond with JSON only:
{"seo_score": 0, "suggestions": ["..."]}`

// ScoreContent scores the draft. Word count and keyword density are
// computed locally so they stay deterministic; only the score and the
// suggestions come from the model.
func (c *Client) ScoreContent(ctx context.Context, req providers.ScoreRequest) (*providers.ScoreResult, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, providers.NewError(providers.CapabilityScoring, "body is required", false, nil)
	}

	userPrompt, err := json.Marshal(req)
	if err != nil {
		return nil, providers.NewError(providers.CapabilityScoring, "encode scoring context", false, err)
	}

	var scored struct {
		SEOScore    float64  `json:"seo_score"`
		Suggestions []string `json:"suggestions"`
	}
	if err := c.completeJSON(ctx, c.textTimeout, scoreSystemPrompt, string(userPrompt), &scored); err != nil {
		return nil, remapCapability(err, providers.CapabilityScoring)
	}

	words := strings.Fields(body)
	result := &providers.ScoreResult{
		WordCount:      len(words),
		KeywordDensity: keywordDensity(len(words), body, req.TargetKeywords),
		SEOScore:       scored.SEOScore,
		Suggestions:    scored.Suggestions,
	}
	return result, nil
}

const qaSystemPrompt = `You are an editor performing a final quality pass. Respond with JSON only:
{"passed": true, "findings": ["..."], "revised": ""}`

// ReviewQuality runs the final quality pass over the draft.
func (c *Client) ReviewQuality(ctx context.Context, req providers.QARequest) (*providers.QAResult, error) {
	if strings.TrimSpace(req.Body) == "" {
		return nil, providers.NewError(providers.CapabilityGeneration, "body is required", false, nil)
	}

	userPrompt, err := json.Marshal(req)
	if err != nil {
		return nil, providers.NewError(providers.CapabilityGeneration, "encode qa context", false, err)
	}

	var result providers.QAResult
	if err := c.completeJSON(ctx, c.textTimeout, qaSystemPrompt, string(userPrompt), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateImages renders illustrative images for the article.
func (c *Client) GenerateImages(ctx context.Context, req providers.ImageRequest) (*providers.ImageResult, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, providers.NewError(providers.CapabilityImages, "title is required", false, nil)
	}
	count := req.Count
	if count <= 0 {
		count = defaultImageCount
	}

	callCtx, cancel := context.WithTimeout(ctx, c.imageTimeout)
	defer cancel()

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Editorial illustration for an article titled %q.", req.Title)
	if req.Style != "" {
		fmt.Fprintf(&prompt, " Style: %s.", req.Style)
	}

	response, err := c.sdk.Images.Generate(callCtx, openaisdk.ImageGenerateParams{
		Prompt: prompt.String(),
		Model:  openaisdk.ImageModel(c.imageModel),
		N:      openaisdk.Int(int64(count)),
	})
	if err != nil {
		return nil, classifyError(providers.CapabilityImages, ctx, err)
	}
	if len(response.Data) == 0 {
		return nil, providers.NewError(providers.CapabilityImages, "no images returned", false, nil)
	}

	result := &providers.ImageResult{}
	positions := imagePositions(req.Sections, len(response.Data))
	for i, image := range response.Data {
		alt := req.Title
		if i < len(req.Sections) && strings.TrimSpace(req.Sections[i]) != "" {
			alt = req.Sections[i]
		}
		result.Images = append(result.Images, providers.Image{
			URL:      image.URL,
			AltText:  alt,
			Position: positions[i],
		})
	}
	return result, nil
}

func (c *Client) completeJSON(ctx context.Context, timeout time.Duration, systemPrompt, userPrompt string, out any) error {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	response, err := c.sdk.Chat.Completions.New(callCtx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(c.textModel),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(systemPrompt),
			openaisdk.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return classifyError(providers.CapabilityGeneration, ctx, err)
	}
	if len(response.Choices) == 0 {
		return providers.NewError(providers.CapabilityGeneration, "empty choices", false, nil)
	}

	content := stripCodeFence(response.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return providers.NewError(providers.CapabilityGeneration, "decode model response", false, err)
	}
	return nil
}

func classifyError(capability string, ctx context.Context, err error) *providers.Error {
	if ctx.Err() != nil {
		return providers.FromContextErr(capability, ctx.Err())
	}
	var apiErr *openaisdk.Error
	if errors.As(err, &apiErr) {
		retryable := apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
		return providers.NewError(capability, fmt.Sprintf("http %d", apiErr.StatusCode), retryable, err)
	}
	return providers.NewError(capability, "request failed", true, err)
}

func remapCapability(err error, capability string) error {
	var provErr *providers.Error
	if errors.As(err, &provErr) {
		provErr.Capability = capability
		return provErr
	}
	return err
}

// keywordDensity reports target-keyword hits as a percentage of the
// body word count. Matching runs on normalized tokens so punctuation
// and case differences do not hide hits.
func keywordDensity(wordCount int, body string, keywords []string) float64 {
	if wordCount == 0 || len(keywords) == 0 {
		return 0
	}
	targets := make(map[string]struct{}, len(keywords))
	for _, keyword := range keywords {
		for _, token := range textutil.Tokenize(keyword) {
			targets[token] = struct{}{}
		}
	}
	var hits int
	for _, token := range textutil.Tokenize(body) {
		if _, ok := targets[token]; ok {
			hits++
		}
	}
	return float64(hits) / float64(wordCount) * 100
}

func imagePositions(sections []string, count int) []string {
	positions := make([]string, count)
	for i := 0; i < count; i++ {
		switch {
		case i == 0:
			positions[i] = "header"
		case i < len(sections):
			positions[i] = fmt.Sprintf("section-%d", i)
		default:
			positions[i] = "inline"
		}
	}
	return positions
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
