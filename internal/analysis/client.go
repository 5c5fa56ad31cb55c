// Package analysis sends test result images to an AI vision provider and
// returns its free-text reading.
package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"

	"mediwallet/internal/domain"
)

const maxTokens = 1024

var defaultEndpoints = map[string]string{
	domain.ProviderOpenAI:    "https://api.openai.com/v1/chat/completions",
	domain.ProviderMistral:   "https://api.mistral.ai/v1/chat/completions",
	domain.ProviderGoogle:    "https://generativelanguage.googleapis.com/v1beta/models",
	domain.ProviderAnthropic: "https://api.anthropic.com/v1/messages",
}

var defaultModels = map[string]string{
	domain.ProviderOpenAI:    "gpt-4o-mini",
	domain.ProviderMistral:   "pixtral-12b-2409",
	domain.ProviderGoogle:    "gemini-1.5-flash",
	domain.ProviderAnthropic: "claude-3-5-sonnet-latest",
}

// StubAnalysis is returned for every request in stub mode.
const StubAnalysis = "Stub analysis: all values are within the reference range. No follow-up required."

// Request describes one image to analyse.
type Request struct {
	Provider  string
	APIKey    string
	TestType  string
	Image     []byte
	MediaType string
}

// Client talks to the configured AI provider.
type Client struct {
	httpClient *http.Client
	stubMode   bool
	endpoints  map[string]string
	models     map[string]string
}

type Option func(*Client)

// WithEndpoint overrides the URL used for provider.
func WithEndpoint(provider, url string) Option {
	return func(c *Client) { c.endpoints[provider] = url }
}

func WithModel(provider, model string) Option {
	return func(c *Client) { c.models[provider] = model }
}

func NewClient(timeout time.Duration, stubMode bool, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		stubMode:   stubMode,
		endpoints:  lo.Assign(defaultEndpoints),
		models:     lo.Assign(defaultModels),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze returns the provider's reading of the image.
func (c *Client) Analyze(ctx context.Context, req Request) (string, error) {
	if c.stubMode {
		return StubAnalysis, nil
	}
	provider := req.Provider
	if provider == "" {
		provider = domain.DefaultProvider
	}
	if !domain.KnownProvider(provider) {
		return "", fmt.Errorf("%w: unknown ai provider %q", domain.ErrValidation, provider)
	}
	if strings.TrimSpace(req.APIKey) == "" {
		return "", fmt.Errorf("%w: no api key configured for %s", domain.ErrAnalysisUnavailable, provider)
	}
	if len(req.Image) == 0 {
		return "", fmt.Errorf("%w: empty image", domain.ErrValidation)
	}
	if req.MediaType == "" {
		req.MediaType = http.DetectContentType(req.Image)
	}

	var (
		text string
		err  error
	)
	switch provider {
	case domain.ProviderOpenAI, domain.ProviderMistral:
		text, err = c.chatCompletion(ctx, provider, req)
	case domain.ProviderGoogle:
		text, err = c.gemini(ctx, req)
	case domain.ProviderAnthropic:
		text, err = c.anthropic(ctx, req)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrAnalysisUnavailable, provider, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: %s returned no text", domain.ErrAnalysisUnavailable, provider)
	}
	return text, nil
}

func prompt(testType string) string {
	if testType == "" {
		testType = "medical"
	}
	return fmt.Sprintf("This is a photo of a %s test result. Extract every measured value with its unit and "+
		"reference range, and point out values outside the range. Answer in plain text.", testType)
}

func (c *Client) chatCompletion(ctx context.Context, provider string, req Request) (string, error) {
	dataURL := "data:" + req.MediaType + ";base64," + base64.StdEncoding.EncodeToString(req.Image)
	body := chatRequest{
		Model:     c.models[provider],
		MaxTokens: maxTokens,
		Messages: []chatMessage{{
			Role: "user",
			Content: []chatPart{
				{Type: "text", Text: prompt(req.TestType)},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			},
		}},
	}
	var resp chatResponse
	headers := map[string]string{"Authorization": "Bearer " + req.APIKey}
	if err := c.post(ctx, c.endpoints[provider], headers, body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) gemini(ctx context.Context, req Request) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: prompt(req.TestType)},
				{InlineData: &inlineData{MimeType: req.MediaType, Data: base64.StdEncoding.EncodeToString(req.Image)}},
			},
		}},
	}
	url := c.endpoints[domain.ProviderGoogle] + "/" + c.models[domain.ProviderGoogle] + ":generateContent"
	var resp geminiResponse
	if err := c.post(ctx, url, map[string]string{"x-goog-api-key": req.APIKey}, body, &resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", nil
	}
	parts := lo.Map(resp.Candidates[0].Content.Parts, func(p geminiTextPart, _ int) string {
		return p.Text
	})
	return strings.Join(parts, "\n"), nil
}

func (c *Client) anthropic(ctx context.Context, req Request) (string, error) {
	body := anthropicRequest{
		Model:     c.models[domain.ProviderAnthropic],
		MaxTokens: maxTokens,
		Messages: []anthropicMessage{{
			Role: "user",
			Content: []anthropicPart{
				{Type: "image", Source: &anthropicSource{
					Type:      "base64",
					MediaType: req.MediaType,
					Data:      base64.StdEncoding.EncodeToString(req.Image),
				}},
				{Type: "text", Text: prompt(req.TestType)},
			},
		}},
	}
	headers := map[string]string{
		"x-api-key":         req.APIKey,
		"anthropic-version": "2023-06-01",
	}
	var resp anthropicResponse
	if err := c.post(ctx, c.endpoints[domain.ProviderAnthropic], headers, body, &resp); err != nil {
		return "", err
	}
	texts := lo.FilterMap(resp.Content, func(b anthropicBlock, _ int) (string, bool) {
		return b.Text, b.Type == "text"
	})
	return strings.Join(texts, "\n"), nil
}

func (c *Client) post(ctx context.Context, url string, headers map[string]string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
