// Package generator adapts an OpenAI-compatible chat-completions service
// into the batch pipeline's generation capability.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/digitech/seogen/internal/prompts"
	"github.com/go-resty/resty/v2"
)

// ItemDescriptor carries the minimal display attributes needed to
// synthesize content for one product.
type ItemDescriptor struct {
	ProductID string
	Name      string
	Brand     string
	Category  string
}

// FieldSet is the raw generated content for one product, positionally
// aligned with the request batch. A zero FieldSet marks a missing entry.
type FieldSet struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	MetaDescription string `json:"meta_description"`
}

// Config holds configuration for the generation client.
type Config struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

// Client calls the generation service. One Generate call covers one batch.
type Client struct {
	client    *resty.Client
	model     string
	endpoint  string
	maxTokens int
}

// NewClient creates a new generation client.
// Parameters:
//   - cfg: generator configuration including model, API key and base URL.
//
// Returns:
//   - *Client: initialized chat-completions client wrapper.
func NewClient(cfg *Config) *Client {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	// Set timeout to prevent hanging requests
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client.SetTimeout(timeout)

	// Default to OpenAI compatible endpoint if not specified
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	endpoint := strings.TrimSuffix(baseURL, "/") + "/chat/completions"

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	return &Client{
		client:    client,
		model:     cfg.Model,
		endpoint:  endpoint,
		maxTokens: maxTokens,
	}
}

// Model returns the model name being used.
func (c *Client) Model() string {
	return c.model
}

// OpenAI-compatible Chat Completion API request/response structures
type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Generate synthesizes the three derived fields for a batch of products in
// a single call. The returned slice is positionally aligned with items;
// entries the model omitted come back as zero FieldSets so the validator
// can fail them individually. Errors are always *Failure.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - items: per-product descriptors for this batch.
//
// Returns:
//   - []FieldSet: one entry per requested item, in request order.
//   - error: *Failure classifying the batch-level problem.
func (c *Client) Generate(ctx context.Context, items []ItemDescriptor) ([]FieldSet, error) {
	if len(items) == 0 {
		return []FieldSet{}, nil
	}

	req := openAIRequest{
		Model: c.model,
		Messages: []openAIMessage{
			{Role: "system", Content: prompts.SEOSystemPrompt},
			{Role: "user", Content: buildUserPrompt(items)},
		},
		MaxTokens: c.maxTokens,
	}

	var resp openAIResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(c.endpoint)

	if err != nil {
		return nil, classifyTransportError(err)
	}

	if code := httpResp.StatusCode(); code < 200 || code >= 300 {
		msg := fmt.Sprintf("HTTP %d", code)
		if resp.Error != nil {
			msg = fmt.Sprintf("HTTP %d: %s", code, resp.Error.Message)
		} else if len(httpResp.Body()) > 0 {
			msg = fmt.Sprintf("HTTP %d: %s", code, string(httpResp.Body()))
		}
		return nil, newFailure(classifyStatus(code), "%s", msg)
	}

	if resp.Error != nil {
		return nil, newFailure(FailureMalformed, "API error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, newFailure(FailureMalformed, "no choices in response (status %d)", httpResp.StatusCode())
	}

	return parseBatch(resp.Choices[0].Message.Content, len(items))
}

// buildUserPrompt renders the numbered product list for the user message.
func buildUserPrompt(items []ItemDescriptor) string {
	var b strings.Builder
	b.WriteString(prompts.SEOUserPromptHeader)
	for i, item := range items {
		brand := item.Brand
		if brand == "" {
			brand = "Brand"
		}
		category := item.Category
		if category == "" {
			category = "Category"
		}
		fmt.Fprintf(&b, "%d. %s | Brand: %s | Type: %s\n", i+1, item.Name, brand, category)
	}
	return b.String()
}

// parseBatch extracts the JSON array from the model output and aligns it to
// the request size. A short array is padded with zero FieldSets (item-level
// parse failures); an unparseable or oversized body fails the whole batch.
func parseBatch(content string, expected int) ([]FieldSet, error) {
	raw, err := extractJSONArray(content)
	if err != nil {
		return nil, newFailure(FailureMalformed, "%v", err)
	}

	var fields []FieldSet
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, newFailure(FailureMalformed, "invalid JSON in response: %v", err)
	}
	if len(fields) > expected {
		return nil, newFailure(FailureMalformed, "response has %d entries, expected %d", len(fields), expected)
	}
	for len(fields) < expected {
		fields = append(fields, FieldSet{})
	}
	return fields, nil
}

// extractJSONArray finds the first bracket-balanced JSON array in content,
// tolerating markdown fences and leading commentary some models emit.
func extractJSONArray(content string) (string, error) {
	start := strings.Index(content, "[")
	if start == -1 {
		return "", fmt.Errorf("no JSON array found in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		ch := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return content[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("incomplete JSON array in response")
}

// classifyTransportError maps resty/network errors onto failure kinds.
// Timeouts and cancellations are Timeout (retried once); anything else on
// the wire is treated the same way since a retry is the only useful move.
func classifyTransportError(err error) *Failure {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return newFailure(FailureTimeout, "request timed out: %v", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newFailure(FailureTimeout, "request timed out: %v", err)
	}
	return newFailure(FailureTimeout, "transport error: %v", err)
}
