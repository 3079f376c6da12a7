package providers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompatClient talks to any OpenAI-compatible chat-completions
// endpoint. DeepSeek and OpenRouter are both served by this one client with
// different base URLs.
type OpenAICompatClient struct {
	name    string
	apiKey  string
	baseURL string
	model   string

	mu     sync.Mutex
	client *openai.Client
}

const (
	deepSeekBaseURL   = "https://api.deepseek.com/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
)

func NewDeepSeek(apiKey, model string) *OpenAICompatClient {
	return &OpenAICompatClient{name: "deepseek", apiKey: apiKey, baseURL: deepSeekBaseURL, model: model}
}

func NewOpenRouter(apiKey, model string) *OpenAICompatClient {
	return &OpenAICompatClient{name: "openrouter", apiKey: apiKey, baseURL: openRouterBaseURL, model: model}
}

func (c *OpenAICompatClient) Name() string { return c.name }

func (c *OpenAICompatClient) ensureClient() (*openai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	if !keyConfigured(c.apiKey) {
		return nil, fmt.Errorf("%s: %w", c.name, ErrMissingAPIKey)
	}
	cfg := openai.DefaultConfig(c.apiKey)
	cfg.BaseURL = c.baseURL
	c.client = openai.NewClientWithConfig(cfg)
	return c.client, nil
}

func (c *OpenAICompatClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	client, err := c.ensureClient()
	if err != nil {
		return "", err
	}

	msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if req.Image != nil {
		// Image goes over the wire as a data URL content part.
		dataURL := fmt.Sprintf("data:%s;base64,%s",
			req.Image.MIMEType, base64.StdEncoding.EncodeToString(req.Image.Data))
		msg.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: req.Prompt},
			{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
		}
	} else {
		msg.Content = req.Prompt
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    []openai.ChatCompletionMessage{msg},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", c.classify(err)
	}
	if len(resp.Choices) == 0 {
		// Treated as transient: the endpoint answered but gave nothing.
		return "", fmt.Errorf("%s: empty choices", c.name)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAICompatClient) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{Provider: c.name, Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ProviderError{Provider: c.name, Status: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}
	return fmt.Errorf("%s: %w", c.name, err)
}
