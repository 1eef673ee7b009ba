package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Karthik2006-In/Honeypot-AI/internal/config"
	"github.com/Karthik2006-In/Honeypot-AI/pkg/logger"
)

const (
	groqURL   = "https://api.groq.com/openai/v1/chat/completions"
	openaiURL = "https://api.openai.com/v1/chat/completions"
	claudeURL = "https://api.anthropic.com/v1/messages"
)

// Client provides access to a chat completion API. Groq and OpenAI share
// the same wire format; Claude has its own.
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	cfg        config.LLMConfig
}

// Message is a chat message in provider-neutral form.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewClient creates a chat completion client for the configured provider.
func NewClient(cfg config.LLMConfig, log *logger.Logger) (*Client, error) {
	switch cfg.Provider {
	case "groq", "openai", "claude":
	default:
		return nil, fmt.Errorf("llm: unsupported provider %q", cfg.Provider)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: api key is required for provider %q", cfg.Provider)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log.WithComponent("llm-client"),
		cfg:        cfg,
	}, nil
}

// Chat sends the system prompt and message history to the provider and
// returns the assistant's reply text.
func (c *Client) Chat(ctx context.Context, system string, messages []Message) (string, error) {
	start := time.Now()

	var content string
	var err error

	switch c.cfg.Provider {
	case "claude":
		content, err = c.callClaude(ctx, system, messages)
	default:
		content, err = c.callOpenAICompatible(ctx, system, messages)
	}

	if err != nil {
		return "", err
	}

	c.logger.Debug().
		Str("provider", c.cfg.Provider).
		Str("model", c.cfg.Model).
		Dur("duration", time.Since(start)).
		Msg("chat completion")

	return content, nil
}

// callOpenAICompatible handles groq and openai, which share the
// chat/completions wire format.
func (c *Client) callOpenAICompatible(ctx context.Context, system string, messages []Message) (string, error) {
	url := groqURL
	if c.cfg.Provider == "openai" {
		url = openaiURL
	}

	wireMessages := make([]Message, 0, len(messages)+1)
	wireMessages = append(wireMessages, Message{Role: "system", Content: system})
	wireMessages = append(wireMessages, messages...)

	reqBody := map[string]interface{}{
		"model":       c.cfg.Model,
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": c.cfg.Temperature,
		"messages":    wireMessages,
	}

	body, err := c.post(ctx, url, reqBody, map[string]string{
		"Authorization": "Bearer " + c.cfg.APIKey,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("llm: decode %s response: %w", c.cfg.Provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response from %s", c.cfg.Provider)
	}

	return resp.Choices[0].Message.Content, nil
}

// callClaude makes a request in the Anthropic messages format.
func (c *Client) callClaude(ctx context.Context, system string, messages []Message) (string, error) {
	reqBody := map[string]interface{}{
		"model":       c.cfg.Model,
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": c.cfg.Temperature,
		"system":      system,
		"messages":    messages,
	}

	body, err := c.post(ctx, claudeURL, reqBody, map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": "2023-06-01",
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("llm: decode claude response: %w", err)
	}

	var content string
	for _, part := range resp.Content {
		if part.Type == "text" {
			content += part.Text
		}
	}
	if content == "" {
		return "", fmt.Errorf("llm: empty response from claude")
	}

	return content, nil
}

func (c *Client) post(ctx context.Context, url string, reqBody interface{}, headers map[string]string) ([]byte, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm: %s request failed: %w", c.cfg.Provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("llm: %s API error %d: %s", c.cfg.Provider, resp.StatusCode, string(body))
	}

	return body, nil
}
