package titles

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

	"showrunner/internal/config"
)

const defaultHTTPTimeout = 60 * time.Second

const suggestionPrompt = "We are a web development podcast. Given a working episode title, " +
	"produce 10 increasingly clickbaity candidate titles sorted from least to most clickbaity. " +
	"Respond with a JSON array of strings and nothing else."

// Client wraps the chat completion API used for title suggestions.
type Client struct {
	cfg        config.Titles
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

// NewClient constructs a title-suggestion client from config.
func NewClient(cfg config.Titles, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Enabled reports whether title suggestions are configured.
func (c *Client) Enabled() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Suggest asks the model for candidate episode titles ordered from least to
// most clickbaity. The model must answer with a bare JSON array of strings;
// anything else is an error.
func (c *Client) Suggest(ctx context.Context, workingTitle string) ([]string, error) {
	workingTitle = strings.TrimSpace(workingTitle)
	if workingTitle == "" {
		return nil, errors.New("titles: working title required")
	}
	if !c.Enabled() {
		return nil, errors.New("titles: api key required (set titles.api_key)")
	}

	payload := chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: suggestionPrompt},
			{Role: "user", Content: workingTitle},
		},
		Temperature: 0,
		MaxTokens:   1000,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("titles: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("titles: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.cfg.APIKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("titles: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("titles: http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("titles: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New("titles: empty completion")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	var suggestions []string
	if err := json.Unmarshal([]byte(content), &suggestions); err != nil {
		return nil, fmt.Errorf("titles: model did not return a JSON array: %w", err)
	}
	if len(suggestions) == 0 {
		return nil, errors.New("titles: model returned no suggestions")
	}
	return suggestions, nil
}
