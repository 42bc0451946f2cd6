package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Lynn3t/my-takeoff-2026/internal/core/domain"
)

const (
	defaultModel   = "gpt-3.5-turbo"
	defaultTimeout = 45 * time.Second

	temperature = 0.7
	maxTokens   = 1000

	// How much of an upstream error body is worth relaying.
	errorBodyLimit = 200
)

type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

func (c Config) Configured() bool {
	return c.Endpoint != "" && c.APIKey != ""
}

// Client talks to an OpenAI-compatible chat-completions endpoint. The
// service is treated as slow and unreliable: every call carries a hard
// timeout and failures map to retryable domain errors.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

func (c *Client) Configured() bool {
	return c.cfg.Configured()
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompts and returns the model's prose, trimmed. The
// output is free text only; callers must not treat it as a source of
// numbers.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.cfg.Configured() {
		return "", domain.ErrNarrativeNotConfigured
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ChatCompletionsEndpoint(c.cfg.Endpoint), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.ErrNarrativeTimeout
		}
		return "", fmt.Errorf("%w: %v", domain.ErrNarrativeUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrNarrativeUnavailable, resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNarrativeBadResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return "", domain.ErrNarrativeBadResponse
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// ChatCompletionsEndpoint normalizes a configured base URL so it ends in
// /chat/completions exactly once, preserving any query string.
func ChatCompletionsEndpoint(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" {
		base, query, hasQuery := strings.Cut(endpoint, "?")
		full := appendChatPath(base)
		if hasQuery {
			return full + "?" + query
		}
		return full
	}

	u.Path = appendChatPath(u.Path)
	return u.String()
}

func appendChatPath(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if strings.HasSuffix(trimmed, "/chat/completions") {
		return trimmed
	}
	return trimmed + "/chat/completions"
}
