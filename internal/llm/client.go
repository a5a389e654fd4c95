// Package llm is the rationale-text collaborator. It is consumed only for
// human-readable explanation strings, never for scheduling decisions, and is
// fully stubbable for deterministic tests.
package llm

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

	"github.com/shourjoguha/Gainsly-sub000/internal/logger"
)

// Message is one turn of a chat exchange.
type Message struct {
	Role    string `json:"role"` // "system" | "user" | "assistant"
	Content string `json:"content"`
}

// Options control a single chat call.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client produces completion text for a message list.
type Client interface {
	Chat(ctx context.Context, messages []Message, opts Options) (string, error)
}

// Config wires the HTTP client to an OpenAI-compatible endpoint.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

var ErrMissingAPIKey = errors.New("llm: api key not configured")

// httpClient talks to an OpenAI-compatible /chat/completions endpoint.
type httpClient struct {
	log     *logger.Logger
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewHTTPClient builds the production client. The per-call timeout comes from
// Options (or the context), not from the transport.
func NewHTTPClient(cfg Config, log *logger.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &httpClient{
		log:     log.With("component", "llm"),
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		model:   model,
		http:    &http.Client{},
	}, nil
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *httpClient) Chat(ctx context.Context, messages []Message, opts Options) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	model := opts.Model
	if model == "" {
		model = c.model
	}
	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("llm: malformed response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("llm: chat completion failed (%d): %s", resp.StatusCode, msg)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("llm: empty choices in response")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// StaticClient always returns a fixed string. It backs deterministic tests
// and running without an API key.
type StaticClient struct {
	Text string
	Err  error
}

func (s StaticClient) Chat(ctx context.Context, messages []Message, opts Options) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return s.Text, nil
}
