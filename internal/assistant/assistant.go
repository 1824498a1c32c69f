// Package assistant forwards free text to a chat-completion endpoint with a
// fixed instruction and returns the reply verbatim. Nothing it returns is
// trusted: a generated query is just another raw command.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"tableDB/internal/logging"
)

const (
	sqlTemplate      = "Convert the following natural language request into a SQL query:\n%s\nReturn only the SQL statement, with no explanation."
	analysisTemplate = "Analyze the following data and provide insights:\n%s\nKeep the analysis short."
)

var ErrNoAPIKey = errors.New("assistant: no API key configured")

type Client struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	http        *http.Client
}

type Option func(*Client)

func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

func WithTemperature(t float64) Option {
	return func(c *Client) { c.temperature = t }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the transport, e.g. for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(endpoint, apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint:    endpoint,
		apiKey:      apiKey,
		model:       "gpt-3.5-turbo",
		temperature: 0.7,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NaturalToSQL asks for a single SQL statement answering text.
func (c *Client) NaturalToSQL(ctx context.Context, text string) (string, error) {
	return c.complete(ctx, fmt.Sprintf(sqlTemplate, text))
}

// AnalyzeData asks for a short analysis of rendered table data.
func (c *Client) AnalyzeData(ctx context.Context, data string) (string, error) {
	return c.complete(ctx, fmt.Sprintf(analysisTemplate, data))
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("assistant: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("assistant: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant: request: %w", err)
	}
	defer resp.Body.Close()

	logging.DebugContext(ctx, "assistant response",
		"status", resp.StatusCode,
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("assistant: read response: %w", err)
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("assistant: decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("assistant: status %d: %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("assistant: status %d", resp.StatusCode)
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}
