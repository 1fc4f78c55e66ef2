// Package ollama is a small client for the local Ollama chat runtime used by
// the director, analysis and vision components.
package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// ErrModelNotFound is returned by Show when the runtime does not hold the model.
var ErrModelNotFound = errors.New("ollama: model not found")

// FormatJSON asks the runtime to constrain output to a JSON object.
var FormatJSON = json.RawMessage(`"json"`)

type Message struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ChatRequest struct {
	Model    string          `json:"model"`
	Messages []Message       `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   json.RawMessage `json:"format,omitempty"`
	Options  *Options        `json:"options,omitempty"`
}

type Options struct {
	Temperature *float64 `json:"temperature,omitempty"`
	NumPredict  int      `json:"num_predict,omitempty"`
}

type ChatResponse struct {
	Model   string  `json:"model"`
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

type apiError struct {
	Error string `json:"error"`
}

// Client talks to the Ollama HTTP API. No request timeout is set: model
// calls run until the runtime answers.
type Client struct {
	client *resty.Client
}

// New creates a client for baseURL (e.g. http://localhost:11434).
func New(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json")
	return &Client{client: c}
}

// Show verifies the model is resident in the runtime.
func (c *Client) Show(ctx context.Context, model string) error {
	var apiErr apiError
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"model": model}).
		SetError(&apiErr).
		Post("/api/show")
	if err != nil {
		return fmt.Errorf("ollama show: %w", err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrModelNotFound, model)
	case resp.IsError():
		return fmt.Errorf("ollama show status %d: %s", resp.StatusCode(), apiErr.Error)
	}
	return nil
}

// Chat sends a non-streaming chat request and returns the decoded reply.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	req.Stream = false
	var out ChatResponse
	var apiErr apiError
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&req).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/chat")
	if err != nil {
		return nil, fmt.Errorf("ollama chat: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ollama chat status %d: %s", resp.StatusCode(), apiErr.Error)
	}
	return &out, nil
}

// CompleteJSON sends a single user prompt with JSON output format and returns
// the raw message content.
func (c *Client) CompleteJSON(ctx context.Context, model, prompt string, format json.RawMessage, temperature float64) (string, error) {
	if len(format) == 0 {
		format = FormatJSON
	}
	resp, err := c.Chat(ctx, ChatRequest{
		Model:    model,
		Messages: []Message{{Role: "user", Content: prompt}},
		Format:   format,
		Options:  &Options{Temperature: &temperature},
	})
	if err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}
