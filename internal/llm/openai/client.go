package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"resume-parser/internal/llm"
	"resume-parser/internal/shared/telemetry"
)

// Generation policy for resume parsing. Not configurable per request.
const (
	Temperature = 0.1
	MaxTokens   = 4096
)

const (
	defaultBaseURL = "https://router.huggingface.co/v1"
	defaultTimeout = 120 * time.Second
	maxBodyBytes   = 8 << 20
)

// Client implements llm.Completer against an OpenAI-compatible chat completions API.
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different OpenAI-compatible API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.endpoint = trimmed + "/chat/completions"
		}
	}
}

// WithTimeout bounds each HTTP round trip. Zero leaves the call unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient constructs a chat completions client for a pinned model.
func NewClient(apiKey, model string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("HF_TOKEN is required")
	}
	c := &Client{
		apiKey:     apiKey,
		model:      model,
		endpoint:   defaultBaseURL + "/chat/completions",
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Model returns the pinned model identifier.
func (c *Client) Model() string {
	return c.model
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
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error json.RawMessage `json:"error,omitempty"`
}

// Complete returns the first choice's content exactly as the model produced it.
func (c *Client) Complete(ctx context.Context, prompt llm.Prompt) (string, error) {
	msgs := prompt.Messages()
	reqMessages := make([]chatMessage, 0, len(msgs))
	for _, m := range msgs {
		reqMessages = append(reqMessages, chatMessage{Role: m.Role, Content: m.Content})
	}
	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    reqMessages,
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		return "", &llm.CompletionError{Message: "encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &llm.CompletionError{Message: "build request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		msg := "request failed"
		if isTimeout(err) {
			msg = "request timeout"
		}
		return "", &llm.CompletionError{Message: msg, Transient: isTransient(err), Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &llm.CompletionError{Message: "read response", StatusCode: resp.StatusCode, Transient: isTransient(err), Cause: err}
	}

	var parsed chatResponse
	parseErr := json.Unmarshal(body, &parsed)
	if resp.StatusCode >= 300 {
		detail := strings.TrimSpace(string(body))
		if parseErr == nil {
			if msg := errorMessage(parsed.Error); msg != "" {
				detail = msg
			}
		}
		return "", &llm.CompletionError{
			Message:    truncate(detail, 512),
			StatusCode: resp.StatusCode,
			Transient:  transientStatus(resp.StatusCode),
		}
	}
	if parseErr != nil {
		return "", &llm.CompletionError{Message: "response parse", StatusCode: resp.StatusCode, Cause: parseErr}
	}
	if msg := errorMessage(parsed.Error); msg != "" {
		return "", &llm.CompletionError{Message: msg, StatusCode: resp.StatusCode}
	}
	if len(parsed.Choices) == 0 {
		return "", &llm.CompletionError{Message: "response missing choices", StatusCode: resp.StatusCode}
	}

	logUsage(c.model, &parsed, time.Since(start))
	return parsed.Choices[0].Message.Content, nil
}

// errorMessage reads both {"error":"text"} and {"error":{"message":..,"type":..}} envelopes.
func errorMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var obj struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		if obj.Type != "" {
			return fmt.Sprintf("%s (%s)", obj.Message, obj.Type)
		}
		return obj.Message
	}
	return strings.TrimSpace(string(raw))
}

func transientStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if isTimeout(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "eof")
}

func logUsage(model string, resp *chatResponse, latency time.Duration) {
	fields := map[string]any{
		"model":         model,
		"duration_ms":   float64(latency.Microseconds()) / 1000.0,
		"finish_reason": resp.Choices[0].FinishReason,
	}
	if resp.Usage != nil {
		fields["prompt_tokens"] = resp.Usage.PromptTokens
		fields["completion_tokens"] = resp.Usage.CompletionTokens
		fields["total_tokens"] = resp.Usage.TotalTokens
	}
	telemetry.Info("llm.response", fields)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ llm.Completer = (*Client)(nil)
