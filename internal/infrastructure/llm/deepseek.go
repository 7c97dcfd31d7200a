package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gapscan/internal/config"
	"gapscan/internal/ports"
)

// Failure classes surfaced to callers. These are terminal: the client does
// not retry them.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrBadRequest     = errors.New("malformed request")
)

const maxTokens = 4096

// DeepSeekClient implements ports.Completer against an OpenAI-compatible
// chat-completions endpoint. Transient failures are retried with linearly
// increasing backoff before a single error is surfaced.
type DeepSeekClient struct {
	endpoint   string
	model      string
	apiKey     string
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.Completer = (*DeepSeekClient)(nil)

// NewDeepSeekClient builds a client from configuration.
func NewDeepSeekClient(cfg config.OracleConfig, logger *slog.Logger) *DeepSeekClient {
	return &DeepSeekClient{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelayDuration(),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []ports.Message `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete returns the oracle's free-text completion for the conversation.
func (c *DeepSeekClient) Complete(ctx context.Context, messages []ports.Message, temperature float64) (string, error) {
	return c.complete(ctx, chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
}

// CompleteJSON requests a JSON-constrained completion and decodes the
// payload. When the raw payload is not strictly valid JSON, the first
// balanced object or array substring is extracted before decoding.
func (c *DeepSeekClient) CompleteJSON(ctx context.Context, messages []ports.Message, temperature float64) (map[string]any, error) {
	msgs := withJSONInstruction(messages)

	content, err := c.complete(ctx, chatRequest{
		Model:          c.model,
		Messages:       msgs,
		Temperature:    temperature,
		MaxTokens:      maxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}

	return decodeJSONPayload(content)
}

func (c *DeepSeekClient) complete(ctx context.Context, payload chatRequest) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("oracle client misconfigured: %w", ErrAuthentication)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.retryDelay * time.Duration(attempt)
			c.log("oracle retry", "attempt", attempt, "wait", wait.String(), "error", lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		content, err := c.doRequest(ctx, payload)
		if err == nil {
			return content, nil
		}
		if errors.Is(err, ErrAuthentication) || errors.Is(err, ErrRateLimited) || errors.Is(err, ErrBadRequest) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("oracle request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *DeepSeekClient) doRequest(ctx context.Context, payload chatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal oracle payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send completion request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return "", fmt.Errorf("oracle status %s: %w", resp.Status, ErrAuthentication)
	case http.StatusTooManyRequests:
		return "", fmt.Errorf("oracle status %s: %w", resp.Status, ErrRateLimited)
	case http.StatusBadRequest:
		return "", fmt.Errorf("oracle status %s: %w", resp.Status, ErrBadRequest)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("oracle error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// withJSONInstruction appends a JSON-only reminder to the system message,
// or prepends one when the conversation has no system message.
func withJSONInstruction(messages []ports.Message) []ports.Message {
	const instruction = "IMPORTANT: Return ONLY valid JSON with no additional text."

	msgs := make([]ports.Message, len(messages))
	copy(msgs, messages)

	if len(msgs) > 0 && msgs[0].Role == "system" {
		msgs[0].Content += "\n\n" + instruction
		return msgs
	}

	return append([]ports.Message{{Role: "system", Content: instruction}}, msgs...)
}

func decodeJSONPayload(content string) (map[string]any, error) {
	var result map[string]any
	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return result, nil
	}

	extracted, ok := extractBalancedJSON(content)
	if !ok {
		return nil, fmt.Errorf("no JSON object found in oracle response")
	}

	if err := json.Unmarshal([]byte(extracted), &result); err != nil {
		return nil, fmt.Errorf("invalid JSON in oracle response: %w", err)
	}
	return result, nil
}

// extractBalancedJSON returns the first balanced {...} or [...] substring.
// Braces inside string literals are ignored.
func extractBalancedJSON(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}

	open := s[start]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
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
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

func (c *DeepSeekClient) log(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
