// Package groq implements the AI client against the Groq OpenAI-compatible
// chat completions endpoint.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/crisp-ai/interview-assistant/internal/adapter/ai/tokencount"
	"github.com/crisp-ai/interview-assistant/internal/adapter/observability"
	"github.com/crisp-ai/interview-assistant/internal/config"
	"github.com/crisp-ai/interview-assistant/internal/domain"
	"github.com/crisp-ai/interview-assistant/pkg/textx"
)

// jsonOnlySuffix is appended to every outbound prompt.
const jsonOnlySuffix = "\n\nONLY return valid JSON. No commentary."

// Client implements domain.AIClient over the Groq chat completions API.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a chat client with the configured per-call timeout.
func New(cfg config.Config) *Client {
	return &Client{
		cfg: cfg,
		hc: &http.Client{
			Timeout:   cfg.AITimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
}

// retryableError marks upstream statuses worth one more attempt.
type retryableError struct{ err error }

func (e retryableError) Error() string { return e.err.Error() }
func (e retryableError) Unwrap() error { return e.err }

// Chat sends a single-user-message completion request and returns the raw
// completion text. A missing API key fails fast so callers fall back without
// waiting on the network.
func (c *Client) Chat(ctx domain.Context, prompt string, maxTokens int) (string, error) {
	if c.cfg.GroqAPIKey == "" {
		return "", fmt.Errorf("%w: GROQ_API_KEY not configured", domain.ErrMissingAPIKey)
	}

	tr := otel.Tracer("ai.groq")
	ctx, span := tr.Start(ctx, "groq.chat")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.model", c.cfg.ChatModel),
		attribute.Int("ai.max_tokens", maxTokens),
	)

	body := chatRequest{
		Model:       c.cfg.ChatModel,
		Messages:    []chatMessage{{Role: "user", Content: prompt + jsonOnlySuffix}},
		MaxTokens:   maxTokens,
		Temperature: c.cfg.Temperature,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: marshal chat request: %v", domain.ErrInternal, err)
	}

	expo := backoff.NewExponentialBackOff()
	maxElapsed, initial, maxIvl, mult := c.cfg.GetAIBackoffConfig()
	expo.MaxElapsedTime = maxElapsed
	expo.InitialInterval = initial
	expo.MaxInterval = maxIvl
	expo.Multiplier = mult

	var content string
	op := func() error {
		var opErr error
		content, opErr = c.doChat(ctx, payload)
		if opErr != nil {
			var re retryableError
			if errors.As(opErr, &re) {
				return opErr
			}
			return backoff.Permanent(opErr)
		}
		return nil
	}
	err = backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(expo, uint64(c.cfg.AIMaxRetries)), ctx))
	if err != nil {
		observability.RecordAIFailure("chat")
		return "", err
	}

	usage := tokencount.DefaultCounter.CalculateUsage(prompt, content, c.cfg.ChatModel)
	slog.Debug("chat completion ok",
		slog.String("model", c.cfg.ChatModel),
		slog.Int("prompt_tokens", usage.PromptTokens),
		slog.Int("completion_tokens", usage.CompletionTokens),
		slog.String("preview", textx.Preview(content, 200)))
	return content, nil
}

func (c *Client) doChat(ctx context.Context, payload []byte) (string, error) {
	stop := observability.StartAIRequest("chat")
	defer stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GroqBaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: build chat request: %v", domain.ErrInternal, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.GroqAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
		}
		return "", retryableError{fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read chat response: %v", domain.ErrInternal, err)
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", retryableError{fmt.Errorf("%w: status 429", domain.ErrUpstreamRateLimit)}
	case resp.StatusCode >= 500:
		return "", retryableError{fmt.Errorf("%w: status %d", domain.ErrUpstreamTimeout, resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrMalformedResponse, resp.StatusCode, textx.Preview(string(raw), 200))
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return "", fmt.Errorf("%w: decode chat response: %v", domain.ErrMalformedResponse, err)
	}
	if len(cr.Choices) == 0 {
		// surface the whole body; the extractor may still salvage something
		return string(raw), nil
	}
	if cr.Choices[0].Message.Content != "" {
		return cr.Choices[0].Message.Content, nil
	}
	return cr.Choices[0].Text, nil
}
