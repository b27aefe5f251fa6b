package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config holds API settings for the OpenAI-compatible provider that serves
// both embeddings and chat completions.
type Config struct {
	BaseURL            string
	APIKey             string
	ChatModel          string
	EmbeddingModel     string
	EmbeddingDimension int
	RequestTimeout     time.Duration
	MaxRetries         uint64
}

// Client talks to an OpenAI-compatible HTTP API. Calls that fail with a
// transport error or a 5xx status are retried with exponential backoff;
// 4xx responses and malformed payloads are permanent.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if cfg.EmbeddingDimension <= 0 {
		cfg.EmbeddingDimension = 3072
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// EmbeddingModel returns the configured embedding model name.
func (c *Client) EmbeddingModel() string { return c.cfg.EmbeddingModel }

// EmbeddingDimension returns the expected vector length.
func (c *Client) EmbeddingDimension() int { return c.cfg.EmbeddingDimension }

// Embed returns the raw (un-normalized) embedding vector for the given text.
// The vector length is validated against the configured dimension.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := map[string]interface{}{
		"model": c.cfg.EmbeddingModel,
		"input": text,
	}

	var vector []float32
	err := c.withRetry(ctx, func() error {
		raw, err := c.post(ctx, StepEmbedding, "/embeddings", reqBody)
		if err != nil {
			return err
		}

		var parsed struct {
			Data []struct {
				Embedding []float32 `json:"embedding"`
			} `json:"data"`
		}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return backoff.Permanent(&UpstreamError{
				Step:    StepEmbedding,
				Message: fmt.Sprintf("parse embedding json failed: %v", err),
			})
		}
		if len(parsed.Data) == 0 {
			return backoff.Permanent(&UpstreamError{
				Step:    StepEmbedding,
				Message: "empty embedding in response",
			})
		}
		if got := len(parsed.Data[0].Embedding); got != c.cfg.EmbeddingDimension {
			return backoff.Permanent(fmt.Errorf("%w: got %d, want %d",
				ErrEmbeddingDimension, got, c.cfg.EmbeddingDimension))
		}
		vector = parsed.Data[0].Embedding
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vector, nil
}

// Complete sends a single-prompt chat completion and returns the trimmed
// model output.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model": c.cfg.ChatModel,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"stream": false,
	}

	var output string
	err := c.withRetry(ctx, func() error {
		raw, err := c.post(ctx, StepGeneration, "/chat/completions", reqBody)
		if err != nil {
			return err
		}

		var parsed struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return backoff.Permanent(&UpstreamError{
				Step:    StepGeneration,
				Message: fmt.Sprintf("parse completion json failed: %v", err),
			})
		}
		if len(parsed.Choices) == 0 {
			return backoff.Permanent(&UpstreamError{
				Step:    StepGeneration,
				Message: "empty completion choices",
			})
		}
		output = strings.TrimSpace(parsed.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return output, nil
}

// post performs one JSON POST against the provider. Non-2xx responses become
// UpstreamErrors; anything below 500 is permanent.
func (c *Client) post(ctx context.Context, step, path string, body interface{}) ([]byte, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, backoff.Permanent(&UpstreamError{
			Step:    step,
			Message: fmt.Sprintf("marshal request failed: %v", err),
		})
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, backoff.Permanent(&UpstreamError{
			Step:    step,
			Message: fmt.Sprintf("build request failed: %v", err),
		})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Step: step, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Step: step, Message: fmt.Sprintf("read response failed: %v", err)}
	}
	if resp.StatusCode >= 300 {
		ue := &UpstreamError{Step: step, StatusCode: resp.StatusCode, Message: string(raw)}
		if resp.StatusCode < 500 {
			return nil, backoff.Permanent(ue)
		}
		return nil, ue
	}
	return raw, nil
}

func (c *Client) withRetry(ctx context.Context, op backoff.Operation) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 0
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, c.cfg.MaxRetries), ctx))
}
