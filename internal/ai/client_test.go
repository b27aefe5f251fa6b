package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, dimension int) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		BaseURL:            server.URL,
		APIKey:             "test-key",
		ChatModel:          "test-chat",
		EmbeddingModel:     "test-embed",
		EmbeddingDimension: dimension,
		MaxRetries:         2,
	})
}

func embeddingResponse(vec []float32) []byte {
	payload := map[string]interface{}{
		"data": []map[string]interface{}{{"embedding": vec}},
	}
	b, _ := json.Marshal(payload)
	return b
}

func TestEmbed(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotAuth string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			assert.Equal(t, "/embeddings", r.URL.Path)
			_, _ = w.Write(embeddingResponse([]float32{1, 2, 3, 4}))
		}, 4)

		vec, err := client.Embed(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 2, 3, 4}, vec)
		assert.Equal(t, "Bearer test-key", gotAuth)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		// Default dimension is 3072; a shorter vector must be rejected.
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(embeddingResponse([]float32{1, 2, 3, 4}))
		}, 0)

		_, err := client.Embed(context.Background(), "hello")
		assert.ErrorIs(t, err, ErrEmbeddingDimension)
	})

	t.Run("client error is not retried", func(t *testing.T) {
		calls := 0
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			calls++
			http.Error(w, "bad key", http.StatusUnauthorized)
		}, 4)

		_, err := client.Embed(context.Background(), "hello")
		var ue *UpstreamError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, http.StatusUnauthorized, ue.StatusCode)
		assert.Equal(t, StepEmbedding, ue.Step)
		assert.Equal(t, 1, calls)
	})

	t.Run("server error is retried", func(t *testing.T) {
		calls := 0
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			calls++
			if calls == 1 {
				http.Error(w, "flaky", http.StatusInternalServerError)
				return
			}
			_, _ = w.Write(embeddingResponse([]float32{1, 2, 3, 4}))
		}, 4)

		vec, err := client.Embed(context.Background(), "hello")
		require.NoError(t, err)
		assert.Len(t, vec, 4)
		assert.Equal(t, 2, calls)
	})

	t.Run("malformed json is permanent", func(t *testing.T) {
		calls := 0
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			calls++
			_, _ = w.Write([]byte("not json"))
		}, 4)

		_, err := client.Embed(context.Background(), "hello")
		assert.True(t, IsUpstream(err, StepEmbedding))
		assert.Equal(t, 1, calls)
	})
}

func TestComplete(t *testing.T) {
	t.Run("success trims output", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)

			var req struct {
				Model    string `json:"model"`
				Messages []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "test-chat", req.Model)
			require.Len(t, req.Messages, 1)
			assert.Equal(t, "user", req.Messages[0].Role)

			payload := map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"content": "  the answer \n"}},
				},
			}
			_ = json.NewEncoder(w).Encode(payload)
		}, 4)

		out, err := client.Complete(context.Background(), "prompt")
		require.NoError(t, err)
		assert.Equal(t, "the answer", out)
	})

	t.Run("upstream failure carries diagnostics", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model overloaded", http.StatusBadRequest)
		}, 4)

		_, err := client.Complete(context.Background(), "prompt")
		var ue *UpstreamError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, StepGeneration, ue.Step)
		assert.Contains(t, ue.Message, "model overloaded")
	})

	t.Run("empty choices", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}, 4)

		_, err := client.Complete(context.Background(), "prompt")
		assert.True(t, IsUpstream(err, StepGeneration))
		assert.False(t, errors.Is(err, ErrEmbeddingDimension))
	})
}
