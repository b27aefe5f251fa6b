package app

import (
	"context"
	"math"
	"strings"
)

// maxEmbeddingChars keeps the input under provider token limits.
const maxEmbeddingChars = 9000

// Embedder produces a raw fixed-dimension vector for a text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingGateway preprocesses text and returns a unit-length query vector.
type EmbeddingGateway struct {
	client Embedder
}

func NewEmbeddingGateway(client Embedder) *EmbeddingGateway {
	return &EmbeddingGateway{client: client}
}

// Embed trims and collapses whitespace, truncates over-long input, obtains
// the vector and normalizes it to unit L2 norm. Empty input (after trimming)
// fails with ErrEmptyInput.
func (g *EmbeddingGateway) Embed(ctx context.Context, text string) ([]float32, error) {
	cleaned := PreprocessText(text)
	if cleaned == "" {
		return nil, ErrEmptyInput
	}

	vec, err := g.client.Embed(ctx, cleaned)
	if err != nil {
		return nil, err
	}
	return Normalize(vec), nil
}

// PreprocessText collapses internal whitespace runs to single spaces and
// truncates to maxEmbeddingChars runes.
func PreprocessText(text string) string {
	cleaned := strings.Join(strings.Fields(text), " ")
	runes := []rune(cleaned)
	if len(runes) > maxEmbeddingChars {
		cleaned = string(runes[:maxEmbeddingChars])
	}
	return cleaned
}

// Normalize scales v to unit L2 norm. The zero vector is returned unchanged
// to avoid division by zero.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
