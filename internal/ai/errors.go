package ai

import (
	"errors"
	"fmt"
)

// Pipeline steps, used to map upstream failures to HTTP statuses at the
// transport layer.
const (
	StepEmbedding  = "embedding"
	StepGeneration = "generation"
)

// ErrEmbeddingDimension marks an embedding whose length does not match the
// configured dimension. Never retried.
var ErrEmbeddingDimension = errors.New("embedding dimension mismatch")

// UpstreamError carries diagnostics from a failed provider call. StatusCode
// is zero for transport-level failures.
type UpstreamError struct {
	Step       string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s upstream status %d: %s", e.Step, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s upstream failed: %s", e.Step, e.Message)
}

// IsUpstream reports whether err is an UpstreamError for the given step;
// an empty step matches any step.
func IsUpstream(err error, step string) bool {
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		return false
	}
	return step == "" || ue.Step == step
}
