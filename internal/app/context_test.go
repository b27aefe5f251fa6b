package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"kbassist/internal/model"
)

func TestBuildContext(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", BuildContext(nil))
		assert.Equal(t, "", BuildContext([]model.RetrievedChunk{}))
	})

	t.Run("ordinal markers in rank order", func(t *testing.T) {
		out := BuildContext([]model.RetrievedChunk{
			{Rank: 1, Content: "first chunk", Similarity: 0.9, ResourceID: "r1"},
			{Rank: 2, Content: "second chunk", Similarity: 0.7, ResourceID: "r2"},
		})

		assert.Contains(t, out, "#1 first chunk")
		assert.Contains(t, out, "#2 second chunk")
		assert.Contains(t, out, "r1")
		assert.Contains(t, out, "r2")
		assert.Less(t, strings.Index(out, "#1"), strings.Index(out, "#2"))
	})
}
