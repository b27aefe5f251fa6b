package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAnswer(t *testing.T) {
	t.Run("valid json with duplicate ids", func(t *testing.T) {
		got := ParseAnswer(`{"answer":"hi","resource_id":["a","a","b"]}`)
		assert.Equal(t, "hi", got.Answer)
		assert.ElementsMatch(t, []string{"a", "b"}, got.ResourceIDs)
	})

	t.Run("plain text fallback", func(t *testing.T) {
		got := ParseAnswer("no json here")
		assert.Equal(t, "no json here", got.Answer)
		assert.Empty(t, got.ResourceIDs)
	})

	t.Run("json embedded in prose", func(t *testing.T) {
		raw := "Sure, here you go: {\"answer\":\"founded in 2020\",\"resource_id\":[\"r1\"]} hope that helps"
		got := ParseAnswer(raw)
		assert.Equal(t, "founded in 2020", got.Answer)
		assert.Equal(t, []string{"r1"}, got.ResourceIDs)
	})

	t.Run("missing answer field falls back to raw", func(t *testing.T) {
		got := ParseAnswer(`{"resource_id":["r1"]}`)
		assert.Equal(t, `{"resource_id":["r1"]}`, got.Answer)
		assert.Equal(t, []string{"r1"}, got.ResourceIDs)
	})

	t.Run("malformed json falls back", func(t *testing.T) {
		got := ParseAnswer(`{"answer": "broken`)
		assert.Equal(t, `{"answer": "broken`, got.Answer)
		assert.Empty(t, got.ResourceIDs)
	})

	t.Run("non-string resource ids fall back", func(t *testing.T) {
		got := ParseAnswer(`{"answer":"x","resource_id":[1,2]}`)
		assert.Equal(t, `{"answer":"x","resource_id":[1,2]}`, got.Answer)
		assert.Empty(t, got.ResourceIDs)
	})

	t.Run("output is trimmed", func(t *testing.T) {
		got := ParseAnswer("  some prose  \n")
		assert.Equal(t, "some prose", got.Answer)
	})
}
