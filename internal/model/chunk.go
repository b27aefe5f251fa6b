package model

import (
	"encoding/json"
	"time"
)

// KnowledgeChunk stores a fragment of a resource and its embedding.
// The embedding is kept as a JSON array of float32 for portability across
// MySQL versions without a vector column type.
type KnowledgeChunk struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ResourceID string    `gorm:"size:64;not null;index" json:"resource_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Embedding  string    `gorm:"type:mediumtext" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// EmbeddingVector returns the parsed embedding slice; empty on parse error.
func (c *KnowledgeChunk) EmbeddingVector() []float32 {
	if c.Embedding == "" {
		return nil
	}
	var v []float32
	_ = json.Unmarshal([]byte(c.Embedding), &v)
	return v
}

// SetEmbedding stores the embedding as JSON.
func (c *KnowledgeChunk) SetEmbedding(vec []float32) {
	if len(vec) == 0 {
		c.Embedding = "[]"
		return
	}
	b, _ := json.Marshal(vec)
	c.Embedding = string(b)
}

// RetrievedChunk is one ranked similarity-search hit. Rank starts at 1 and
// follows descending similarity as returned by the store.
type RetrievedChunk struct {
	Rank       int     `json:"rank"`
	Content    string  `json:"content"`
	Similarity float32 `json:"similarity"`
	ResourceID string  `json:"resource_id"`
}
