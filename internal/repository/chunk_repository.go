package repository

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gorm.io/gorm"

	"kbassist/internal/model"
)

// ChunkRepository is the similarity-search store. Ranking happens entirely
// here: callers hand over a query vector and a limit and trust the returned
// order and scores.
type ChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) Create(chunk *model.KnowledgeChunk) error {
	if err := r.db.Create(chunk).Error; err != nil {
		return fmt.Errorf("create knowledge chunk failed: %w", err)
	}
	return nil
}

func (r *ChunkRepository) CreateBatch(chunks []model.KnowledgeChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := r.db.Create(&chunks).Error; err != nil {
		return fmt.Errorf("create knowledge chunks batch failed: %w", err)
	}
	return nil
}

func (r *ChunkRepository) DeleteByResourceID(resourceID string) error {
	if err := r.db.Where("resource_id = ?", resourceID).Delete(&model.KnowledgeChunk{}).Error; err != nil {
		return fmt.Errorf("delete knowledge chunks failed: %w", err)
	}
	return nil
}

// SearchTopK returns up to limit chunks ranked by descending cosine
// similarity to the query vector. An empty knowledge base yields an empty
// slice, not an error.
func (r *ChunkRepository) SearchTopK(ctx context.Context, query []float32, limit int) ([]model.RetrievedChunk, error) {
	if limit <= 0 {
		return nil, nil
	}

	var chunks []model.KnowledgeChunk
	if err := r.db.WithContext(ctx).Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("load knowledge chunks failed: %w", err)
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	type scored struct {
		chunk model.KnowledgeChunk
		score float32
	}
	ranked := make([]scored, 0, len(chunks))
	for i := range chunks {
		ranked = append(ranked, scored{
			chunk: chunks[i],
			score: cosineSimilarity(query, chunks[i].EmbeddingVector()),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if limit > len(ranked) {
		limit = len(ranked)
	}

	results := make([]model.RetrievedChunk, limit)
	for i := 0; i < limit; i++ {
		results[i] = model.RetrievedChunk{
			Rank:       i + 1,
			Content:    ranked[i].chunk.Content,
			Similarity: ranked[i].score,
			ResourceID: ranked[i].chunk.ResourceID,
		}
	}
	return results, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
