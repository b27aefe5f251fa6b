package repository

import (
	"fmt"

	"gorm.io/gorm"

	"kbassist/internal/model"
)

// TurnRepository writes the conversation archive consumed from the queue.
type TurnRepository struct {
	db *gorm.DB
}

func NewTurnRepository(db *gorm.DB) *TurnRepository {
	return &TurnRepository{db: db}
}

func (r *TurnRepository) Create(rec *model.TurnRecord) error {
	if err := r.db.Create(rec).Error; err != nil {
		return fmt.Errorf("create turn record failed: %w", err)
	}
	return nil
}

func (r *TurnRepository) ListBySessionID(sessionID string, limit int) ([]model.TurnRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var records []model.TurnRecord
	if err := r.db.Where("session_id = ?", sessionID).Order("created_at ASC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list turn records failed: %w", err)
	}
	return records, nil
}
