package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kbassist/internal/model"
)

// ResourceRepository reads the resource catalog.
type ResourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// ListByIDs fetches catalog records for the given ids in one query. Ids with
// no matching record are simply absent from the result.
func (r *ResourceRepository) ListByIDs(ctx context.Context, ids []string) ([]model.Resource, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var resources []model.Resource
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&resources).Error; err != nil {
		return nil, fmt.Errorf("list resources by ids failed: %w", err)
	}
	return resources, nil
}

func (r *ResourceRepository) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	var resource model.Resource
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&resource).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get resource failed: %w", err)
	}
	return &resource, nil
}
