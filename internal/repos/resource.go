package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/types"
)

type ResourceRepo interface {
	GetByScenarioID(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID) ([]*types.Resource, error)
	Create(ctx context.Context, tx *gorm.DB, resources []*types.Resource) ([]*types.Resource, error)
	Update(ctx context.Context, tx *gorm.DB, resource *types.Resource) (*types.Resource, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, resourceIDs []uuid.UUID) error
}

type resourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResourceRepo(db *gorm.DB, baseLog *logger.Logger) ResourceRepo {
	repoLog := baseLog.With("repo", "ResourceRepo")
	return &resourceRepo{db: db, log: repoLog}
}

func (r *resourceRepo) GetByScenarioID(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID) ([]*types.Resource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Resource
	if err := transaction.WithContext(ctx).
		Where("scenario_id = ?", scenarioID).
		Order("weight ASC, title ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resourceRepo) Create(ctx context.Context, tx *gorm.DB, resources []*types.Resource) ([]*types.Resource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(resources) == 0 {
		return []*types.Resource{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *resourceRepo) Update(ctx context.Context, tx *gorm.DB, resource *types.Resource) (*types.Resource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Resource{}).
		Where("id = ?", resource.ID).
		Updates(map[string]interface{}{
			"title":       resource.Title,
			"url":         resource.URL,
			"source":      resource.Source,
			"type":        resource.Type,
			"year":        resource.Year,
			"free_access": resource.FreeAccess,
			"weight":      resource.Weight,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return resource, nil
}

func (r *resourceRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, resourceIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(resourceIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", resourceIDs).
		Delete(&types.Resource{}).Error
}
