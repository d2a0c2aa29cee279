package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/types"
)

type CategoryRepo interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Category, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, categoryIDs []uuid.UUID) ([]*types.Category, error)
	GetLinksByScenarioID(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID) ([]*types.ScenarioCategory, error)
	CreateLinks(ctx context.Context, tx *gorm.DB, links []*types.ScenarioCategory) ([]*types.ScenarioCategory, error)
	DeleteLinks(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID, categoryIDs []uuid.UUID) error
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	repoLog := baseLog.With("repo", "CategoryRepo")
	return &categoryRepo{db: db, log: repoLog}
}

func (r *categoryRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Category
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *categoryRepo) GetByIDs(ctx context.Context, tx *gorm.DB, categoryIDs []uuid.UUID) ([]*types.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Category
	if len(categoryIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", categoryIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *categoryRepo) GetLinksByScenarioID(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID) ([]*types.ScenarioCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ScenarioCategory
	if err := transaction.WithContext(ctx).
		Where("scenario_id = ?", scenarioID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *categoryRepo) CreateLinks(ctx context.Context, tx *gorm.DB, links []*types.ScenarioCategory) ([]*types.ScenarioCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(links) == 0 {
		return []*types.ScenarioCategory{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *categoryRepo) DeleteLinks(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID, categoryIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(categoryIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("scenario_id = ? AND category_id IN ?", scenarioID, categoryIDs).
		Delete(&types.ScenarioCategory{}).Error
}
