package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/types"
)

type StepRepo interface {
	GetByScenarioID(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID) ([]*types.Step, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, stepIDs []uuid.UUID) ([]*types.Step, error)
	Create(ctx context.Context, tx *gorm.DB, steps []*types.Step) ([]*types.Step, error)
	Update(ctx context.Context, tx *gorm.DB, step *types.Step) (*types.Step, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, stepIDs []uuid.UUID) error
}

type stepRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStepRepo(db *gorm.DB, baseLog *logger.Logger) StepRepo {
	repoLog := baseLog.With("repo", "StepRepo")
	return &stepRepo{db: db, log: repoLog}
}

func (r *stepRepo) GetByScenarioID(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID) ([]*types.Step, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Step
	if err := transaction.WithContext(ctx).
		Where("scenario_id = ?", scenarioID).
		Order("step_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *stepRepo) GetByIDs(ctx context.Context, tx *gorm.DB, stepIDs []uuid.UUID) ([]*types.Step, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Step
	if len(stepIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", stepIDs).
		Order("step_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *stepRepo) Create(ctx context.Context, tx *gorm.DB, steps []*types.Step) ([]*types.Step, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(steps) == 0 {
		return []*types.Step{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&steps).Error; err != nil {
		return nil, err
	}
	return steps, nil
}

func (r *stepRepo) Update(ctx context.Context, tx *gorm.DB, step *types.Step) (*types.Step, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Step{}).
		Where("id = ?", step.ID).
		Updates(map[string]interface{}{
			"step_order":    step.StepOrder,
			"description":   step.Description,
			"narrative":     step.Narrative,
			"role_specific": step.RoleSpecific,
			"roles":         step.Roles,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return step, nil
}

func (r *stepRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, stepIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(stepIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", stepIDs).
		Delete(&types.Step{}).Error
}
