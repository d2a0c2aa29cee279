package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/types"
)

type ChangeLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.ScenarioChangeLog) (*types.ScenarioChangeLog, error)
	RecentByScenarioID(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID, limit int) ([]*types.ScenarioChangeLog, error)
}

type changeLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChangeLogRepo(db *gorm.DB, baseLog *logger.Logger) ChangeLogRepo {
	repoLog := baseLog.With("repo", "ChangeLogRepo")
	return &changeLogRepo{db: db, log: repoLog}
}

func (r *changeLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.ScenarioChangeLog) (*types.ScenarioChangeLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *changeLogRepo) RecentByScenarioID(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID, limit int) ([]*types.ScenarioChangeLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if limit <= 0 {
		limit = 50
	}

	var results []*types.ScenarioChangeLog
	if err := transaction.WithContext(ctx).
		Where("scenario_id = ?", scenarioID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
