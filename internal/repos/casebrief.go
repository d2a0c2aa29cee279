package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/types"
)

type CaseBriefRepo interface {
	// GetByScenarioID returns nil without error when the scenario has no
	// brief yet.
	GetByScenarioID(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID) (*types.CaseBrief, error)
	// Upsert inserts the row on first save and fully replaces it after,
	// keyed by the scenario. Nil jsonb fields overwrite to SQL NULL.
	Upsert(ctx context.Context, tx *gorm.DB, brief *types.CaseBrief) (*types.CaseBrief, error)
}

type caseBriefRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCaseBriefRepo(db *gorm.DB, baseLog *logger.Logger) CaseBriefRepo {
	repoLog := baseLog.With("repo", "CaseBriefRepo")
	return &caseBriefRepo{db: db, log: repoLog}
}

func (r *caseBriefRepo) GetByScenarioID(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID) (*types.CaseBrief, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.CaseBrief
	err := transaction.WithContext(ctx).
		Where("scenario_id = ?", scenarioID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *caseBriefRepo) Upsert(ctx context.Context, tx *gorm.DB, brief *types.CaseBrief) (*types.CaseBrief, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	existing, err := r.GetByScenarioID(ctx, transaction, brief.ScenarioID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if err := transaction.WithContext(ctx).Create(brief).Error; err != nil {
			return nil, err
		}
		return brief, nil
	}

	brief.ID = existing.ID
	brief.CreatedAt = existing.CreatedAt
	// Save writes every column, which is what lets a cleared field land
	// as NULL instead of keeping its old value.
	if err := transaction.WithContext(ctx).Save(brief).Error; err != nil {
		return nil, err
	}
	return brief, nil
}
