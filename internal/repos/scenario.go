package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/types"
)

// ErrStaleSnapshot is returned when an update carries an expected updated_at
// that no longer matches the row, meaning someone else saved in between.
var ErrStaleSnapshot = errors.New("scenario was modified by someone else")

type ScenarioRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID) (*types.Scenario, error)
	// List returns every scenario, most recently updated first.
	List(ctx context.Context, tx *gorm.DB) ([]*types.Scenario, error)
	// Update saves the row. A non-zero expectedUpdatedAt arms the stale
	// guard: the write only lands if the stored updated_at still matches.
	Update(ctx context.Context, tx *gorm.DB, scenario *types.Scenario, expectedUpdatedAt time.Time) (*types.Scenario, error)
}

type scenarioRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScenarioRepo(db *gorm.DB, baseLog *logger.Logger) ScenarioRepo {
	repoLog := baseLog.With("repo", "ScenarioRepo")
	return &scenarioRepo{db: db, log: repoLog}
}

func (r *scenarioRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Scenario, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Scenario
	if err := transaction.WithContext(ctx).
		Order("updated_at DESC").
		Order("title ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scenarioRepo) GetByID(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID) (*types.Scenario, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Scenario
	if err := transaction.WithContext(ctx).
		Where("id = ?", scenarioID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *scenarioRepo) Update(ctx context.Context, tx *gorm.DB, scenario *types.Scenario, expectedUpdatedAt time.Time) (*types.Scenario, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Scenario{}).
		Where("id = ?", scenario.ID)
	if !expectedUpdatedAt.IsZero() {
		query = query.Where("updated_at = ?", expectedUpdatedAt)
	}

	res := query.Updates(map[string]interface{}{
		"title":             scenario.Title,
		"summary":           scenario.Summary,
		"status":            scenario.Status,
		"mode":              scenario.Mode,
		"level":             scenario.Level,
		"difficulty":        scenario.Difficulty,
		"estimated_minutes": scenario.EstimatedMinutes,
		"max_attempts":      scenario.MaxAttempts,
		"updated_at":        time.Now().UTC(),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if !expectedUpdatedAt.IsZero() {
			return nil, ErrStaleSnapshot
		}
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, transaction, scenario.ID)
}
