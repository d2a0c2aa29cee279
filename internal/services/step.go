package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsimlab/scenariohub-backend/internal/apierr"
	"github.com/medsimlab/scenariohub-backend/internal/cache"
	"github.com/medsimlab/scenariohub-backend/internal/canonical"
	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/reconcile"
	"github.com/medsimlab/scenariohub-backend/internal/repos"
	"github.com/medsimlab/scenariohub-backend/internal/types"
)

type StepService interface {
	GetByScenarioID(ctx context.Context, scenarioID uuid.UUID) ([]canonical.Step, error)
	// SaveAll reconciles the submitted working set against the stored
	// one: deletes first, then updates, then inserts, each phase labeled
	// so a partial failure names what did and did not land.
	SaveAll(ctx context.Context, scenarioID uuid.UUID, steps []canonical.Step) ([]canonical.Step, error)
}

type stepService struct {
	db           *gorm.DB
	log          *logger.Logger
	stepRepo     repos.StepRepo
	questionRepo repos.QuestionRepo
	changeLog    ChangeLogService
	cache        *cache.Cache
}

func NewStepService(db *gorm.DB, baseLog *logger.Logger, stepRepo repos.StepRepo, questionRepo repos.QuestionRepo, changeLog ChangeLogService, c *cache.Cache) StepService {
	return &stepService{
		db:           db,
		log:          baseLog.With("service", "StepService"),
		stepRepo:     stepRepo,
		questionRepo: questionRepo,
		changeLog:    changeLog,
		cache:        c,
	}
}

func (s *stepService) GetByScenarioID(ctx context.Context, scenarioID uuid.UUID) ([]canonical.Step, error) {
	rows, err := s.stepRepo.GetByScenarioID(ctx, nil, scenarioID)
	if err != nil {
		return nil, err
	}

	steps := make([]canonical.Step, 0, len(rows))
	stepIDs := make([]uuid.UUID, 0, len(rows))
	index := make(map[uuid.UUID]int, len(rows))
	for i, row := range rows {
		steps = append(steps, canonical.HydrateStep(row))
		stepIDs = append(stepIDs, row.ID)
		index[row.ID] = i
	}

	questions, err := s.questionRepo.GetByStepIDs(ctx, nil, stepIDs)
	if err != nil {
		return nil, err
	}
	for _, q := range questions {
		if i, ok := index[q.StepID]; ok {
			steps[i].Questions = append(steps[i].Questions, canonical.HydrateQuestion(q))
		}
	}
	return steps, nil
}

func (s *stepService) SaveAll(ctx context.Context, scenarioID uuid.UUID, steps []canonical.Step) ([]canonical.Step, error) {
	for i := range steps {
		if err := steps[i].Validate(); err != nil {
			return nil, apierr.New(http.StatusUnprocessableEntity, "invalid_step", err)
		}
	}

	previousRows, err := s.stepRepo.GetByScenarioID(ctx, nil, scenarioID)
	if err != nil {
		return nil, err
	}
	previous := make([]canonical.Step, 0, len(previousRows))
	for _, row := range previousRows {
		previous = append(previous, canonical.HydrateStep(row))
	}

	res := reconcile.Partition(previous, steps,
		func(step canonical.Step) *uuid.UUID { return step.ID },
		func(step *canonical.Step, order int) { step.Order = order })

	if err := s.stepRepo.DeleteByIDs(ctx, nil, res.ToDelete); err != nil {
		return nil, &reconcile.OpError{Op: reconcile.OpDelete, Err: err}
	}
	for i := range res.ToUpdate {
		row := canonical.DehydrateStep(&res.ToUpdate[i], scenarioID)
		if _, err := s.stepRepo.Update(ctx, nil, &row); err != nil {
			return nil, &reconcile.OpError{Op: reconcile.OpUpdate, Err: err}
		}
	}
	inserts := make([]*types.Step, 0, len(res.ToInsert))
	for i := range res.ToInsert {
		row := canonical.DehydrateStep(&res.ToInsert[i], scenarioID)
		row.ID = uuid.Nil
		inserts = append(inserts, &row)
	}
	if _, err := s.stepRepo.Create(ctx, nil, inserts); err != nil {
		return nil, &reconcile.OpError{Op: reconcile.OpInsert, Err: err}
	}

	s.cache.Invalidate(ctx, cache.ScenarioKey(scenarioID))
	s.changeLog.Emit(ctx, scenarioID, types.ChangeSteps, "Pasos actualizados", map[string]any{
		"inserted": len(res.ToInsert),
		"updated":  len(res.ToUpdate),
		"deleted":  len(res.ToDelete),
	})

	return s.GetByScenarioID(ctx, scenarioID)
}
