package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/repos"
	"github.com/medsimlab/scenariohub-backend/internal/requestdata"
	"github.com/medsimlab/scenariohub-backend/internal/types"
)

// ChangeLogService records what editors did, strictly best-effort: a save
// must never fail or stall because its audit entry could not be written.
// Emit spends at most the wait budget before returning; the insert attempt
// keeps running in the background up to its own timeout.
type ChangeLogService interface {
	Emit(ctx context.Context, scenarioID uuid.UUID, category types.ChangeCategory, description string, meta map[string]any)
	Recent(ctx context.Context, scenarioID uuid.UUID, limit int) ([]*types.ScenarioChangeLog, error)
}

type changeLogService struct {
	db             *gorm.DB
	log            *logger.Logger
	repo           repos.ChangeLogRepo
	attemptTimeout time.Duration
	waitBudget     time.Duration
}

func NewChangeLogService(db *gorm.DB, baseLog *logger.Logger, repo repos.ChangeLogRepo, attemptTimeout, waitBudget time.Duration) ChangeLogService {
	if attemptTimeout <= 0 {
		attemptTimeout = 5 * time.Second
	}
	if waitBudget <= 0 {
		waitBudget = 800 * time.Millisecond
	}
	return &changeLogService{
		db:             db,
		log:            baseLog.With("service", "ChangeLogService"),
		repo:           repo,
		attemptTimeout: attemptTimeout,
		waitBudget:     waitBudget,
	}
}

func (s *changeLogService) Emit(ctx context.Context, scenarioID uuid.UUID, category types.ChangeCategory, description string, meta map[string]any) {
	actorID, actorName := requestdata.Actor(ctx)

	entry := &types.ScenarioChangeLog{
		ScenarioID:  scenarioID,
		Category:    category,
		Description: description,
		ActorName:   actorName,
	}
	if actorID != uuid.Nil {
		id := actorID
		entry.ActorID = &id
	}
	if len(meta) > 0 {
		entry.Meta = marshalMeta(meta)
	}

	// Detached from the request context: the entry should still land when
	// the caller's request finishes first.
	attemptCtx, cancel := context.WithTimeout(context.Background(), s.attemptTimeout)
	done := make(chan error, 1)
	go func() {
		defer cancel()
		_, err := s.repo.Create(attemptCtx, nil, entry)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			s.log.Warn("change log entry not recorded", "scenario_id", scenarioID, "category", category, "error", err)
		}
	case <-time.After(s.waitBudget):
		s.log.Debug("change log write still pending, not waiting", "scenario_id", scenarioID, "category", category)
	}
}

func (s *changeLogService) Recent(ctx context.Context, scenarioID uuid.UUID, limit int) ([]*types.ScenarioChangeLog, error) {
	return s.repo.RecentByScenarioID(ctx, nil, scenarioID, limit)
}

func marshalMeta(meta map[string]any) datatypes.JSON {
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
