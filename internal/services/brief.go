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
	"github.com/medsimlab/scenariohub-backend/internal/repos"
	"github.com/medsimlab/scenariohub-backend/internal/structdiff"
	"github.com/medsimlab/scenariohub-backend/internal/types"
)

type BriefService interface {
	Get(ctx context.Context, scenarioID uuid.UUID) (*canonical.Brief, error)
	// Save persists the canonical brief, writing only when something
	// actually changed against the stored row.
	Save(ctx context.Context, scenarioID uuid.UUID, brief *canonical.Brief) (*canonical.Brief, error)
}

type briefService struct {
	db         *gorm.DB
	log        *logger.Logger
	repo       repos.CaseBriefRepo
	changeLog  ChangeLogService
	cache      *cache.Cache
	knownRoles []string
}

func NewBriefService(db *gorm.DB, baseLog *logger.Logger, repo repos.CaseBriefRepo, changeLog ChangeLogService, c *cache.Cache, knownRoles []string) BriefService {
	return &briefService{
		db:         db,
		log:        baseLog.With("service", "BriefService"),
		repo:       repo,
		changeLog:  changeLog,
		cache:      c,
		knownRoles: knownRoles,
	}
}

func (s *briefService) Get(ctx context.Context, scenarioID uuid.UUID) (*canonical.Brief, error) {
	var cached canonical.Brief
	if s.cache.GetJSON(ctx, cache.BriefKey(scenarioID), &cached) {
		return &cached, nil
	}

	row, err := s.repo.GetByScenarioID(ctx, nil, scenarioID)
	if err != nil {
		return nil, err
	}
	brief := canonical.HydrateBrief(scenarioID, row, s.knownRoles)
	s.cache.SetJSON(ctx, cache.BriefKey(scenarioID), brief, cache.BriefTTL)
	return brief, nil
}

func (s *briefService) Save(ctx context.Context, scenarioID uuid.UUID, brief *canonical.Brief) (*canonical.Brief, error) {
	if brief == nil {
		return nil, apierr.New(http.StatusBadRequest, "missing_brief", nil)
	}
	brief.ScenarioID = scenarioID

	stored, err := s.repo.GetByScenarioID(ctx, nil, scenarioID)
	if err != nil {
		return nil, err
	}

	next := canonical.DehydrateBrief(brief)

	// Diff the canonical forms, not the raw rows: two byte-level different
	// encodings of the same content must not count as a change.
	before := canonical.HydrateBrief(scenarioID, stored, s.knownRoles)
	after := canonical.HydrateBrief(scenarioID, next, s.knownRoles)
	storedID := before.ID
	before.ID, after.ID = nil, nil
	changes := structdiff.Diff(structdiff.ToMap(before), structdiff.ToMap(after))
	if len(changes) == 0 {
		s.log.Debug("brief unchanged, skipping write", "scenario_id", scenarioID)
		after.ID = storedID
		return after, nil
	}

	if _, err := s.repo.Upsert(ctx, nil, next); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.BriefKey(scenarioID), cache.ScenarioKey(scenarioID))
	s.changeLog.Emit(ctx, scenarioID, types.ChangeBrief, "Caso clínico actualizado", map[string]any{"changes": changes})

	return canonical.HydrateBrief(scenarioID, next, s.knownRoles), nil
}
