package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/medsimlab/scenariohub-backend/internal/apierr"
	"github.com/medsimlab/scenariohub-backend/internal/cache"
	"github.com/medsimlab/scenariohub-backend/internal/canonical"
	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/reconcile"
	"github.com/medsimlab/scenariohub-backend/internal/repos"
	"github.com/medsimlab/scenariohub-backend/internal/structdiff"
	"github.com/medsimlab/scenariohub-backend/internal/types"
)

// Bundle is everything the editor loads for one scenario in a single call.
type Bundle struct {
	Scenario    *types.Scenario            `json:"scenario"`
	Brief       *canonical.Brief           `json:"brief"`
	Steps       []*types.Step              `json:"steps"`
	Questions   []*types.Question          `json:"questions"`
	Resources   []*types.Resource          `json:"resources"`
	CategoryIDs []uuid.UUID                `json:"category_ids"`
	Changes     []*types.ScenarioChangeLog `json:"changes,omitempty"`
}

// bundleRecentChanges caps how much history rides along with a bundle; the
// dedicated changes endpoint serves deeper pages.
const bundleRecentChanges = 20

type ScenarioService interface {
	List(ctx context.Context) ([]*types.Scenario, error)
	GetBundle(ctx context.Context, scenarioID uuid.UUID) (*Bundle, error)
	UpdateMetadata(ctx context.Context, scenarioID uuid.UUID, m *canonical.Metadata) (*types.Scenario, error)
	SetCategories(ctx context.Context, scenarioID uuid.UUID, categoryIDs []uuid.UUID) ([]uuid.UUID, error)
}

type scenarioService struct {
	db            *gorm.DB
	log           *logger.Logger
	scenarioRepo  repos.ScenarioRepo
	caseBriefRepo repos.CaseBriefRepo
	stepRepo      repos.StepRepo
	questionRepo  repos.QuestionRepo
	resourceRepo  repos.ResourceRepo
	categoryRepo  repos.CategoryRepo
	changeLog     ChangeLogService
	cache         *cache.Cache
	knownRoles    []string
}

func NewScenarioService(
	db *gorm.DB,
	baseLog *logger.Logger,
	scenarioRepo repos.ScenarioRepo,
	caseBriefRepo repos.CaseBriefRepo,
	stepRepo repos.StepRepo,
	questionRepo repos.QuestionRepo,
	resourceRepo repos.ResourceRepo,
	categoryRepo repos.CategoryRepo,
	changeLog ChangeLogService,
	c *cache.Cache,
	knownRoles []string,
) ScenarioService {
	return &scenarioService{
		db:            db,
		log:           baseLog.With("service", "ScenarioService"),
		scenarioRepo:  scenarioRepo,
		caseBriefRepo: caseBriefRepo,
		stepRepo:      stepRepo,
		questionRepo:  questionRepo,
		resourceRepo:  resourceRepo,
		categoryRepo:  categoryRepo,
		changeLog:     changeLog,
		cache:         c,
		knownRoles:    knownRoles,
	}
}

func (s *scenarioService) List(ctx context.Context) ([]*types.Scenario, error) {
	return s.scenarioRepo.List(ctx, nil)
}

func (s *scenarioService) GetBundle(ctx context.Context, scenarioID uuid.UUID) (*Bundle, error) {
	var cached Bundle
	if s.cache.GetJSON(ctx, cache.ScenarioKey(scenarioID), &cached) {
		return &cached, nil
	}

	bundle := &Bundle{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scenario, err := s.scenarioRepo.GetByID(gctx, nil, scenarioID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.New(http.StatusNotFound, "scenario_not_found", err)
			}
			return err
		}
		bundle.Scenario = scenario
		return nil
	})
	g.Go(func() error {
		row, err := s.caseBriefRepo.GetByScenarioID(gctx, nil, scenarioID)
		if err != nil {
			return err
		}
		bundle.Brief = canonical.HydrateBrief(scenarioID, row, s.knownRoles)
		return nil
	})
	g.Go(func() error {
		steps, err := s.stepRepo.GetByScenarioID(gctx, nil, scenarioID)
		if err != nil {
			return err
		}
		bundle.Steps = steps
		stepIDs := make([]uuid.UUID, 0, len(steps))
		for _, step := range steps {
			stepIDs = append(stepIDs, step.ID)
		}
		questions, err := s.questionRepo.GetByStepIDs(gctx, nil, stepIDs)
		if err != nil {
			return err
		}
		bundle.Questions = questions
		return nil
	})
	g.Go(func() error {
		resources, err := s.resourceRepo.GetByScenarioID(gctx, nil, scenarioID)
		if err != nil {
			return err
		}
		bundle.Resources = resources
		return nil
	})
	g.Go(func() error {
		links, err := s.categoryRepo.GetLinksByScenarioID(gctx, nil, scenarioID)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(links))
		for _, link := range links {
			ids = append(ids, link.CategoryID)
		}
		bundle.CategoryIDs = ids
		return nil
	})
	g.Go(func() error {
		changes, err := s.changeLog.Recent(gctx, scenarioID, bundleRecentChanges)
		if err != nil {
			return err
		}
		bundle.Changes = changes
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, cache.ScenarioKey(scenarioID), bundle, cache.ScenarioTTL)
	return bundle, nil
}

// UpdateMetadata saves the scenario header. The canonical model carries the
// updated_at the editor loaded; a mismatch against the stored row means the
// snapshot is stale and the save is rejected instead of silently clobbering
// someone else's work. A save that changes nothing writes nothing.
func (s *scenarioService) UpdateMetadata(ctx context.Context, scenarioID uuid.UUID, m *canonical.Metadata) (*types.Scenario, error) {
	if err := m.Validate(); err != nil {
		return nil, apierr.New(http.StatusUnprocessableEntity, "invalid_metadata", err)
	}

	current, err := s.scenarioRepo.GetByID(ctx, nil, scenarioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "scenario_not_found", err)
		}
		return nil, err
	}

	before := canonical.HydrateMetadata(current)
	changes := structdiff.Diff(structdiff.ToMap(metadataForDiff(&before)), structdiff.ToMap(metadataForDiff(m)))
	if len(changes) == 0 {
		s.log.Debug("metadata unchanged, skipping write", "scenario_id", scenarioID)
		return current, nil
	}

	next := *current
	canonical.ApplyMetadata(&next, m)
	updated, err := s.scenarioRepo.Update(ctx, nil, &next, m.UpdatedAt)
	if err != nil {
		if errors.Is(err, repos.ErrStaleSnapshot) {
			return nil, apierr.New(http.StatusConflict, "stale_snapshot", err)
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.ScenarioKey(scenarioID))
	s.changeLog.Emit(ctx, scenarioID, types.ChangeMetadata, "Metadatos actualizados", map[string]any{"changes": changes})
	return updated, nil
}

// metadataForDiff strips the concurrency token so it never shows up as a
// field change.
func metadataForDiff(m *canonical.Metadata) canonical.Metadata {
	out := *m
	out.Mode = canonical.NormalizeMode(out.Mode)
	out.UpdatedAt = time.Time{}
	return out
}

func (s *scenarioService) SetCategories(ctx context.Context, scenarioID uuid.UUID, categoryIDs []uuid.UUID) ([]uuid.UUID, error) {
	links, err := s.categoryRepo.GetLinksByScenarioID(ctx, nil, scenarioID)
	if err != nil {
		return nil, err
	}

	previous := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		previous = append(previous, link.CategoryID)
	}

	res := reconcile.Partition(previous, dedupe(categoryIDs),
		func(id uuid.UUID) *uuid.UUID { return &id },
		func(*uuid.UUID, int) {})

	if len(res.ToInsert) == 0 && len(res.ToDelete) == 0 {
		return previous, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.categoryRepo.DeleteLinks(ctx, tx, scenarioID, res.ToDelete); err != nil {
			return &reconcile.OpError{Op: reconcile.OpDelete, Err: err}
		}
		newLinks := make([]*types.ScenarioCategory, 0, len(res.ToInsert))
		for _, categoryID := range res.ToInsert {
			newLinks = append(newLinks, &types.ScenarioCategory{ScenarioID: scenarioID, CategoryID: categoryID})
		}
		if _, err := s.categoryRepo.CreateLinks(ctx, tx, newLinks); err != nil {
			return &reconcile.OpError{Op: reconcile.OpInsert, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.ScenarioKey(scenarioID))
	s.changeLog.Emit(ctx, scenarioID, types.ChangeCategories, "Categorías actualizadas", map[string]any{
		"added":   len(res.ToInsert),
		"removed": len(res.ToDelete),
	})

	final := make([]uuid.UUID, 0, len(categoryIDs))
	final = append(final, res.ToUpdate...)
	final = append(final, res.ToInsert...)
	return final, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
