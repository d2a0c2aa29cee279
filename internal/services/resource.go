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

type ResourceService interface {
	GetByScenarioID(ctx context.Context, scenarioID uuid.UUID) ([]canonical.Resource, error)
	// SaveAll reconciles the bibliography as a batch, assigning each
	// surviving entry its dense position as the weight.
	SaveAll(ctx context.Context, scenarioID uuid.UUID, resources []canonical.Resource) ([]canonical.Resource, error)
}

type resourceService struct {
	db        *gorm.DB
	log       *logger.Logger
	repo      repos.ResourceRepo
	changeLog ChangeLogService
	cache     *cache.Cache
}

func NewResourceService(db *gorm.DB, baseLog *logger.Logger, repo repos.ResourceRepo, changeLog ChangeLogService, c *cache.Cache) ResourceService {
	return &resourceService{
		db:        db,
		log:       baseLog.With("service", "ResourceService"),
		repo:      repo,
		changeLog: changeLog,
		cache:     c,
	}
}

func (s *resourceService) GetByScenarioID(ctx context.Context, scenarioID uuid.UUID) ([]canonical.Resource, error) {
	rows, err := s.repo.GetByScenarioID(ctx, nil, scenarioID)
	if err != nil {
		return nil, err
	}
	resources := make([]canonical.Resource, 0, len(rows))
	for _, row := range rows {
		resources = append(resources, canonical.HydrateResource(row))
	}
	return resources, nil
}

func (s *resourceService) SaveAll(ctx context.Context, scenarioID uuid.UUID, resources []canonical.Resource) ([]canonical.Resource, error) {
	for i := range resources {
		if err := resources[i].Validate(); err != nil {
			return nil, apierr.New(http.StatusUnprocessableEntity, "invalid_resource", err)
		}
	}

	previous, err := s.GetByScenarioID(ctx, scenarioID)
	if err != nil {
		return nil, err
	}

	res := reconcile.Partition(previous, resources,
		func(r canonical.Resource) *uuid.UUID { return r.ID },
		func(r *canonical.Resource, order int) { r.Weight = order })

	if err := s.repo.DeleteByIDs(ctx, nil, res.ToDelete); err != nil {
		return nil, &reconcile.OpError{Op: reconcile.OpDelete, Err: err}
	}
	for i := range res.ToUpdate {
		row := canonical.DehydrateResource(&res.ToUpdate[i], scenarioID)
		if _, err := s.repo.Update(ctx, nil, &row); err != nil {
			return nil, &reconcile.OpError{Op: reconcile.OpUpdate, Err: err}
		}
	}
	inserts := make([]*types.Resource, 0, len(res.ToInsert))
	for i := range res.ToInsert {
		row := canonical.DehydrateResource(&res.ToInsert[i], scenarioID)
		row.ID = uuid.Nil
		inserts = append(inserts, &row)
	}
	if _, err := s.repo.Create(ctx, nil, inserts); err != nil {
		return nil, &reconcile.OpError{Op: reconcile.OpInsert, Err: err}
	}

	s.cache.Invalidate(ctx, cache.ScenarioKey(scenarioID))
	s.changeLog.Emit(ctx, scenarioID, types.ChangeResources, "Bibliografía actualizada", map[string]any{
		"inserted": len(res.ToInsert),
		"updated":  len(res.ToUpdate),
		"deleted":  len(res.ToDelete),
	})

	return s.GetByScenarioID(ctx, scenarioID)
}
