package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/repos"
	"github.com/medsimlab/scenariohub-backend/internal/types"
)

// CategoryService is read-only: the engine reconciles links but owns no
// taxonomy semantics.
type CategoryService interface {
	List(ctx context.Context) ([]*types.Category, error)
}

type categoryService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.CategoryRepo
}

func NewCategoryService(db *gorm.DB, baseLog *logger.Logger, repo repos.CategoryRepo) CategoryService {
	return &categoryService{
		db:   db,
		log:  baseLog.With("service", "CategoryService"),
		repo: repo,
	}
}

func (s *categoryService) List(ctx context.Context) ([]*types.Category, error) {
	return s.repo.GetAll(ctx, nil)
}
