package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsimlab/scenariohub-backend/internal/apierr"
	"github.com/medsimlab/scenariohub-backend/internal/cache"
	"github.com/medsimlab/scenariohub-backend/internal/canonical"
	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/repos"
	"github.com/medsimlab/scenariohub-backend/internal/types"
)

// QuestionService saves questions one at a time. Questions are deliberately
// outside the batch reconciler: each card has its own save button and its own
// validation lifecycle.
type QuestionService interface {
	Create(ctx context.Context, stepID uuid.UUID, q *canonical.Question) (*canonical.Question, error)
	Update(ctx context.Context, questionID uuid.UUID, q *canonical.Question) (*canonical.Question, error)
	Delete(ctx context.Context, questionID uuid.UUID) error
}

type questionService struct {
	db           *gorm.DB
	log          *logger.Logger
	questionRepo repos.QuestionRepo
	stepRepo     repos.StepRepo
	changeLog    ChangeLogService
	cache        *cache.Cache
}

func NewQuestionService(db *gorm.DB, baseLog *logger.Logger, questionRepo repos.QuestionRepo, stepRepo repos.StepRepo, changeLog ChangeLogService, c *cache.Cache) QuestionService {
	return &questionService{
		db:           db,
		log:          baseLog.With("service", "QuestionService"),
		questionRepo: questionRepo,
		stepRepo:     stepRepo,
		changeLog:    changeLog,
		cache:        c,
	}
}

func (s *questionService) Create(ctx context.Context, stepID uuid.UUID, q *canonical.Question) (*canonical.Question, error) {
	if err := q.Validate(); err != nil {
		return nil, apierr.New(http.StatusUnprocessableEntity, "invalid_question", err)
	}

	step, err := s.stepOf(ctx, stepID)
	if err != nil {
		return nil, err
	}

	q.StepID = stepID
	row := canonical.DehydrateQuestion(q)
	row.ID = uuid.Nil
	created, err := s.questionRepo.Create(ctx, nil, &row)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.ScenarioKey(step.ScenarioID))
	s.changeLog.Emit(ctx, step.ScenarioID, types.ChangeQuestions, "Pregunta creada", map[string]any{
		"step_id":     stepID.String(),
		"question_id": created.ID.String(),
	})

	out := canonical.HydrateQuestion(created)
	out.LocalID = q.LocalID
	return &out, nil
}

func (s *questionService) Update(ctx context.Context, questionID uuid.UUID, q *canonical.Question) (*canonical.Question, error) {
	if err := q.Validate(); err != nil {
		return nil, apierr.New(http.StatusUnprocessableEntity, "invalid_question", err)
	}

	current, err := s.questionRepo.GetByID(ctx, nil, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "question_not_found", err)
		}
		return nil, err
	}
	step, err := s.stepOf(ctx, current.StepID)
	if err != nil {
		return nil, err
	}

	q.StepID = current.StepID
	row := canonical.DehydrateQuestion(q)
	row.ID = questionID
	updated, err := s.questionRepo.Update(ctx, nil, &row)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.ScenarioKey(step.ScenarioID))
	s.changeLog.Emit(ctx, step.ScenarioID, types.ChangeQuestions, "Pregunta actualizada", map[string]any{
		"question_id": questionID.String(),
	})

	out := canonical.HydrateQuestion(updated)
	return &out, nil
}

func (s *questionService) Delete(ctx context.Context, questionID uuid.UUID) error {
	current, err := s.questionRepo.GetByID(ctx, nil, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.New(http.StatusNotFound, "question_not_found", err)
		}
		return err
	}
	step, err := s.stepOf(ctx, current.StepID)
	if err != nil {
		return err
	}

	if err := s.questionRepo.Delete(ctx, nil, questionID); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.ScenarioKey(step.ScenarioID))
	s.changeLog.Emit(ctx, step.ScenarioID, types.ChangeQuestions, "Pregunta eliminada", map[string]any{
		"question_id": questionID.String(),
	})
	return nil
}

func (s *questionService) stepOf(ctx context.Context, stepID uuid.UUID) (*types.Step, error) {
	steps, err := s.stepRepo.GetByIDs(ctx, nil, []uuid.UUID{stepID})
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, apierr.New(http.StatusNotFound, "step_not_found", nil)
	}
	return steps[0], nil
}
