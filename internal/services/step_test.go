package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsimlab/scenariohub-backend/internal/canonical"
	"github.com/medsimlab/scenariohub-backend/internal/reconcile"
	"github.com/medsimlab/scenariohub-backend/internal/types"
)

type stubStepRepo struct {
	steps     map[uuid.UUID]*types.Step
	updateErr error
	createErr error
	deleteErr error
}

func newStubStepRepo() *stubStepRepo {
	return &stubStepRepo{steps: map[uuid.UUID]*types.Step{}}
}

func (r *stubStepRepo) GetByScenarioID(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID) ([]*types.Step, error) {
	var out []*types.Step
	for _, s := range r.steps {
		if s.ScenarioID == scenarioID {
			out = append(out, s)
		}
	}
	for i := range out {
		for j := i + 1; j < len(out); j++ {
			if out[j].StepOrder < out[i].StepOrder {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *stubStepRepo) GetByIDs(ctx context.Context, tx *gorm.DB, stepIDs []uuid.UUID) ([]*types.Step, error) {
	var out []*types.Step
	for _, id := range stepIDs {
		if s, ok := r.steps[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubStepRepo) Create(ctx context.Context, tx *gorm.DB, steps []*types.Step) ([]*types.Step, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, s := range steps {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		r.steps[s.ID] = s
	}
	return steps, nil
}

func (r *stubStepRepo) Update(ctx context.Context, tx *gorm.DB, step *types.Step) (*types.Step, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	if _, ok := r.steps[step.ID]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	r.steps[step.ID] = step
	return step, nil
}

func (r *stubStepRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, stepIDs []uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for _, id := range stepIDs {
		delete(r.steps, id)
	}
	return nil
}

type stubQuestionRepo struct {
	questions map[uuid.UUID]*types.Question
}

func newStubQuestionRepo() *stubQuestionRepo {
	return &stubQuestionRepo{questions: map[uuid.UUID]*types.Question{}}
}

func (r *stubQuestionRepo) Create(ctx context.Context, tx *gorm.DB, q *types.Question) (*types.Question, error) {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	r.questions[q.ID] = q
	return q, nil
}

func (r *stubQuestionRepo) GetByID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (*types.Question, error) {
	q, ok := r.questions[questionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return q, nil
}

func (r *stubQuestionRepo) GetByStepIDs(ctx context.Context, tx *gorm.DB, stepIDs []uuid.UUID) ([]*types.Question, error) {
	var out []*types.Question
	for _, id := range stepIDs {
		for _, q := range r.questions {
			if q.StepID == id {
				out = append(out, q)
			}
		}
	}
	return out, nil
}

func (r *stubQuestionRepo) Update(ctx context.Context, tx *gorm.DB, q *types.Question) (*types.Question, error) {
	if _, ok := r.questions[q.ID]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	r.questions[q.ID] = q
	return q, nil
}

func (r *stubQuestionRepo) Delete(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) error {
	delete(r.questions, questionID)
	return nil
}

type noopChangeLog struct {
	emitted []types.ChangeCategory
}

func (n *noopChangeLog) Emit(ctx context.Context, scenarioID uuid.UUID, category types.ChangeCategory, description string, meta map[string]any) {
	n.emitted = append(n.emitted, category)
}

func (n *noopChangeLog) Recent(ctx context.Context, scenarioID uuid.UUID, limit int) ([]*types.ScenarioChangeLog, error) {
	return nil, nil
}

func TestSaveAllReconcilesWorkingSet(t *testing.T) {
	scenarioID := uuid.New()
	stepRepo := newStubStepRepo()
	keptID, droppedID := uuid.New(), uuid.New()
	stepRepo.steps[keptID] = &types.Step{ID: keptID, ScenarioID: scenarioID, StepOrder: 1, Description: "valorar"}
	stepRepo.steps[droppedID] = &types.Step{ID: droppedID, ScenarioID: scenarioID, StepOrder: 2, Description: "descartar"}

	audit := &noopChangeLog{}
	svc := NewStepService(nil, testLogger(t), stepRepo, newStubQuestionRepo(), audit, nil)

	next := []canonical.Step{
		{Description: "nuevo primer paso"},
		{ID: &keptID, Description: "valorar de nuevo"},
	}
	saved, err := svc.SaveAll(context.Background(), scenarioID, next)
	if err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	if len(saved) != 2 {
		t.Fatalf("saved=%d steps", len(saved))
	}
	if saved[0].Order != 1 || saved[1].Order != 2 {
		t.Fatalf("order not dense: %+v", saved)
	}
	if saved[0].Description != "nuevo primer paso" {
		t.Fatalf("position in the submitted set must win: %+v", saved[0])
	}
	if saved[1].ID == nil || *saved[1].ID != keptID {
		t.Fatalf("surviving step lost its identity: %+v", saved[1])
	}
	if _, ok := stepRepo.steps[droppedID]; ok {
		t.Fatalf("omitted step must be deleted")
	}
	if len(audit.emitted) != 1 || audit.emitted[0] != types.ChangeSteps {
		t.Fatalf("emitted=%v", audit.emitted)
	}
}

func TestSaveAllRejectsInvalidStepBeforeTouchingStore(t *testing.T) {
	scenarioID := uuid.New()
	stepRepo := newStubStepRepo()
	existing := uuid.New()
	stepRepo.steps[existing] = &types.Step{ID: existing, ScenarioID: scenarioID, StepOrder: 1, Description: "valorar"}

	svc := NewStepService(nil, testLogger(t), stepRepo, newStubQuestionRepo(), &noopChangeLog{}, nil)

	_, err := svc.SaveAll(context.Background(), scenarioID, []canonical.Step{{Description: "  "}})
	if err == nil {
		t.Fatalf("blank description must fail validation")
	}
	if _, ok := stepRepo.steps[existing]; !ok {
		t.Fatalf("validation failure must not delete anything")
	}
}

func TestSaveAllLabelsFailedPhase(t *testing.T) {
	scenarioID := uuid.New()
	existing := uuid.New()

	cases := []struct {
		name   string
		arm    func(*stubStepRepo)
		wantOp reconcile.Op
	}{
		{"delete_phase", func(r *stubStepRepo) { r.deleteErr = errors.New("deadlock") }, reconcile.OpDelete},
		{"update_phase", func(r *stubStepRepo) { r.updateErr = errors.New("deadlock") }, reconcile.OpUpdate},
		{"insert_phase", func(r *stubStepRepo) { r.createErr = errors.New("deadlock") }, reconcile.OpInsert},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stepRepo := newStubStepRepo()
			stepRepo.steps[existing] = &types.Step{ID: existing, ScenarioID: scenarioID, StepOrder: 1, Description: "valorar"}
			orphan := uuid.New()
			stepRepo.steps[orphan] = &types.Step{ID: orphan, ScenarioID: scenarioID, StepOrder: 2, Description: "sobra"}
			tc.arm(stepRepo)

			svc := NewStepService(nil, testLogger(t), stepRepo, newStubQuestionRepo(), &noopChangeLog{}, nil)
			next := []canonical.Step{
				{ID: &existing, Description: "valorar"},
				{Description: "nuevo"},
			}
			_, err := svc.SaveAll(context.Background(), scenarioID, next)

			var opErr *reconcile.OpError
			if !errors.As(err, &opErr) {
				t.Fatalf("err=%v, want *reconcile.OpError", err)
			}
			if opErr.Op != tc.wantOp {
				t.Fatalf("op=%s, want %s", opErr.Op, tc.wantOp)
			}
		})
	}
}
