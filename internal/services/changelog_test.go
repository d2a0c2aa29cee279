package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/requestdata"
	"github.com/medsimlab/scenariohub-backend/internal/types"
)

type stubChangeLogRepo struct {
	mu      sync.Mutex
	entries []*types.ScenarioChangeLog
	delay   time.Duration
	err     error
}

func (r *stubChangeLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.ScenarioChangeLog) (*types.ScenarioChangeLog, error) {
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *stubChangeLogRepo) RecentByScenarioID(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID, limit int) ([]*types.ScenarioChangeLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries, nil
}

func (r *stubChangeLogRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestEmitRecordsActorFromContext(t *testing.T) {
	repo := &stubChangeLogRepo{}
	svc := NewChangeLogService(nil, testLogger(t), repo, time.Second, time.Second)

	userID := uuid.New()
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID:      userID,
		DisplayName: "Dra. Ruiz",
	})
	scenarioID := uuid.New()
	svc.Emit(ctx, scenarioID, types.ChangeBrief, "Caso clínico actualizado", map[string]any{"changes": 3})

	if repo.count() != 1 {
		t.Fatalf("entries=%d, want 1", repo.count())
	}
	entry := repo.entries[0]
	if entry.ScenarioID != scenarioID || entry.Category != types.ChangeBrief {
		t.Fatalf("entry=%+v", entry)
	}
	if entry.ActorID == nil || *entry.ActorID != userID || entry.ActorName != "Dra. Ruiz" {
		t.Fatalf("actor not carried: %+v", entry)
	}
	if len(entry.Meta) == 0 {
		t.Fatalf("meta not recorded")
	}
}

func TestEmitAnonymousWhenNoRequestData(t *testing.T) {
	repo := &stubChangeLogRepo{}
	svc := NewChangeLogService(nil, testLogger(t), repo, time.Second, time.Second)

	svc.Emit(context.Background(), uuid.New(), types.ChangeMetadata, "Metadatos actualizados", nil)

	if repo.count() != 1 {
		t.Fatalf("entries=%d, want 1", repo.count())
	}
	if repo.entries[0].ActorID != nil || repo.entries[0].ActorName != "" {
		t.Fatalf("anonymous emit must not invent an actor: %+v", repo.entries[0])
	}
}

func TestEmitSwallowsRepoErrors(t *testing.T) {
	repo := &stubChangeLogRepo{err: errors.New("connection refused")}
	svc := NewChangeLogService(nil, testLogger(t), repo, time.Second, time.Second)

	// must not panic or block; the failure only gets logged
	svc.Emit(context.Background(), uuid.New(), types.ChangeSteps, "Pasos actualizados", nil)
	if repo.count() != 0 {
		t.Fatalf("entries=%d", repo.count())
	}
}

func TestEmitReturnsWithinWaitBudget(t *testing.T) {
	repo := &stubChangeLogRepo{delay: 300 * time.Millisecond}
	svc := NewChangeLogService(nil, testLogger(t), repo, time.Second, 20*time.Millisecond)

	start := time.Now()
	svc.Emit(context.Background(), uuid.New(), types.ChangeResources, "Bibliografía actualizada", nil)
	elapsed := time.Since(start)

	if elapsed > 200*time.Millisecond {
		t.Fatalf("Emit blocked for %v, want under the wait budget", elapsed)
	}

	// the background attempt still lands
	deadline := time.Now().Add(2 * time.Second)
	for repo.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if repo.count() != 1 {
		t.Fatalf("background insert never landed")
	}
}

func TestEmitOutlivesCallerContext(t *testing.T) {
	repo := &stubChangeLogRepo{delay: 50 * time.Millisecond}
	svc := NewChangeLogService(nil, testLogger(t), repo, time.Second, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Emit(ctx, uuid.New(), types.ChangeQuestions, "Pregunta creada", nil)

	if repo.count() != 1 {
		t.Fatalf("a finished request must not abort the audit write")
	}
}
