package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/medsimlab/scenariohub-backend/internal/canonical"
	"github.com/medsimlab/scenariohub-backend/internal/types"
)

type stubCaseBriefRepo struct {
	stored  *types.CaseBrief
	upserts int
}

func (r *stubCaseBriefRepo) GetByScenarioID(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID) (*types.CaseBrief, error) {
	return r.stored, nil
}

func (r *stubCaseBriefRepo) Upsert(ctx context.Context, tx *gorm.DB, brief *types.CaseBrief) (*types.CaseBrief, error) {
	r.upserts++
	r.stored = brief
	return brief, nil
}

func TestBriefSaveSkipsWriteWhenUnchanged(t *testing.T) {
	scenarioID := uuid.New()
	briefID := uuid.New()
	repo := &stubCaseBriefRepo{stored: &types.CaseBrief{
		ID:         briefID,
		ScenarioID: scenarioID,
		Title:      "Anafilaxia pediátrica",
		Chips:      datatypes.JSON(`["anafilaxia","pediatria"]`),
		History:    datatypes.JSON(`{"Antecedentes":"Asma leve"}`),
	}}
	audit := &noopChangeLog{}
	knownRoles := []string{"MED", "NUR", "PHARM"}
	svc := NewBriefService(nil, testLogger(t), repo, audit, nil, knownRoles)

	// re-submit exactly what is stored
	loaded, err := svc.Get(context.Background(), scenarioID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	saved, err := svc.Save(context.Background(), scenarioID, loaded)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if repo.upserts != 0 {
		t.Fatalf("unchanged brief triggered %d writes, want 0", repo.upserts)
	}
	if saved.ID == nil || *saved.ID != briefID {
		t.Fatalf("unchanged save lost the persisted id: got %v, want %s", saved.ID, briefID)
	}
	if len(audit.emitted) != 0 {
		t.Fatalf("unchanged brief must not produce a change log entry")
	}
}

func TestBriefSaveWritesAndAuditsOnChange(t *testing.T) {
	scenarioID := uuid.New()
	repo := &stubCaseBriefRepo{stored: &types.CaseBrief{
		ID:         uuid.New(),
		ScenarioID: scenarioID,
		Title:      "Anafilaxia pediátrica",
	}}
	audit := &noopChangeLog{}
	svc := NewBriefService(nil, testLogger(t), repo, audit, nil, []string{"MED"})

	edited := canonical.HydrateBrief(scenarioID, repo.stored, []string{"MED"})
	edited.ChiefComplaint = "Dificultad respiratoria súbita"

	saved, err := svc.Save(context.Background(), scenarioID, edited)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if repo.upserts != 1 {
		t.Fatalf("upserts=%d, want 1", repo.upserts)
	}
	if saved.ChiefComplaint != "Dificultad respiratoria súbita" {
		t.Fatalf("saved=%+v", saved)
	}
	if len(audit.emitted) != 1 || audit.emitted[0] != types.ChangeBrief {
		t.Fatalf("emitted=%v", audit.emitted)
	}
}
