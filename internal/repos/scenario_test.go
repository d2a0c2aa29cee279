package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medsimlab/scenariohub-backend/internal/types"
)

func TestScenarioListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewScenarioRepo(db, repoTestLogger(t))
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	rows := []struct {
		title string
		age   time.Duration
	}{
		{"Anafilaxia pediátrica", 2 * time.Minute},
		{"Sepsis neonatal", 30 * time.Minute},
		{"Trauma craneal", 0},
	}
	for _, row := range rows {
		scenario := &types.Scenario{
			ID:        uuid.New(),
			Title:     row.title,
			CreatedAt: base,
			UpdatedAt: base.Add(row.age),
		}
		if err := db.Create(scenario).Error; err != nil {
			t.Fatalf("seed %q: %v", row.title, err)
		}
	}

	listed, err := repo.List(ctx, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("listed %d scenarios, want 3", len(listed))
	}
	want := []string{"Sepsis neonatal", "Anafilaxia pediátrica", "Trauma craneal"}
	for i, title := range want {
		if listed[i].Title != title {
			t.Fatalf("position %d: got %q, want %q", i, listed[i].Title, title)
		}
	}
}
