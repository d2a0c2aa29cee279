package canonical

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/medsimlab/scenariohub-backend/internal/types"
)

// Step is the canonical ordered narrative unit. Order is dense and 1-based;
// the reconciler recomputes it on every batch save.
type Step struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	Order        int        `json:"order"`
	Description  string     `json:"description"`
	Narrative    string     `json:"narrative,omitempty"`
	RoleSpecific bool       `json:"role_specific"`
	Roles        []string   `json:"roles,omitempty"`
	Questions    []Question `json:"questions,omitempty"`
}

// Validate enforces the pre-reconcile precondition: reconciliation only
// judges identity and order, content checks happen here.
func (s *Step) Validate() error {
	if strings.TrimSpace(s.Description) == "" {
		return errors.New("every step needs a description")
	}
	return nil
}

func HydrateStep(row *types.Step) Step {
	s := Step{
		Order:        row.StepOrder,
		Description:  strings.TrimSpace(row.Description),
		Narrative:    strings.TrimSpace(row.Narrative),
		RoleSpecific: row.RoleSpecific,
		Roles:        asStringList(decodeAny(row.Roles)),
	}
	id := row.ID
	s.ID = &id
	return s
}

func DehydrateStep(s *Step, scenarioID uuid.UUID) types.Step {
	row := types.Step{
		ScenarioID:   scenarioID,
		StepOrder:    s.Order,
		Description:  strings.TrimSpace(s.Description),
		Narrative:    strings.TrimSpace(s.Narrative),
		RoleSpecific: s.RoleSpecific,
	}
	if s.ID != nil {
		row.ID = *s.ID
	}
	// target roles only mean something on role-specific steps
	if s.RoleSpecific {
		row.Roles = stringListJSON(s.Roles)
	}
	return row
}
