package canonical

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/medsimlab/scenariohub-backend/internal/types"
)

// Resource is a canonical bibliography entry. Weight doubles as the dense
// order key assigned by the reconciler.
type Resource struct {
	ID         *uuid.UUID `json:"id,omitempty"`
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	Source     string     `json:"source,omitempty"`
	Type       string     `json:"type,omitempty"`
	Year       *int       `json:"year,omitempty"`
	FreeAccess bool       `json:"free_access"`
	Weight     int        `json:"weight"`
}

func (r *Resource) Validate() error {
	if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.URL) == "" {
		return errors.New("every resource needs a title and a URL")
	}
	return nil
}

func HydrateResource(row *types.Resource) Resource {
	r := Resource{
		Title:      strings.TrimSpace(row.Title),
		URL:        strings.TrimSpace(row.URL),
		Source:     strings.TrimSpace(row.Source),
		Type:       strings.TrimSpace(row.Type),
		Year:       row.Year,
		FreeAccess: row.FreeAccess,
		Weight:     row.Weight,
	}
	id := row.ID
	r.ID = &id
	return r
}

func DehydrateResource(r *Resource, scenarioID uuid.UUID) types.Resource {
	row := types.Resource{
		ScenarioID: scenarioID,
		Title:      strings.TrimSpace(r.Title),
		URL:        strings.TrimSpace(r.URL),
		Source:     strings.TrimSpace(r.Source),
		Type:       strings.TrimSpace(r.Type),
		Year:       r.Year,
		FreeAccess: r.FreeAccess,
		Weight:     r.Weight,
	}
	if r.ID != nil {
		row.ID = *r.ID
	}
	return row
}
