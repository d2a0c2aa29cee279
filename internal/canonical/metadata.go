package canonical

import (
	"errors"
	"strings"
	"time"

	"github.com/medsimlab/scenariohub-backend/internal/types"
)

// Metadata is the canonical editable scenario header.
type Metadata struct {
	Title            string    `json:"title"`
	Summary          string    `json:"summary,omitempty"`
	Status           string    `json:"status"`
	Mode             []string  `json:"mode,omitempty"`
	Level            string    `json:"level,omitempty"`
	Difficulty       string    `json:"difficulty,omitempty"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	MaxAttempts      int       `json:"max_attempts"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

func (m *Metadata) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return errors.New("the title is required")
	}
	if m.EstimatedMinutes < 0 {
		return errors.New("estimated minutes cannot be negative")
	}
	if m.MaxAttempts < 1 {
		return errors.New("max attempts must be at least 1")
	}
	return nil
}

func HydrateMetadata(row *types.Scenario) Metadata {
	return Metadata{
		Title:            strings.TrimSpace(row.Title),
		Summary:          strings.TrimSpace(row.Summary),
		Status:           strings.TrimSpace(row.Status),
		Mode:             NormalizeMode(decodeAny(row.Mode)),
		Level:            strings.TrimSpace(row.Level),
		Difficulty:       strings.TrimSpace(row.Difficulty),
		EstimatedMinutes: row.EstimatedMinutes,
		MaxAttempts:      row.MaxAttempts,
		UpdatedAt:        row.UpdatedAt,
	}
}

// ApplyMetadata writes the canonical header onto a persisted row.
func ApplyMetadata(row *types.Scenario, m *Metadata) {
	row.Title = strings.TrimSpace(m.Title)
	row.Summary = strings.TrimSpace(m.Summary)
	row.Status = strings.TrimSpace(m.Status)
	row.Mode = ModeJSON(m.Mode)
	row.Level = strings.TrimSpace(m.Level)
	row.Difficulty = strings.TrimSpace(m.Difficulty)
	row.EstimatedMinutes = m.EstimatedMinutes
	row.MaxAttempts = m.MaxAttempts
}
