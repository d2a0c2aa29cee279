package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CaseBrief is the persisted clinical introduction, at most one row per
// scenario. The jsonb columns are weakly typed on purpose: the schema evolved
// several representations for the same concept (history as array, string or
// keyed object; flat vs nested blood pressure) and old rows are never
// migrated. Nil jsonb persists as SQL NULL, which is how "never set" stays
// distinguishable from "explicitly emptied".
type CaseBrief struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ScenarioID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"scenario_id"`
	Scenario          *Scenario      `gorm:"constraint:OnDelete:CASCADE;foreignKey:ScenarioID;references:ID" json:"scenario,omitempty"`
	Title             string         `gorm:"column:title" json:"title"`
	Context           string         `gorm:"column:context" json:"context"`
	ChiefComplaint    string         `gorm:"column:chief_complaint" json:"chief_complaint"`
	Chips             datatypes.JSON `gorm:"column:chips;type:jsonb" json:"chips,omitempty"`
	Demographics      datatypes.JSON `gorm:"column:demographics;type:jsonb" json:"demographics,omitempty"`
	History           datatypes.JSON `gorm:"column:history;type:jsonb" json:"history,omitempty"`
	Vitals            datatypes.JSON `gorm:"column:vitals;type:jsonb" json:"vitals,omitempty"`
	Exam              datatypes.JSON `gorm:"column:exam;type:jsonb" json:"exam,omitempty"`
	QuickLabs         datatypes.JSON `gorm:"column:quick_labs;type:jsonb" json:"quick_labs,omitempty"`
	Imaging           datatypes.JSON `gorm:"column:imaging;type:jsonb" json:"imaging,omitempty"`
	Triangle          datatypes.JSON `gorm:"column:triangle;type:jsonb" json:"triangle,omitempty"`
	TriangleDetails   datatypes.JSON `gorm:"column:triangle_details;type:jsonb" json:"triangle_details,omitempty"`
	RedFlags          datatypes.JSON `gorm:"column:red_flags;type:jsonb" json:"red_flags,omitempty"`
	CriticalActions   datatypes.JSON `gorm:"column:critical_actions;type:jsonb" json:"critical_actions,omitempty"`
	Competencies      datatypes.JSON `gorm:"column:competencies;type:jsonb" json:"competencies,omitempty"`
	LearningObjective string         `gorm:"column:learning_objective" json:"learning_objective"`
	Objectives        datatypes.JSON `gorm:"column:objectives;type:jsonb" json:"objectives,omitempty"`
	EstimatedMinutes  *int           `gorm:"column:estimated_minutes" json:"estimated_minutes,omitempty"`
	CreatedAt         time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (CaseBrief) TableName() string { return "case_brief" }
