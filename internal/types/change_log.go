package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChangeCategory tags a change-log entry with the part of the scenario it
// touched.
type ChangeCategory string

const (
	ChangeMetadata   ChangeCategory = "metadata"
	ChangeCategories ChangeCategory = "categories"
	ChangeBrief      ChangeCategory = "brief"
	ChangeResources  ChangeCategory = "resources"
	ChangeSteps      ChangeCategory = "steps"
	ChangeQuestions  ChangeCategory = "questions"
)

// ScenarioChangeLog is an append-only audit record written after a confirmed
// mutation. Rows are never updated or deleted by this engine.
type ScenarioChangeLog struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ScenarioID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"scenario_id"`
	Category    ChangeCategory `gorm:"column:category;not null" json:"category"`
	Description string         `gorm:"column:description;not null" json:"description"`
	Meta        datatypes.JSON `gorm:"column:meta;type:jsonb" json:"meta,omitempty"`
	ActorID     *uuid.UUID     `gorm:"column:actor_id;type:uuid" json:"actor_id,omitempty"`
	ActorName   string         `gorm:"column:actor_name" json:"actor_name"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (ScenarioChangeLog) TableName() string { return "scenario_change_log" }
