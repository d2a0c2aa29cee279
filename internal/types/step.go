package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Step is one ordered unit of scenario narrative. StepOrder is dense and
// 1-based across a scenario; every batch save recomputes it.
type Step struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ScenarioID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"scenario_id"`
	Scenario     *Scenario      `gorm:"constraint:OnDelete:CASCADE;foreignKey:ScenarioID;references:ID" json:"scenario,omitempty"`
	StepOrder    int            `gorm:"column:step_order;not null" json:"step_order"`
	Description  string         `gorm:"column:description;not null" json:"description"`
	Narrative    string         `gorm:"column:narrative" json:"narrative"`
	RoleSpecific bool           `gorm:"column:role_specific;not null;default:false" json:"role_specific"`
	Roles        datatypes.JSON `gorm:"column:roles;type:jsonb" json:"roles,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Step) TableName() string { return "step" }
