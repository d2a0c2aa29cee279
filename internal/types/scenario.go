package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Scenario is the editable metadata row. Mode is jsonb because historical
// rows hold a plain string, an array, or the legacy "dual" sentinel.
type Scenario struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title            string         `gorm:"column:title;not null" json:"title"`
	Summary          string         `gorm:"column:summary" json:"summary"`
	Status           string         `gorm:"column:status;not null;default:'Borrador'" json:"status"`
	Mode             datatypes.JSON `gorm:"column:mode;type:jsonb" json:"mode"`
	Level            string         `gorm:"column:level" json:"level"`
	Difficulty       string         `gorm:"column:difficulty" json:"difficulty"`
	EstimatedMinutes int            `gorm:"column:estimated_minutes;not null;default:10" json:"estimated_minutes"`
	MaxAttempts      int            `gorm:"column:max_attempts;not null;default:3" json:"max_attempts"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Scenario) TableName() string { return "scenario" }
