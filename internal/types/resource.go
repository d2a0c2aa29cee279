package types

import (
	"time"

	"github.com/google/uuid"
)

// Resource is a bibliography entry attached to a scenario. Weight is the
// dense 1-based order key the reconciler assigns.
type Resource struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ScenarioID uuid.UUID `gorm:"type:uuid;not null;index" json:"scenario_id"`
	Scenario   *Scenario `gorm:"constraint:OnDelete:CASCADE;foreignKey:ScenarioID;references:ID" json:"scenario,omitempty"`
	Title      string    `gorm:"column:title;not null" json:"title"`
	URL        string    `gorm:"column:url;not null" json:"url"`
	Source     string    `gorm:"column:source" json:"source"`
	Type       string    `gorm:"column:type" json:"type"`
	Year       *int      `gorm:"column:year" json:"year,omitempty"`
	FreeAccess bool      `gorm:"column:free_access;not null;default:false" json:"free_access"`
	Weight     int       `gorm:"column:weight;not null;default:0" json:"weight"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Resource) TableName() string { return "resource" }
