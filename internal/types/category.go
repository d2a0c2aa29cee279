package types

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Category) TableName() string { return "category" }

// ScenarioCategory links a scenario to a category. Links are pass-through:
// the engine reconciles the set but owns no taxonomy semantics.
type ScenarioCategory struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ScenarioID uuid.UUID `gorm:"type:uuid;not null;index:idx_scenario_category,unique" json:"scenario_id"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index:idx_scenario_category,unique" json:"category_id"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ScenarioCategory) TableName() string { return "scenario_category" }
