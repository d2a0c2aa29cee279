package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Question belongs to exactly one step. Unlike steps and resources, questions
// are saved and deleted one at a time, never batch-reconciled.
type Question struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StepID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"step_id"`
	Step              *Step          `gorm:"constraint:OnDelete:CASCADE;foreignKey:StepID;references:ID" json:"step,omitempty"`
	QuestionText      string         `gorm:"column:question_text;not null" json:"question_text"`
	Options           datatypes.JSON `gorm:"column:options;type:jsonb" json:"options"`
	CorrectOption     *int           `gorm:"column:correct_option" json:"correct_option,omitempty"`
	Explanation       string         `gorm:"column:explanation" json:"explanation"`
	Roles             datatypes.JSON `gorm:"column:roles;type:jsonb" json:"roles,omitempty"`
	IsCritical        bool           `gorm:"column:is_critical;not null;default:false" json:"is_critical"`
	CriticalRationale string         `gorm:"column:critical_rationale" json:"critical_rationale"`
	Hints             datatypes.JSON `gorm:"column:hints;type:jsonb" json:"hints,omitempty"`
	TimeLimit         *int           `gorm:"column:time_limit" json:"time_limit,omitempty"`
	CreatedAt         time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Question) TableName() string { return "question" }
