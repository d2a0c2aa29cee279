package canonical

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/medsimlab/scenariohub-backend/internal/textcodec"
	"github.com/medsimlab/scenariohub-backend/internal/types"
)

// Question is the canonical per-step question. Unlike steps and resources it
// is saved one row at a time, so it carries editing state the batch entities
// do not need: a local identifier before persistence, a dirty marker, and the
// raw time-limit text the editor typed (preserved so a half-typed number is
// not lost on re-render).
type Question struct {
	ID                *uuid.UUID `json:"id,omitempty"`
	LocalID           string     `json:"local_id,omitempty"`
	StepID            uuid.UUID  `json:"step_id"`
	Text              string     `json:"text"`
	Options           []string   `json:"options"`
	CorrectOption     *int       `json:"correct_option,omitempty"`
	Explanation       string     `json:"explanation,omitempty"`
	Roles             []string   `json:"roles,omitempty"`
	IsCritical        bool       `json:"is_critical"`
	CriticalRationale string     `json:"critical_rationale,omitempty"`
	Hints             []string   `json:"hints,omitempty"`
	TimeLimit         *int       `json:"time_limit,omitempty"`
	TimeLimitText     string     `json:"time_limit_text,omitempty"`
	Dirty             bool       `json:"dirty,omitempty"`
	IsNew             bool       `json:"is_new,omitempty"`
}

// NewQuestion creates a not-yet-persisted question under a step, with two
// empty options ready for editing.
func NewQuestion(stepID uuid.UUID) *Question {
	return &Question{
		LocalID: "local-" + uuid.New().String(),
		StepID:  stepID,
		Options: []string{"", ""},
		IsNew:   true,
		Dirty:   true,
	}
}

// RemoveOption deletes the option at index i and keeps the correct-option
// marker consistent: removing the correct option clears the marker, removing
// an earlier option shifts it down, removing a later one leaves it alone.
func (q *Question) RemoveOption(i int) {
	if i < 0 || i >= len(q.Options) {
		return
	}
	q.Options = append(q.Options[:i], q.Options[i+1:]...)
	if q.CorrectOption == nil {
		q.Dirty = true
		return
	}
	switch {
	case *q.CorrectOption == i:
		q.CorrectOption = nil
	case *q.CorrectOption > i:
		shifted := *q.CorrectOption - 1
		q.CorrectOption = &shifted
	}
	q.Dirty = true
}

// SetTimeLimitText records the raw input and derives the numeric limit; text
// that is not a positive whole number leaves the limit unset.
func (q *Question) SetTimeLimitText(text string) {
	q.TimeLimitText = text
	q.TimeLimit = nil
	if f := textcodec.ParseNumber(text); f != nil && *f > 0 && *f == float64(int(*f)) {
		limit := int(*f)
		q.TimeLimit = &limit
	}
	q.Dirty = true
}

// Validate runs the pre-save checks. The messages are user-facing and block
// the save.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return errors.New("the question text is required")
	}
	if len(q.Options) < 2 {
		return errors.New("a question needs at least two options")
	}
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return errors.New("every option must be non-empty")
		}
	}
	if q.CorrectOption == nil {
		return errors.New("select the correct option")
	}
	if *q.CorrectOption < 0 || *q.CorrectOption >= len(q.Options) {
		return errors.New("the correct option is out of range")
	}
	if q.IsCritical && strings.TrimSpace(q.CriticalRationale) == "" {
		return errors.New("a critical question needs a rationale")
	}
	if q.TimeLimit != nil && *q.TimeLimit <= 0 {
		return errors.New("the time limit must be a positive number of seconds")
	}
	return nil
}

func HydrateQuestion(row *types.Question) Question {
	q := Question{
		StepID:            row.StepID,
		Text:              strings.TrimSpace(row.QuestionText),
		Options:           asStringList(decodeAny(row.Options)),
		CorrectOption:     row.CorrectOption,
		Explanation:       strings.TrimSpace(row.Explanation),
		Roles:             asStringList(decodeAny(row.Roles)),
		IsCritical:        row.IsCritical,
		CriticalRationale: strings.TrimSpace(row.CriticalRationale),
		Hints:             asStringList(decodeAny(row.Hints)),
		TimeLimit:         row.TimeLimit,
	}
	if row.TimeLimit != nil {
		f := float64(*row.TimeLimit)
		q.TimeLimitText = textcodec.FormatNumber(&f)
	}
	id := row.ID
	q.ID = &id
	return q
}

func DehydrateQuestion(q *Question) types.Question {
	row := types.Question{
		StepID:            q.StepID,
		QuestionText:      strings.TrimSpace(q.Text),
		Options:           marshalJSON(q.Options),
		CorrectOption:     q.CorrectOption,
		Explanation:       strings.TrimSpace(q.Explanation),
		Roles:             stringListJSON(q.Roles),
		IsCritical:        q.IsCritical,
		CriticalRationale: strings.TrimSpace(q.CriticalRationale),
		Hints:             stringListJSON(q.Hints),
		TimeLimit:         q.TimeLimit,
	}
	if !q.IsCritical {
		row.CriticalRationale = ""
	}
	if q.ID != nil {
		row.ID = *q.ID
	}
	return row
}
