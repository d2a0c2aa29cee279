package canonical

import (
	"strings"

	"github.com/google/uuid"

	"github.com/medsimlab/scenariohub-backend/internal/textcodec"
)

// Brief is the canonical in-memory form of a case brief: one fully-typed
// shape regardless of which historical representation the row was persisted
// in. It is exclusively owned by the editing session that loaded it.
type Brief struct {
	ID                *uuid.UUID          `json:"id,omitempty"`
	ScenarioID        uuid.UUID           `json:"scenario_id"`
	Title             string              `json:"title"`
	Context           string              `json:"context"`
	ChiefComplaint    string              `json:"chief_complaint"`
	Chips             []string            `json:"chips,omitempty"`
	Demographics      Demographics        `json:"demographics"`
	History           History             `json:"history"`
	Vitals            Vitals              `json:"vitals"`
	Exam              []string            `json:"exam,omitempty"`
	QuickLabs         []textcodec.Pair    `json:"quick_labs,omitempty"`
	Imaging           []ImagingItem       `json:"imaging,omitempty"`
	Triangle          Triangle            `json:"triangle"`
	TriangleDetails   TriangleDetails     `json:"triangle_details"`
	RedFlags          []RedFlag           `json:"red_flags,omitempty"`
	CriticalActions   []string            `json:"critical_actions,omitempty"`
	Competencies      []Competency        `json:"competencies,omitempty"`
	LearningObjective string              `json:"learning_objective"`
	Objectives        map[string][]string `json:"objectives,omitempty"`
	RoleOrder         []string            `json:"role_order,omitempty"`
	EstimatedMinutes  *int                `json:"estimated_minutes,omitempty"`
}

type Demographics struct {
	Age      string   `json:"age,omitempty"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
	Sex      string   `json:"sex,omitempty"`
	Location string   `json:"location,omitempty"`
}

func (d Demographics) Empty() bool {
	return d.Age == "" && d.WeightKg == nil && d.Sex == "" && d.Location == ""
}

type BloodPressure struct {
	Systolic  *float64 `json:"systolic,omitempty"`
	Diastolic *float64 `json:"diastolic,omitempty"`
}

func (bp *BloodPressure) Empty() bool {
	return bp == nil || (bp.Systolic == nil && bp.Diastolic == nil)
}

type Vitals struct {
	FC    *float64       `json:"fc,omitempty"`
	FR    *float64       `json:"fr,omitempty"`
	Sat   *float64       `json:"sat,omitempty"`
	Temp  *float64       `json:"temp,omitempty"`
	BP    *BloodPressure `json:"ta,omitempty"`
	Notes []string       `json:"notes,omitempty"`
}

func (v Vitals) Empty() bool {
	return v.FC == nil && v.FR == nil && v.Sat == nil && v.Temp == nil &&
		v.BP.Empty() && len(v.Notes) == 0
}

// TriangleStatus is one leg of the pediatric assessment triangle. Unknown
// persisted values are dropped at hydration, never propagated.
type TriangleStatus string

const (
	TriangleUnset TriangleStatus = ""
	TriangleGreen TriangleStatus = "green"
	TriangleAmber TriangleStatus = "amber"
	TriangleRed   TriangleStatus = "red"
)

// ParseTriangleStatus lower-cases and validates a persisted value.
func ParseTriangleStatus(v any) TriangleStatus {
	switch TriangleStatus(strings.ToLower(asString(v))) {
	case TriangleGreen:
		return TriangleGreen
	case TriangleAmber:
		return TriangleAmber
	case TriangleRed:
		return TriangleRed
	default:
		return TriangleUnset
	}
}

type Triangle struct {
	Appearance  TriangleStatus `json:"appearance,omitempty"`
	Breathing   TriangleStatus `json:"breathing,omitempty"`
	Circulation TriangleStatus `json:"circulation,omitempty"`
}

func (t Triangle) Empty() bool {
	return t.Appearance == TriangleUnset && t.Breathing == TriangleUnset && t.Circulation == TriangleUnset
}

// TriangleDetails carries the free-text rationale behind each triangle leg.
type TriangleDetails struct {
	Appearance  string `json:"appearance,omitempty"`
	Breathing   string `json:"breathing,omitempty"`
	Circulation string `json:"circulation,omitempty"`
}

func (t TriangleDetails) Empty() bool {
	return t.Appearance == "" && t.Breathing == "" && t.Circulation == ""
}

type ImagingItem struct {
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

type RedFlag struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

type Competency struct {
	Key    string   `json:"key,omitempty"`
	Label  string   `json:"label"`
	Level  *float64 `json:"level,omitempty"`
	Notes  string   `json:"notes,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
}

// History is the tagged variant behind the history column: either a flat list
// of lines or ordered key/value entries, with an unkeyed general bucket that
// only exists alongside entries. Exactly one variant is populated.
type History struct {
	Entries []HistoryEntry `json:"entries,omitempty"`
	General []string       `json:"general,omitempty"`
	Lines   []string       `json:"lines,omitempty"`
}

type HistoryEntry struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

func (h History) Keyed() bool { return len(h.Entries) > 0 }

func (h History) Empty() bool {
	return len(h.Entries) == 0 && len(h.General) == 0 && len(h.Lines) == 0
}

// Text renders the history for the free-text editor.
func (h History) Text() string {
	if !h.Keyed() {
		return textcodec.JoinLines(h.Lines)
	}
	k := textcodec.KeyedText{General: h.General}
	for _, e := range h.Entries {
		k.Records = append(k.Records, textcodec.Record{Key: e.Key, Values: e.Values})
	}
	return textcodec.FormatKeyed(k)
}

// ParseHistoryText is the inverse of Text.
func ParseHistoryText(text string) History {
	k := textcodec.ParseKeyed(text)
	if !k.Keyed() {
		return History{Lines: k.Lines}
	}
	h := History{General: k.General}
	for _, rec := range k.Records {
		h.Entries = append(h.Entries, HistoryEntry{Key: rec.Key, Values: rec.Values})
	}
	return h
}
