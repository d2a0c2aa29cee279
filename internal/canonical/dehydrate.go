package canonical

import (
	"strings"

	"gorm.io/datatypes"

	"github.com/medsimlab/scenariohub-backend/internal/types"
)

// DehydrateBrief turns the canonical model back into a sanitized persistence
// row. Every field the editor left empty becomes SQL NULL (nil jsonb), never
// an empty array or object, preserving the store's "unset vs explicitly
// emptied" distinction. Free text is trimmed, numeric strings became numbers
// at edit time via the codecs.
func DehydrateBrief(b *Brief) *types.CaseBrief {
	row := &types.CaseBrief{
		ScenarioID:        b.ScenarioID,
		Title:             strings.TrimSpace(b.Title),
		Context:           strings.TrimSpace(b.Context),
		ChiefComplaint:    strings.TrimSpace(b.ChiefComplaint),
		LearningObjective: strings.TrimSpace(b.LearningObjective),
		EstimatedMinutes:  b.EstimatedMinutes,
	}
	if b.ID != nil {
		row.ID = *b.ID
	}

	row.Chips = stringListJSON(b.Chips)
	row.Demographics = dehydrateDemographics(b.Demographics)
	row.History = dehydrateHistory(b.History)
	row.Vitals = dehydrateVitals(b.Vitals)
	row.Exam = stringListJSON(b.Exam)
	row.QuickLabs = dehydrateQuickLabs(b)
	row.Imaging = dehydrateImaging(b)
	row.Triangle = dehydrateTriangle(b.Triangle)
	row.TriangleDetails = dehydrateTriangleDetails(b.TriangleDetails)
	row.RedFlags = dehydrateRedFlags(b.RedFlags)
	row.CriticalActions = stringListJSON(b.CriticalActions)
	row.Competencies = dehydrateCompetencies(b.Competencies)
	row.Objectives = dehydrateObjectives(b)
	return row
}

func stringListJSON(items []string) datatypes.JSON {
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil
	}
	return marshalJSON(out)
}

func dehydrateDemographics(d Demographics) datatypes.JSON {
	if d.Empty() {
		return nil
	}
	m := map[string]any{}
	if v := strings.TrimSpace(d.Age); v != "" {
		m["age"] = v
	}
	if d.WeightKg != nil {
		m["weightKg"] = *d.WeightKg
	}
	if v := strings.TrimSpace(d.Sex); v != "" {
		m["sex"] = v
	}
	if v := strings.TrimSpace(d.Location); v != "" {
		m["location"] = v
	}
	return marshalJSON(m)
}

// dehydrateHistory writes the canonical variant back: the keyed variant as an
// ordered object (general bucket under its reserved key), the line variant as
// a plain array. Legacy string-shaped rows are normalized on their first save
// and never re-emitted as a string.
func dehydrateHistory(h History) datatypes.JSON {
	if h.Empty() {
		return nil
	}
	if !h.Keyed() {
		return marshalJSON(h.Lines)
	}
	var fields []objField
	for _, e := range h.Entries {
		if len(e.Values) == 1 {
			fields = append(fields, objField{Key: e.Key, Value: e.Values[0]})
		} else {
			fields = append(fields, objField{Key: e.Key, Value: e.Values})
		}
	}
	if len(h.General) > 0 {
		fields = append(fields, objField{Key: "general", Value: h.General})
	}
	return marshalOrderedObject(fields)
}

func dehydrateVitals(v Vitals) datatypes.JSON {
	if v.Empty() {
		return nil
	}
	m := map[string]any{}
	if v.FC != nil {
		m["fc"] = *v.FC
	}
	if v.FR != nil {
		m["fr"] = *v.FR
	}
	if v.Sat != nil {
		m["sat"] = *v.Sat
	}
	if v.Temp != nil {
		m["temp"] = *v.Temp
	}
	if !v.BP.Empty() {
		ta := map[string]any{}
		if v.BP.Systolic != nil {
			ta["sys"] = *v.BP.Systolic
		}
		if v.BP.Diastolic != nil {
			ta["dia"] = *v.BP.Diastolic
		}
		m["ta"] = ta
	}
	if len(v.Notes) > 0 {
		m["notes"] = v.Notes
	}
	return marshalJSON(m)
}

func dehydrateQuickLabs(b *Brief) datatypes.JSON {
	type lab struct {
		Name  string `json:"name"`
		Value string `json:"value,omitempty"`
	}
	var out []lab
	for _, p := range b.QuickLabs {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		out = append(out, lab{Name: name, Value: strings.TrimSpace(p.Value)})
	}
	if len(out) == 0 {
		return nil
	}
	return marshalJSON(out)
}

func dehydrateImaging(b *Brief) datatypes.JSON {
	var out []ImagingItem
	for _, item := range b.Imaging {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		out = append(out, ImagingItem{Name: name, Status: strings.TrimSpace(item.Status)})
	}
	if len(out) == 0 {
		return nil
	}
	return marshalJSON(out)
}

// dehydrateTriangle includes the object only when at least one leg is set.
func dehydrateTriangle(t Triangle) datatypes.JSON {
	if t.Empty() {
		return nil
	}
	m := map[string]any{}
	if t.Appearance != TriangleUnset {
		m["appearance"] = string(t.Appearance)
	}
	if t.Breathing != TriangleUnset {
		m["breathing"] = string(t.Breathing)
	}
	if t.Circulation != TriangleUnset {
		m["circulation"] = string(t.Circulation)
	}
	return marshalJSON(m)
}

func dehydrateTriangleDetails(t TriangleDetails) datatypes.JSON {
	if t.Empty() {
		return nil
	}
	m := map[string]any{}
	if v := strings.TrimSpace(t.Appearance); v != "" {
		m["appearance"] = v
	}
	if v := strings.TrimSpace(t.Breathing); v != "" {
		m["breathing"] = v
	}
	if v := strings.TrimSpace(t.Circulation); v != "" {
		m["circulation"] = v
	}
	return marshalJSON(m)
}

func dehydrateRedFlags(flags []RedFlag) datatypes.JSON {
	var out []RedFlag
	for _, f := range flags {
		f.Text = strings.TrimSpace(f.Text)
		if f.Text == "" {
			continue
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil
	}
	return marshalJSON(out)
}

func dehydrateCompetencies(comps []Competency) datatypes.JSON {
	var fields []map[string]any
	for _, c := range comps {
		label := strings.TrimSpace(c.Label)
		key := strings.TrimSpace(c.Key)
		if label == "" && key == "" {
			continue
		}
		m := map[string]any{"label": label}
		if key != "" {
			m["key"] = key
		}
		if c.Level != nil {
			m["level"] = *c.Level
		}
		if notes := strings.TrimSpace(c.Notes); notes != "" {
			m["notes"] = notes
		}
		if c.Weight != nil {
			m["weight"] = *c.Weight
		}
		fields = append(fields, m)
	}
	if len(fields) == 0 {
		return nil
	}
	return marshalJSON(fields)
}

// dehydrateObjectives rebuilds the role→lines map, in role order, keeping
// only roles with at least one non-empty line.
func dehydrateObjectives(b *Brief) datatypes.JSON {
	order := b.RoleOrder
	if len(order) == 0 {
		for code := range b.Objectives {
			order = append(order, code)
		}
	}
	var fields []objField
	for _, code := range order {
		var lines []string
		for _, line := range b.Objectives[code] {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			continue
		}
		fields = append(fields, objField{Key: code, Value: lines})
	}
	if len(fields) == 0 {
		return nil
	}
	return marshalOrderedObject(fields)
}
