package canonical

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/medsimlab/scenariohub-backend/internal/roles"
	"github.com/medsimlab/scenariohub-backend/internal/textcodec"
	"github.com/medsimlab/scenariohub-backend/internal/types"
)

// HydrateBrief builds the canonical editing model from a persisted row,
// tolerating every historical shape of every column. It never fails: a field
// that does not parse as expected degrades to an opaque string rather than
// dropping data. A nil row produces an empty model with defaults for the
// known role set.
func HydrateBrief(scenarioID uuid.UUID, row *types.CaseBrief, knownRoles []string) *Brief {
	b := &Brief{
		ScenarioID: scenarioID,
		Objectives: map[string][]string{},
	}
	if row == nil {
		b.RoleOrder = roles.Union(knownRoles, nil)
		for _, code := range b.RoleOrder {
			b.Objectives[code] = nil
		}
		return b
	}

	id := row.ID
	b.ID = &id
	b.Title = strings.TrimSpace(row.Title)
	b.Context = strings.TrimSpace(row.Context)
	b.ChiefComplaint = strings.TrimSpace(row.ChiefComplaint)
	b.LearningObjective = strings.TrimSpace(row.LearningObjective)
	b.EstimatedMinutes = row.EstimatedMinutes

	b.Chips = asStringList(decodeAny(row.Chips))
	b.Demographics = hydrateDemographics(decodeAny(row.Demographics))
	b.History = hydrateHistory(row.History)
	b.Vitals = hydrateVitals(decodeAny(row.Vitals))
	b.Exam = asStringList(decodeAny(row.Exam))
	b.QuickLabs = hydratePairs(decodeAny(row.QuickLabs), "value")
	b.Imaging = hydrateImaging(decodeAny(row.Imaging))
	b.Triangle = hydrateTriangle(decodeAny(row.Triangle))
	b.TriangleDetails = hydrateTriangleDetails(decodeAny(row.TriangleDetails))
	b.RedFlags = hydrateRedFlags(decodeAny(row.RedFlags))
	b.CriticalActions = asStringList(decodeAny(row.CriticalActions))
	b.Competencies = hydrateCompetencies(decodeAny(row.Competencies))

	observed := hydrateObjectives(row.Objectives, b.Objectives)
	b.RoleOrder = roles.Union(knownRoles, observed)
	for _, code := range b.RoleOrder {
		if _, ok := b.Objectives[code]; !ok {
			b.Objectives[code] = nil
		}
	}
	return b
}

func hydrateDemographics(v any) Demographics {
	switch t := v.(type) {
	case nil:
		return Demographics{}
	case map[string]any:
		d := Demographics{
			Age:      asString(firstOf(t, "age", "edad")),
			Sex:      asString(firstOf(t, "sex", "sexo")),
			Location: asString(firstOf(t, "location", "setting")),
		}
		d.WeightKg = asNumber(firstOf(t, "weightKg", "weight_kg", "weight"))
		return d
	default:
		// opaque legacy value, keep it visible in the age line
		return Demographics{Age: asString(v)}
	}
}

// hydrateHistory accepts the three historical shapes of the history column:
// a flat array of lines, a plain string, and a keyed object. Object key order
// survives via the ordered decoder. The reserved "general" key feeds the
// unkeyed bucket.
func hydrateHistory(raw datatypes.JSON) History {
	if len(raw) == 0 {
		return History{}
	}
	if fields, ok := decodeOrderedObject(raw); ok {
		h := History{}
		for _, f := range fields {
			if strings.EqualFold(f.Key, "general") {
				h.General = append(h.General, asStringList(f.Value)...)
				continue
			}
			h.Entries = append(h.Entries, HistoryEntry{Key: f.Key, Values: asStringList(f.Value)})
		}
		if len(h.Entries) == 0 {
			// object held nothing but the general bucket; degrade to lines
			return History{Lines: h.General}
		}
		return h
	}
	return History{Lines: asStringList(decodeAny(raw))}
}

func hydrateVitals(v any) Vitals {
	m := asObjectMap(v)
	if m == nil {
		if v == nil {
			return Vitals{}
		}
		return Vitals{Notes: asStringList(v)}
	}
	out := Vitals{
		FC:    asNumber(m["fc"]),
		FR:    asNumber(m["fr"]),
		Sat:   asNumber(firstOf(m, "sat", "sat_o2", "sato2")),
		Temp:  asNumber(firstOf(m, "temp", "ta_temp")),
		Notes: asStringList(m["notes"]),
	}
	out.BP = hydrateBloodPressure(m)
	return out
}

// hydrateBloodPressure reads the nested "ta" object newer rows use and the
// flat ta_sys/ta_dia pair older rows left behind.
func hydrateBloodPressure(m map[string]any) *BloodPressure {
	bp := &BloodPressure{}
	if nested := asObjectMap(m["ta"]); nested != nil {
		bp.Systolic = asNumber(firstOf(nested, "sys", "systolic"))
		bp.Diastolic = asNumber(firstOf(nested, "dia", "diastolic"))
	}
	if bp.Systolic == nil {
		bp.Systolic = asNumber(firstOf(m, "ta_sys", "sys"))
	}
	if bp.Diastolic == nil {
		bp.Diastolic = asNumber(firstOf(m, "ta_dia", "dia"))
	}
	if bp.Empty() {
		return nil
	}
	return bp
}

func hydratePairs(v any, valueKey string) []textcodec.Pair {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		var out []textcodec.Pair
		for _, item := range t {
			if m := asObjectMap(item); m != nil {
				name := asString(m["name"])
				if name == "" {
					continue
				}
				out = append(out, textcodec.Pair{Name: name, Value: asString(m[valueKey])})
				continue
			}
			if s := asString(item); s != "" {
				out = append(out, textcodec.ParsePairs(s)...)
			}
		}
		return out
	case string:
		return textcodec.ParsePairs(t)
	default:
		return nil
	}
}

func hydrateImaging(v any) []ImagingItem {
	var out []ImagingItem
	for _, p := range hydratePairs(v, "status") {
		out = append(out, ImagingItem{Name: p.Name, Status: p.Value})
	}
	return out
}

func hydrateTriangle(v any) Triangle {
	m := asObjectMap(v)
	if m == nil {
		return Triangle{}
	}
	return Triangle{
		Appearance:  ParseTriangleStatus(m["appearance"]),
		Breathing:   ParseTriangleStatus(m["breathing"]),
		Circulation: ParseTriangleStatus(m["circulation"]),
	}
}

func hydrateTriangleDetails(v any) TriangleDetails {
	m := asObjectMap(v)
	if m == nil {
		return TriangleDetails{}
	}
	return TriangleDetails{
		Appearance:  asString(m["appearance"]),
		Breathing:   asString(m["breathing"]),
		Circulation: asString(m["circulation"]),
	}
}

func hydrateRedFlags(v any) []RedFlag {
	list, ok := v.([]any)
	if !ok {
		if s := asString(v); s != "" {
			var out []RedFlag
			for _, line := range textcodec.SplitLines(s) {
				out = append(out, RedFlag{Text: line})
			}
			return out
		}
		return nil
	}
	var out []RedFlag
	for _, item := range list {
		if m := asObjectMap(item); m != nil {
			text := asString(m["text"])
			if text == "" {
				continue
			}
			correct, _ := m["correct"].(bool)
			out = append(out, RedFlag{Text: text, Correct: correct})
			continue
		}
		if s := asString(item); s != "" {
			out = append(out, RedFlag{Text: s})
		}
	}
	return out
}

func hydrateCompetencies(v any) []Competency {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []Competency
	for _, item := range list {
		m := asObjectMap(item)
		if m == nil {
			if s := asString(item); s != "" {
				out = append(out, Competency{Label: s})
			}
			continue
		}
		c := Competency{
			Key:   asString(m["key"]),
			Label: asString(m["label"]),
			Notes: asString(m["notes"]),
		}
		if c.Label == "" {
			c.Label = asString(m["name"])
		}
		// level and weight pass through only when numeric
		c.Level = asNumber(firstOf(m, "level", "expected_level"))
		c.Weight = asNumber(m["weight"])
		if c.Label == "" && c.Key == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// hydrateObjectives fills dst with role→lines and returns the persisted role
// keys in storage order, so the caller can union them with the known set.
func hydrateObjectives(raw datatypes.JSON, dst map[string][]string) []string {
	if len(raw) == 0 {
		return nil
	}
	fields, ok := decodeOrderedObject(raw)
	if !ok {
		return nil
	}
	var observed []string
	for _, f := range fields {
		code := strings.TrimSpace(f.Key)
		if code == "" {
			continue
		}
		observed = append(observed, code)
		dst[code] = asStringList(f.Value)
	}
	return observed
}

func firstOf(m map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v
		}
	}
	return nil
}
