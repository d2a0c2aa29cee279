package canonical

import (
	"strings"

	"gorm.io/datatypes"
)

// The mode column predates multi-mode scenarios: old rows hold a plain
// string, newer ones an array, and the oldest a "dual" sentinel that meant
// "both base modes at once". NormalizeMode expands every shape into a clean
// list exactly once; the sentinel is never re-emitted.

const legacyDualMode = "dual"

var dualExpansion = []string{"online", "presencial"}

// NormalizeMode accepts the raw decoded mode value in any historical shape.
func NormalizeMode(v any) []string {
	var raw []string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		raw = []string{t}
	case []any:
		for _, item := range t {
			raw = append(raw, asString(item))
		}
	case []string:
		raw = t
	default:
		raw = []string{asString(v)}
	}

	var out []string
	seen := map[string]struct{}{}
	add := func(mode string) {
		mode = strings.ToLower(strings.TrimSpace(mode))
		if mode == "" {
			return
		}
		if _, ok := seen[mode]; ok {
			return
		}
		seen[mode] = struct{}{}
		out = append(out, mode)
	}
	for _, mode := range raw {
		if strings.ToLower(strings.TrimSpace(mode)) == legacyDualMode {
			for _, expanded := range dualExpansion {
				add(expanded)
			}
			continue
		}
		add(mode)
	}
	return out
}

// ModeJSON serializes a normalized mode list, nil for an empty one.
func ModeJSON(modes []string) datatypes.JSON {
	modes = NormalizeMode(modes)
	if len(modes) == 0 {
		return nil
	}
	return marshalJSON(modes)
}
