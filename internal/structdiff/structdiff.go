package structdiff

import (
	"encoding/json"
	"reflect"
)

// Change is a leaf of a diff: the value a field held before and after an
// edit. Either side may be nil when the field was absent.
type Change struct {
	Before any `json:"before"`
	After  any `json:"after"`
}

// Node maps field names to either a Change leaf or a nested Node. It exists
// only to describe an edit for the audit trail; it is not a patch format and
// carries no merge semantics.
type Node map[string]any

// Diff computes the field-level changes between two records. For each key in
// the union of both inputs: plain objects recurse (included only when the
// nested diff is non-empty), arrays compare by serialized form, everything
// else by value. Diff(x, x) is empty for every x.
func Diff(before, after map[string]any) Node {
	node := Node{}
	for key := range unionKeys(before, after) {
		b, a := before[key], after[key]
		bObj, bIsObj := asObject(b)
		aObj, aIsObj := asObject(a)
		switch {
		case bIsObj && aIsObj:
			if nested := Diff(bObj, aObj); len(nested) > 0 {
				node[key] = nested
			}
		case isArray(b) || isArray(a):
			if stableJSON(b) != stableJSON(a) {
				node[key] = Change{Before: b, After: a}
			}
		default:
			if !reflect.DeepEqual(b, a) {
				node[key] = Change{Before: b, After: a}
			}
		}
	}
	return node
}

// ToMap flattens any JSON-shaped value into the map form Diff consumes. A nil
// or non-object input yields an empty map.
func ToMap(v any) map[string]any {
	out := map[string]any{}
	if v == nil {
		return out
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}

func unionKeys(a, b map[string]any) map[string]struct{} {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	return keys
}

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

func isArray(v any) bool {
	if v == nil {
		return false
	}
	kind := reflect.TypeOf(v).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

func stableJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}
