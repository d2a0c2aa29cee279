package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/medsimlab/scenariohub-backend/internal/textcodec"
)

// Helpers for reading the weakly-typed jsonb columns. Decoding never fails:
// bytes that are not valid JSON are kept as an opaque string so no historical
// row loses data on load.

func decodeAny(raw datatypes.JSON) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

type objField struct {
	Key   string
	Value any
}

// decodeOrderedObject reads a JSON object keeping key order, which
// encoding/json's map form throws away. Keyed history and per-role objectives
// depend on it to round-trip entry order through storage.
func decodeOrderedObject(raw []byte) ([]objField, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil, false
	}
	var fields []objField
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, false
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, false
		}
		var v any
		if err := json.Unmarshal(val, &v); err != nil {
			return nil, false
		}
		fields = append(fields, objField{Key: key, Value: v})
	}
	return fields, true
}

// marshalOrderedObject writes fields as a JSON object in slice order.
func marshalOrderedObject(fields []objField) datatypes.JSON {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(f.Key)
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			val = []byte("null")
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return datatypes.JSON(buf.Bytes())
}

func marshalJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return textcodec.FormatNumber(&t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return strings.TrimSpace(fmt.Sprint(v))
		}
		return string(raw)
	}
}

// asStringList accepts the shapes list fields have accumulated over time: a
// JSON array, a newline-joined string, or anything else, which degrades to a
// single opaque line.
func asStringList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		var out []string
		for _, item := range t {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return textcodec.SplitLines(t)
	default:
		if s := asString(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

func asNumber(v any) *float64 {
	switch t := v.(type) {
	case float64:
		f := t
		return &f
	case string:
		return textcodec.ParseNumber(t)
	case bool, nil:
		return nil
	default:
		return nil
	}
}

func asObjectMap(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return m
}
