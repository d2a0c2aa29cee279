package canonical

import (
	"reflect"
	"testing"
)

func TestNormalizeMode(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want []string
	}{
		{"plain_string", "online", []string{"online"}},
		{"array", []any{"online", "presencial"}, []string{"online", "presencial"}},
		{"legacy_dual_expands", "dual", []string{"online", "presencial"}},
		{"dual_inside_array", []any{"presencial", "dual"}, []string{"presencial", "online"}},
		{"case_and_whitespace", []any{" Online ", "ONLINE"}, []string{"online"}},
		{"nil", nil, nil},
		{"empty_strings_dropped", []any{"", "  "}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeMode(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("NormalizeMode(%v)=%v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestModeJSONNeverEmitsDual(t *testing.T) {
	raw := ModeJSON([]string{"dual"})
	if string(raw) != `["online","presencial"]` {
		t.Fatalf("mode=%s, the legacy sentinel must not survive a save", raw)
	}
	if ModeJSON(nil) != nil {
		t.Fatalf("empty mode must serialize to NULL")
	}
}
