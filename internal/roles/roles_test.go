package roles

import (
	"reflect"
	"testing"
)

func TestKnownCodes(t *testing.T) {
	got := KnownCodes()
	want := []string{"MED", "NUR", "PHARM"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("KnownCodes()=%v, want %v", got, want)
	}
}

func TestUnion(t *testing.T) {
	cases := []struct {
		name     string
		known    []string
		observed []string
		want     []string
	}{
		{
			name:  "no_observed",
			known: []string{"MED", "NUR"},
			want:  []string{"MED", "NUR"},
		},
		{
			name:     "observed_subset",
			known:    []string{"MED", "NUR", "PHARM"},
			observed: []string{"NUR"},
			want:     []string{"MED", "NUR", "PHARM"},
		},
		{
			name:     "dynamic_roles_appended_sorted",
			known:    []string{"MED", "NUR"},
			observed: []string{"RT", "AUX", "MED"},
			want:     []string{"MED", "NUR", "AUX", "RT"},
		},
		{
			name:     "blank_codes_dropped",
			known:    []string{"MED", ""},
			observed: []string{" ", "NUR"},
			want:     []string{"MED", "NUR"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Union(tc.known, tc.observed)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Union(%v,%v)=%v, want %v", tc.known, tc.observed, got, tc.want)
			}
		})
	}
}
