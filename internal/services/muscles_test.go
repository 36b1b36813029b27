package services

import "testing"

func TestCanonicalMuscle(t *testing.T) {
	cases := []struct {
		name  string
		label string
		want  string
	}{
		{name: "exact_alias", label: "lats", want: MuscleBack},
		{name: "exact_alias_spaced", label: "upper back", want: MuscleBack},
		{name: "case_and_whitespace", label: "  Quads ", want: MuscleLegs},
		{name: "substring_fallback", label: "rear deltoid raise", want: MuscleShoulders},
		{name: "substring_priority_chest_first", label: "chest and back day", want: MuscleChest},
		{name: "hamstring_substring", label: "hamstring curls", want: MuscleLegs},
		{name: "glute_substring", label: "glute bridge", want: MuscleGlutes},
		{name: "core_alias", label: "obliques", want: MuscleCore},
		{name: "unknown", label: "neck", want: MuscleOther},
		{name: "empty", label: "", want: MuscleOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanonicalMuscle(tc.label)
			if got != tc.want {
				t.Fatalf("CanonicalMuscle(%q)=%q, want %q", tc.label, got, tc.want)
			}
		})
	}
}

func TestCanonicalMuscleClosedOverTaxonomy(t *testing.T) {
	valid := map[string]bool{}
	for _, m := range canonicalMuscles {
		valid[m] = true
	}
	for alias, group := range muscleAliases {
		if !valid[group] {
			t.Fatalf("alias %q maps to %q, not in taxonomy", alias, group)
		}
	}
	for _, f := range muscleSubstringFallback {
		if !valid[f.group] {
			t.Fatalf("fallback %q maps to %q, not in taxonomy", f.substr, f.group)
		}
	}
}
