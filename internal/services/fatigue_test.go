package services

import "testing"

func TestFatigueScore(t *testing.T) {
	cases := []struct {
		name     string
		recent   float64
		baseline float64
		want     int
	}{
		{name: "no_baseline", recent: 5000, baseline: 0, want: fatigueScoreNoBaseline},
		{name: "negative_baseline", recent: 5000, baseline: -1, want: fatigueScoreNoBaseline},
		{name: "at_baseline", recent: 4000, baseline: 4000, want: 100},
		{name: "half_baseline", recent: 2000, baseline: 4000, want: 50},
		{name: "over_baseline", recent: 5200, baseline: 4000, want: 130},
		{name: "rounding_up", recent: 1015, baseline: 1000, want: 102},
		{name: "rounding_half", recent: 1005, baseline: 1000, want: 101},
		{name: "no_recent_work", recent: 0, baseline: 4000, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := fatigueScore(tc.recent, tc.baseline); got != tc.want {
				t.Fatalf("fatigueScore(%v, %v)=%d, want %d", tc.recent, tc.baseline, got, tc.want)
			}
		})
	}
}

func TestFatigueBand(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{score: 0, want: FatigueBandUnderTrained},
		{score: 69, want: FatigueBandUnderTrained},
		{score: 70, want: FatigueBandOptimal},
		{score: 100, want: FatigueBandOptimal},
		{score: 109, want: FatigueBandOptimal},
		{score: 110, want: FatigueBandModerate},
		{score: 129, want: FatigueBandModerate},
		{score: 130, want: FatigueBandHigh},
		{score: 250, want: FatigueBandHigh},
	}

	for _, tc := range cases {
		if got := FatigueBand(tc.score); got != tc.want {
			t.Errorf("FatigueBand(%d)=%q, want %q", tc.score, got, tc.want)
		}
	}
}
