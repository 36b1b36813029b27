package services

import (
	"testing"
	"time"
)

func TestMedian(t *testing.T) {
	cases := []struct {
		name string
		in   []float64
		want float64
	}{
		{name: "empty", in: nil, want: 0},
		{name: "single", in: []float64{7}, want: 7},
		{name: "odd", in: []float64{3, 1, 2}, want: 2},
		{name: "even", in: []float64{4, 1, 3, 2}, want: 2.5},
		{name: "unsorted_input_untouched", in: []float64{9, 1, 5}, want: 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := append([]float64(nil), tc.in...)
			if got := median(in); got != tc.want {
				t.Fatalf("median(%v)=%v, want %v", tc.in, got, tc.want)
			}
			for i := range in {
				if in[i] != tc.in[i] {
					t.Fatalf("median mutated its input: %v", in)
				}
			}
		})
	}
}

func TestSessionQualityScore(t *testing.T) {
	cases := []struct {
		name                   string
		volume, baselineVolume float64
		rpe, baselineRPE       float64
		want                   int
	}{
		{name: "at_baseline_sweet_spot", volume: 5000, baselineVolume: 5000, rpe: 8, baselineRPE: 8, want: 100},
		{name: "no_volume_at_all", volume: 0, baselineVolume: 0, rpe: 0, baselineRPE: 0, want: 35},
		{name: "no_baseline_uses_own_volume", volume: 4000, baselineVolume: 0, rpe: 8, baselineRPE: 8, want: 100},
		{name: "half_volume", volume: 2500, baselineVolume: 5000, rpe: 8, baselineRPE: 8, want: 65},
		{name: "volume_ratio_floor", volume: 100, baselineVolume: 5000, rpe: 8, baselineRPE: 8, want: 58},
		{name: "missing_rpe_defaults_to_8", volume: 5000, baselineVolume: 5000, rpe: 0, baselineRPE: 0, want: 100},
		{name: "rpe_far_from_sweet_spot", volume: 5000, baselineVolume: 5000, rpe: 3, baselineRPE: 8, want: 92},
		{name: "grinding_above_baseline_rpe", volume: 4000, baselineVolume: 5000, rpe: 9.5, baselineRPE: 8, want: 71},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sessionQualityScore(tc.volume, tc.baselineVolume, tc.rpe, tc.baselineRPE)
			if got != tc.want {
				t.Fatalf("sessionQualityScore=%d, want %d", got, tc.want)
			}
			if got < 35 || got > 100 {
				t.Fatalf("score %d outside [35,100]", got)
			}
		})
	}
}

func TestSessionQualityScoreMonotonicInVolume(t *testing.T) {
	prev := -1
	for _, volume := range []float64{1000, 2000, 3000, 4000, 5000, 6000} {
		score := sessionQualityScore(volume, 5000, 8, 8)
		if score < prev {
			t.Fatalf("score dropped from %d to %d as volume rose to %v", prev, score, volume)
		}
		prev = score
	}
}

func TestQualityStatus(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{score: 100, want: QualityStatusPeak},
		{score: 90, want: QualityStatusPeak},
		{score: 89, want: QualityStatusSolid},
		{score: 75, want: QualityStatusSolid},
		{score: 74, want: QualityStatusDip},
		{score: 35, want: QualityStatusDip},
	}

	for _, tc := range cases {
		if got := qualityStatus(tc.score); got != tc.want {
			t.Errorf("qualityStatus(%d)=%q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestComputeStreaks(t *testing.T) {
	today := localDayIndex(time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC), 0)

	cases := []struct {
		name string
		days []int
		want StreakSummary
	}{
		{name: "empty", days: nil, want: StreakSummary{}},
		{name: "today_only", days: []int{today}, want: StreakSummary{Current: 1, Best: 1}},
		{name: "three_ending_today", days: []int{today - 2, today - 1, today}, want: StreakSummary{Current: 3, Best: 3}},
		{name: "three_ending_yesterday", days: []int{today - 3, today - 2, today - 1}, want: StreakSummary{Current: 3, Best: 3}},
		{name: "gap_at_yesterday_breaks_current", days: []int{today - 2, today}, want: StreakSummary{Current: 1, Best: 1}},
		{name: "stale_run_keeps_best_only", days: []int{today - 10, today - 9, today - 8, today - 7, today - 6}, want: StreakSummary{Current: 0, Best: 5}},
		{name: "best_exceeds_current", days: []int{today - 9, today - 8, today - 7, today - 6, today - 1, today}, want: StreakSummary{Current: 2, Best: 4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trained := map[int]bool{}
			for _, d := range tc.days {
				trained[d] = true
			}
			got := computeStreaks(trained, today)
			if got != tc.want {
				t.Fatalf("computeStreaks=%+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestBuildHighlights(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	day := func(n int) time.Time { return now.AddDate(0, 0, -n) }

	slice := &RecapSlice{
		Quality: []SessionQuality{
			{LocalDate: "2026-04-01", FinishedAt: day(0), Volume: 6000, Quality: 95, Status: QualityStatusPeak},
			{LocalDate: "2026-03-31", FinishedAt: day(1), Volume: 4800, Quality: 80, Status: QualityStatusSolid},
			{LocalDate: "2026-03-30", FinishedAt: day(2), Volume: 4500, Quality: 78, Status: QualityStatusSolid},
		},
		Streak: StreakSummary{Current: 3, Best: 3},
	}

	highlights := buildHighlights(slice, 4800)

	kinds := map[string]int{}
	for _, h := range highlights {
		kinds[h.Kind]++
	}
	if kinds[HighlightBestQuality] != 1 {
		t.Errorf("want exactly one best_quality highlight, got %d", kinds[HighlightBestQuality])
	}
	if kinds[HighlightVolumeOutlier] != 1 {
		t.Errorf("want one volume_outlier (6000 > 115%% of 4800), got %d", kinds[HighlightVolumeOutlier])
	}
	if kinds[HighlightActiveStreak] != 1 {
		t.Errorf("want one active_streak at current=3, got %d", kinds[HighlightActiveStreak])
	}
	if len(highlights) > 6 {
		t.Errorf("highlights not capped at 6: %d", len(highlights))
	}
	for i := 1; i < len(highlights); i++ {
		if highlights[i].Date.After(highlights[i-1].Date) {
			t.Errorf("highlights not sorted newest first at index %d", i)
		}
	}
}
