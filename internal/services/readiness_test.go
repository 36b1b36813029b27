package services

import (
	"testing"
	"time"
)

func floatPtr(v float64) *float64 { return &v }

func TestReadinessFromLoad(t *testing.T) {
	cases := []struct {
		load float64
		want int
	}{
		{load: 0, want: 100},
		{load: 0.8, want: 20},
		{load: 0.5, want: 50},
		{load: 1, want: 0},
		{load: 2.5, want: 0},
		{load: -0.2, want: 100},
	}

	for _, tc := range cases {
		if got := readinessFromLoad(tc.load); got != tc.want {
			t.Errorf("readinessFromLoad(%v)=%d, want %d", tc.load, got, tc.want)
		}
	}
}

func TestReadinessFromFatigue(t *testing.T) {
	cases := []struct {
		score int
		want  int
	}{
		{score: 70, want: 100},
		{score: 100, want: 84},
		{score: 130, want: 48},
		{score: 170, want: 0},
		{score: 0, want: 100},
	}

	for _, tc := range cases {
		if got := readinessFromFatigue(tc.score); got != tc.want {
			t.Errorf("readinessFromFatigue(%d)=%d, want %d", tc.score, got, tc.want)
		}
	}
}

func TestComputeMuscleReadiness(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	t.Run("nil_entry_is_fully_fresh", func(t *testing.T) {
		if got := ComputeMuscleReadiness(nil, now); got != 100 {
			t.Fatalf("got %d, want 100", got)
		}
	})

	t.Run("recovery_load_wins_over_timing", func(t *testing.T) {
		trained := now.Add(-96 * time.Hour)
		f := &MuscleGroupFatigue{
			FatigueScore:      150,
			RecoveryLoad:      floatPtr(0.8),
			LastTrainedAt:     &trained,
			LastSessionSets:   10,
			LastSessionVolume: 9000,
		}
		if got := ComputeMuscleReadiness(f, now); got != 20 {
			t.Fatalf("got %d, want 20", got)
		}
	})

	t.Run("max_intensity_halfway_recovered", func(t *testing.T) {
		// 6+ sets pushes intensity to 1, so recovery takes 96h and the
		// linear ramp sits at 50 after 48h.
		trained := now.Add(-48 * time.Hour)
		f := &MuscleGroupFatigue{
			LastTrainedAt:     &trained,
			LastSessionSets:   6,
			LastSessionVolume: 100,
			BaselineVolume:    4000,
		}
		if got := ComputeMuscleReadiness(f, now); got != 50 {
			t.Fatalf("got %d, want 50", got)
		}
	})

	t.Run("volume_intensity_uses_default_denominator", func(t *testing.T) {
		trained := now
		f := &MuscleGroupFatigue{
			LastTrainedAt:     &trained,
			LastSessionSets:   1,
			LastSessionVolume: 8000,
			BaselineVolume:    0,
		}
		// volume/8000 = 1, sets contribute 0; just trained means 0 readiness.
		if got := ComputeMuscleReadiness(f, now); got != 0 {
			t.Fatalf("got %d, want 0", got)
		}
	})

	t.Run("fully_elapsed_recovery_is_100", func(t *testing.T) {
		trained := now.Add(-200 * time.Hour)
		f := &MuscleGroupFatigue{
			LastTrainedAt:     &trained,
			LastSessionSets:   6,
			LastSessionVolume: 12000,
			BaselineVolume:    4000,
		}
		if got := ComputeMuscleReadiness(f, now); got != 100 {
			t.Fatalf("got %d, want 100", got)
		}
	})

	t.Run("fallback_when_no_timing_data", func(t *testing.T) {
		f := &MuscleGroupFatigue{FatigueScore: 130}
		if got := ComputeMuscleReadiness(f, now); got != 48 {
			t.Fatalf("got %d, want 48", got)
		}
	})

	t.Run("always_within_bounds", func(t *testing.T) {
		trained := now.Add(-1 * time.Hour)
		inputs := []*MuscleGroupFatigue{
			{FatigueScore: -500},
			{FatigueScore: 900},
			{RecoveryLoad: floatPtr(-10)},
			{RecoveryLoad: floatPtr(10)},
			{LastTrainedAt: &trained, LastSessionSets: 50, LastSessionVolume: 1e9, BaselineVolume: 1},
		}
		for i, f := range inputs {
			got := ComputeMuscleReadiness(f, now)
			if got < 0 || got > 100 {
				t.Errorf("input %d: readiness %d outside [0,100]", i, got)
			}
		}
	})
}

func TestReadinessStatus(t *testing.T) {
	cases := []struct {
		readiness int
		want      string
	}{
		{readiness: 0, want: ReadinessStatusBlocked},
		{readiness: 30, want: ReadinessStatusBlocked},
		{readiness: 31, want: ReadinessStatusHighFatigue},
		{readiness: 45, want: ReadinessStatusHighFatigue},
		{readiness: 46, want: ReadinessStatusModerate},
		{readiness: 65, want: ReadinessStatusModerate},
		{readiness: 66, want: ReadinessStatusReady},
		{readiness: 84, want: ReadinessStatusReady},
		{readiness: 85, want: ReadinessStatusFresh},
		{readiness: 100, want: ReadinessStatusFresh},
	}

	for _, tc := range cases {
		if got := ReadinessStatus(tc.readiness); got != tc.want {
			t.Errorf("ReadinessStatus(%d)=%q, want %q", tc.readiness, got, tc.want)
		}
	}
}

func TestComputeReadinessMapMergesAliases(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	fatigue := map[string]*MuscleGroupFatigue{
		"quads":      {FatigueScore: 90, RecoveryLoad: floatPtr(0.7)},
		"hamstrings": {FatigueScore: 120, RecoveryLoad: floatPtr(0.4)},
		"chest":      {FatigueScore: 60, RecoveryLoad: floatPtr(0.1)},
	}

	result := ComputeReadinessMap(fatigue, now)
	if len(result) != 2 {
		t.Fatalf("got %d entries, want 2 (legs merged)", len(result))
	}

	// Sorted by muscle name: chest before legs.
	if result[0].Muscle != MuscleChest || result[1].Muscle != MuscleLegs {
		t.Fatalf("unexpected order: %q, %q", result[0].Muscle, result[1].Muscle)
	}

	legs := result[1]
	if legs.Readiness != 30 {
		t.Errorf("merged legs readiness=%d, want min 30", legs.Readiness)
	}
	if legs.FatigueScore != 120 {
		t.Errorf("merged legs fatigue=%d, want max 120", legs.FatigueScore)
	}
	if legs.Status != ReadinessStatusBlocked {
		t.Errorf("merged legs status=%q, want %q", legs.Status, ReadinessStatusBlocked)
	}
}
