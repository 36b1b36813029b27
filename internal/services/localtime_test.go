package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIsQuietHour(t *testing.T) {
	cases := []struct {
		name       string
		hour       int
		start, end int
		want       bool
	}{
		{name: "wrap_late_night", hour: 23, start: 22, end: 8, want: true},
		{name: "wrap_early_morning", hour: 2, start: 22, end: 8, want: true},
		{name: "wrap_daytime", hour: 10, start: 22, end: 8, want: false},
		{name: "wrap_boundary_start", hour: 22, start: 22, end: 8, want: true},
		{name: "wrap_boundary_end", hour: 8, start: 22, end: 8, want: false},
		{name: "plain_window_inside", hour: 13, start: 12, end: 14, want: true},
		{name: "plain_window_outside", hour: 14, start: 12, end: 14, want: false},
		{name: "disabled", hour: 3, start: 9, end: 9, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := isQuietHour(tc.hour, tc.start, tc.end)
			if got != tc.want {
				t.Fatalf("isQuietHour(%d, %d, %d)=%v, want %v", tc.hour, tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestComputeNextNotificationAt(t *testing.T) {
	userID := uuid.MustParse("6f1e9a5e-35f0-4ccd-9c21-2f3e6a61f4aa")
	now := time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)

	cases := []struct {
		name   string
		offset int
	}{
		{name: "utc", offset: 0},
		{name: "positive_offset", offset: 120},
		{name: "negative_offset", offset: -300},
		{name: "half_hour_offset", offset: 330},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first := ComputeNextNotificationAt(userID, tc.offset, now)
			second := ComputeNextNotificationAt(userID, tc.offset, now)
			if !first.Equal(second) {
				t.Fatalf("not deterministic: %v vs %v", first, second)
			}
			if !first.After(now) {
				t.Fatalf("next %v not after now %v", first, now)
			}

			local := toLocal(first, tc.offset)
			if local.Hour() != notificationLocalHour || local.Minute() > 30 {
				t.Fatalf("local delivery time %v outside 15:00-15:30", local)
			}
			if local.YearDay() == toLocal(now, tc.offset).YearDay() {
				t.Fatalf("delivery scheduled today, want tomorrow: %v", local)
			}
		})
	}
}

func TestComputeNextNotificationAtJitterStablePerUser(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	aFirst := ComputeNextNotificationAt(a, 0, now)
	aAgain := ComputeNextNotificationAt(a, 0, now.Add(3*time.Minute))
	if aFirst.Minute() != aAgain.Minute() {
		t.Fatalf("jitter changed for same user: %v vs %v", aFirst, aAgain)
	}

	// Different users may collide, but the jitter must stay in window.
	for _, id := range []uuid.UUID{a, b} {
		next := ComputeNextNotificationAt(id, 0, now)
		if next.Minute() < 0 || next.Minute() > 30 {
			t.Fatalf("jitter minute %d outside [0,30]", next.Minute())
		}
	}
}

func TestLocalWeekHelpers(t *testing.T) {
	// 2026-03-13 is a Friday.
	friday := time.Date(2026, 3, 13, 12, 0, 0, 0, time.UTC)

	if got := daysLeftInLocalWeek(friday, 0); got != 2 {
		t.Fatalf("daysLeftInLocalWeek(friday)=%d, want 2", got)
	}
	sunday := friday.AddDate(0, 0, 2)
	if got := daysLeftInLocalWeek(sunday, 0); got != 0 {
		t.Fatalf("daysLeftInLocalWeek(sunday)=%d, want 0", got)
	}
	if !isLocalSunday(sunday, 0) {
		t.Fatalf("isLocalSunday(sunday)=false")
	}

	weekStart := startOfLocalWeekUTC(friday, 0)
	wantStart := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if !weekStart.Equal(wantStart) {
		t.Fatalf("startOfLocalWeekUTC=%v, want %v", weekStart, wantStart)
	}

	// With a +13h offset, late UTC Sunday is already local Monday.
	lateSunday := time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC)
	if mondayIndex(toLocal(lateSunday, 780).Weekday()) != 0 {
		t.Fatalf("expected local monday at offset +780")
	}
}
