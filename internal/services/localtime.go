package services

import (
	"hash/fnv"
	"time"

	"github.com/google/uuid"
)

// Timezone handling works on a fixed UTC-minute offset stored per user.
// There is no IANA zone and no DST modeling; "local" always means
// UTC + offset.

func toLocal(t time.Time, offsetMinutes int) time.Time {
	return t.UTC().Add(time.Duration(offsetMinutes) * time.Minute)
}

func fromLocal(local time.Time, offsetMinutes int) time.Time {
	return local.Add(-time.Duration(offsetMinutes) * time.Minute)
}

// localDateKey returns the user's calendar date for t, used for streaks and
// per-day dedup windows.
func localDateKey(t time.Time, offsetMinutes int) string {
	return toLocal(t, offsetMinutes).Format("2006-01-02")
}

// startOfLocalDayUTC returns the UTC instant at which the user's current
// local day began.
func startOfLocalDayUTC(now time.Time, offsetMinutes int) time.Time {
	local := toLocal(now, offsetMinutes)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return fromLocal(midnight, offsetMinutes)
}

// mondayIndex maps time.Weekday to Monday=0 .. Sunday=6. Local weeks run
// Monday through Sunday.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// startOfLocalWeekUTC returns the UTC instant of the user's most recent
// local Monday 00:00.
func startOfLocalWeekUTC(now time.Time, offsetMinutes int) time.Time {
	local := toLocal(now, offsetMinutes)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	monday := midnight.AddDate(0, 0, -mondayIndex(local.Weekday()))
	return fromLocal(monday, offsetMinutes)
}

// daysLeftInLocalWeek counts whole local days remaining after today, so a
// local Friday yields 2 and a local Sunday yields 0.
func daysLeftInLocalWeek(now time.Time, offsetMinutes int) int {
	return 6 - mondayIndex(toLocal(now, offsetMinutes).Weekday())
}

func isLocalSunday(now time.Time, offsetMinutes int) bool {
	return toLocal(now, offsetMinutes).Weekday() == time.Sunday
}

// isQuietHour reports whether the local hour falls inside the quiet window.
// The window may wrap midnight (start=22, end=8 covers 22..23 and 0..7);
// start==end disables it.
func isQuietHour(localHour, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return localHour >= start && localHour < end
	}
	return localHour >= start || localHour < end
}

const (
	notificationLocalHour = 15
	jitterWindowMinutes   = 31
)

// ComputeNextNotificationAt returns tomorrow's local 15:00 plus a stable
// per-user jitter of 0-30 minutes, converted back to UTC. Deterministic for
// fixed (userID, offset, now) and always strictly after now.
func ComputeNextNotificationAt(userID uuid.UUID, offsetMinutes int, now time.Time) time.Time {
	local := toLocal(now, offsetMinutes)
	tomorrow := time.Date(local.Year(), local.Month(), local.Day(), notificationLocalHour, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	h := fnv.New32a()
	_, _ = h.Write(userID[:])
	jitter := time.Duration(h.Sum32()%jitterWindowMinutes) * time.Minute

	return fromLocal(tomorrow.Add(jitter), offsetMinutes)
}
