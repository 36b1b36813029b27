package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/liftlab/liftlab-backend/internal/clients/redis"
	"github.com/liftlab/liftlab-backend/internal/logger"
	"github.com/liftlab/liftlab-backend/internal/repos"
	"github.com/liftlab/liftlab-backend/internal/types"
)

const (
	recapLookbackDays = 56

	QualityStatusPeak  = "peak"
	QualityStatusSolid = "solid"
	QualityStatusDip   = "dip"
)

const (
	HighlightBestQuality   = "best_quality"
	HighlightVolumeOutlier = "volume_outlier"
	HighlightActiveStreak  = "active_streak"
	HighlightBestStreak    = "best_streak"
	HighlightQualityDip    = "quality_dip"
)

type SessionQuality struct {
	SessionID  uuid.UUID `json:"session_id"`
	LocalDate  string    `json:"local_date"`
	FinishedAt time.Time `json:"finished_at"`
	Volume     float64   `json:"volume"`
	MeanRPE    float64   `json:"mean_rpe"`
	Quality    int       `json:"quality"`
	Status     string    `json:"status"`
}

type StreakSummary struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

type Highlight struct {
	Kind   string    `json:"kind"`
	Title  string    `json:"title"`
	Detail string    `json:"detail"`
	Date   time.Time `json:"date"`
}

type QualityDipAlert struct {
	ConsecutiveDips int    `json:"consecutive_dips"`
	Message         string `json:"message"`
}

type WinBackAlert struct {
	DaysSinceLastSession int    `json:"days_since_last_session"`
	Message              string `json:"message"`
}

// RecapSlice is the rolling 8-week summary served to clients and consumed
// by the notification rules. Cached per user for two minutes.
type RecapSlice struct {
	Quality    []SessionQuality `json:"quality"`
	Streak     StreakSummary    `json:"streak"`
	Highlights []Highlight      `json:"highlights"`
	QualityDip *QualityDipAlert `json:"quality_dip,omitempty"`
	WinBack    *WinBackAlert    `json:"win_back,omitempty"`
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// sessionQualityScore blends volume against baseline with how close the
// session's effort sat to the RPE-8 sweet spot, nudged up to 10% either way
// by the RPE trend against baseline.
func sessionQualityScore(volume, baselineVolume, rpe, baselineRPE float64) int {
	if baselineVolume <= 0 {
		baselineVolume = volume
	}
	if baselineVolume <= 0 {
		return 35
	}
	if rpe <= 0 {
		rpe = 8
	}
	if baselineRPE <= 0 {
		baselineRPE = rpe
	}

	volumeRatio := clamp(volume/baselineVolume, 0.4, 1.6)
	rpeComponent := clamp(1-math.Abs(rpe-8)/5, 0.45, 1.05)
	rpeTrendBoost := clamp(1+(baselineRPE-rpe)*0.05, 0.9, 1.1)

	score := (0.7*volumeRatio + 0.3*rpeComponent) * 100 * rpeTrendBoost
	return int(math.Round(clamp(score, 35, 100)))
}

func qualityStatus(score int) string {
	switch {
	case score >= 90:
		return QualityStatusPeak
	case score >= 75:
		return QualityStatusSolid
	default:
		return QualityStatusDip
	}
}

func localDayIndex(t time.Time, offsetMinutes int) int {
	return int(toLocal(t, offsetMinutes).Unix() / 86400)
}

// computeStreaks walks local calendar days. The current streak may end
// today or yesterday; an older last session means the streak is broken.
func computeStreaks(trainedDays map[int]bool, todayIdx int) StreakSummary {
	if len(trainedDays) == 0 {
		return StreakSummary{}
	}

	anchor := -1
	if trainedDays[todayIdx] {
		anchor = todayIdx
	} else if trainedDays[todayIdx-1] {
		anchor = todayIdx - 1
	}

	current := 0
	for day := anchor; anchor >= 0 && trainedDays[day]; day-- {
		current++
	}

	days := make([]int, 0, len(trainedDays))
	for day := range trainedDays {
		days = append(days, day)
	}
	sort.Ints(days)

	best, run := 0, 0
	for i, day := range days {
		if i > 0 && day == days[i-1]+1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}

	return StreakSummary{Current: current, Best: best}
}

type RecapService interface {
	GetRecap(ctx context.Context, tx *gorm.DB, user *types.User, now time.Time) (*RecapSlice, error)
}

type recapService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.WorkoutSessionRepo
	setRepo     repos.WorkoutSetRepo
	cache       redisclient.RecapCache
}

func NewRecapService(db *gorm.DB, log *logger.Logger, sessionRepo repos.WorkoutSessionRepo, setRepo repos.WorkoutSetRepo, cache redisclient.RecapCache) RecapService {
	return &recapService{
		db:          db,
		log:         log.With("service", "RecapService"),
		sessionRepo: sessionRepo,
		setRepo:     setRepo,
		cache:       cache,
	}
}

func (rs *recapService) GetRecap(ctx context.Context, tx *gorm.DB, user *types.User, now time.Time) (*RecapSlice, error) {
	if user == nil {
		return nil, fmt.Errorf("user required")
	}

	if rs.cache != nil {
		var cached RecapSlice
		hit, err := rs.cache.Get(ctx, user.ID, &cached)
		if err != nil {
			rs.log.Warn("Recap cache read failed, recomputing", "user_id", user.ID, "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	slice, err := rs.compute(ctx, tx, user, now)
	if err != nil {
		return nil, err
	}

	if rs.cache != nil {
		if err := rs.cache.Set(ctx, user.ID, slice); err != nil {
			rs.log.Warn("Recap cache write failed", "user_id", user.ID, "error", err)
		}
	}
	return slice, nil
}

func (rs *recapService) compute(ctx context.Context, tx *gorm.DB, user *types.User, now time.Time) (*RecapSlice, error) {
	from := now.Add(-recapLookbackDays * 24 * time.Hour)
	sessions, err := rs.sessionRepo.GetFinishedInWindow(ctx, tx, user.ID, from, now)
	if err != nil {
		return nil, fmt.Errorf("fetching sessions: %w", err)
	}

	sessionIDs := make([]uuid.UUID, 0, len(sessions))
	for _, s := range sessions {
		sessionIDs = append(sessionIDs, s.ID)
	}
	sets, err := rs.setRepo.GetBySessionIDs(ctx, tx, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching sets: %w", err)
	}

	type sessionStats struct {
		volume   float64
		rpeSum   float64
		rpeCount int
	}
	statsBySession := map[uuid.UUID]*sessionStats{}
	for _, set := range sets {
		stats := statsBySession[set.SessionID]
		if stats == nil {
			stats = &sessionStats{}
			statsBySession[set.SessionID] = stats
		}
		stats.volume += SetTonnage(set)
		if set.RPE != nil && *set.RPE > 0 {
			stats.rpeSum += *set.RPE
			stats.rpeCount++
		}
	}

	var volumes, rpes []float64
	for _, s := range sessions {
		stats := statsBySession[s.ID]
		if stats == nil {
			continue
		}
		volumes = append(volumes, stats.volume)
		if stats.rpeCount > 0 {
			rpes = append(rpes, stats.rpeSum/float64(stats.rpeCount))
		}
	}

	baselineVolume := 0.0
	if len(volumes) >= 3 {
		baselineVolume = median(volumes)
	} else if len(volumes) > 0 {
		baselineVolume = volumes[0]
	}
	baselineRPE := 0.0
	if len(rpes) >= 3 {
		sum := 0.0
		for _, r := range rpes {
			sum += r
		}
		baselineRPE = sum / float64(len(rpes))
	} else if len(rpes) > 0 {
		baselineRPE = rpes[0]
	}

	offset := user.TimezoneOffsetMinutes
	trainedDays := map[int]bool{}
	quality := make([]SessionQuality, 0, len(sessions))
	for _, s := range sessions {
		if s.FinishedAt == nil {
			continue
		}
		stats := statsBySession[s.ID]
		if stats == nil {
			stats = &sessionStats{}
		}
		meanRPE := 0.0
		if stats.rpeCount > 0 {
			meanRPE = stats.rpeSum / float64(stats.rpeCount)
		}
		score := sessionQualityScore(stats.volume, baselineVolume, meanRPE, baselineRPE)
		quality = append(quality, SessionQuality{
			SessionID:  s.ID,
			LocalDate:  localDateKey(*s.FinishedAt, offset),
			FinishedAt: *s.FinishedAt,
			Volume:     stats.volume,
			MeanRPE:    meanRPE,
			Quality:    score,
			Status:     qualityStatus(score),
		})
		trainedDays[localDayIndex(*s.FinishedAt, offset)] = true
	}

	// Newest first for clients; streak math uses the day set.
	sort.Slice(quality, func(i, j int) bool { return quality[i].FinishedAt.After(quality[j].FinishedAt) })
	streak := computeStreaks(trainedDays, localDayIndex(now, offset))

	slice := &RecapSlice{
		Quality:    quality,
		Streak:     streak,
		Highlights: []Highlight{},
	}

	rs.applyDipAlerts(slice, now, offset)
	slice.Highlights = buildHighlights(slice, baselineVolume)
	return slice, nil
}

// applyDipAlerts flags a quality dip when the two most recent sessions both
// scored "dip", with escalating wording at three or more, and a win-back
// prompt once the user has also been away five or more days.
func (rs *recapService) applyDipAlerts(slice *RecapSlice, now time.Time, offsetMinutes int) {
	if len(slice.Quality) < 2 {
		return
	}
	if slice.Quality[0].Status != QualityStatusDip || slice.Quality[1].Status != QualityStatusDip {
		return
	}

	consecutive := 0
	for _, q := range slice.Quality {
		if q.Status != QualityStatusDip {
			break
		}
		consecutive++
	}

	message := "Your last two sessions dipped below your usual quality. A lighter session can reset the trend."
	if consecutive >= 3 {
		message = fmt.Sprintf("Quality has dipped %d sessions in a row. Consider a deload or an easy session to rebuild momentum.", consecutive)
	}
	slice.QualityDip = &QualityDipAlert{ConsecutiveDips: consecutive, Message: message}

	daysSince := localDayIndex(now, offsetMinutes) - localDayIndex(slice.Quality[0].FinishedAt, offsetMinutes)
	if daysSince >= 5 {
		slice.WinBack = &WinBackAlert{
			DaysSinceLastSession: daysSince,
			Message:              fmt.Sprintf("It's been %d days. One short session is all it takes to turn the dip around.", daysSince),
		}
	}
}

func buildHighlights(slice *RecapSlice, baselineVolume float64) []Highlight {
	var highlights []Highlight

	var best *SessionQuality
	for i := range slice.Quality {
		if best == nil || slice.Quality[i].Quality > best.Quality {
			best = &slice.Quality[i]
		}
	}
	if best != nil {
		highlights = append(highlights, Highlight{
			Kind:   HighlightBestQuality,
			Title:  "Best session",
			Detail: fmt.Sprintf("Quality %d on %s", best.Quality, best.LocalDate),
			Date:   best.FinishedAt,
		})
	}

	if baselineVolume > 0 {
		for i := range slice.Quality {
			q := &slice.Quality[i]
			if q.Volume > baselineVolume*1.15 {
				highlights = append(highlights, Highlight{
					Kind:   HighlightVolumeOutlier,
					Title:  "Volume spike",
					Detail: fmt.Sprintf("%.0f total, %.0f%% of your baseline", q.Volume, 100*q.Volume/baselineVolume),
					Date:   q.FinishedAt,
				})
			}
		}
	}

	if len(slice.Quality) > 0 {
		latest := slice.Quality[0].FinishedAt
		if slice.Streak.Current >= 3 {
			highlights = append(highlights, Highlight{
				Kind:   HighlightActiveStreak,
				Title:  "Streak going",
				Detail: fmt.Sprintf("%d days in a row", slice.Streak.Current),
				Date:   latest,
			})
		} else if slice.Streak.Best >= 5 {
			highlights = append(highlights, Highlight{
				Kind:   HighlightBestStreak,
				Title:  "Streak record",
				Detail: fmt.Sprintf("Best run: %d days", slice.Streak.Best),
				Date:   latest,
			})
		}
		if slice.QualityDip != nil {
			highlights = append(highlights, Highlight{
				Kind:   HighlightQualityDip,
				Title:  "Quality dip",
				Detail: slice.QualityDip.Message,
				Date:   latest,
			})
		}
	}

	sort.Slice(highlights, func(i, j int) bool { return highlights[i].Date.After(highlights[j].Date) })
	if len(highlights) > 6 {
		highlights = highlights[:6]
	}
	return highlights
}
