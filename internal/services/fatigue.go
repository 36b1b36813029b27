package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liftlab/liftlab-backend/internal/logger"
	"github.com/liftlab/liftlab-backend/internal/repos"
	"github.com/liftlab/liftlab-backend/internal/types"
)

// Fatigue bands. Score ~100 means the muscle is being trained at its
// 4-week baseline.
const (
	FatigueBandUnderTrained = "under_trained"
	FatigueBandOptimal      = "optimal"
	FatigueBandModerate     = "moderate_fatigue"
	FatigueBandHigh         = "high_fatigue"
)

// With no baseline history, assume fresh rather than pushing new users
// toward "avoid training".
const fatigueScoreNoBaseline = 50

// MuscleGroupFatigue is recomputed on demand, never persisted.
type MuscleGroupFatigue struct {
	Muscle            string     `json:"muscle"`
	FatigueScore      int        `json:"fatigue_score"`
	RecoveryLoad      *float64   `json:"recovery_load,omitempty"`
	LastTrainedAt     *time.Time `json:"last_trained_at,omitempty"`
	LastSessionSets   int        `json:"last_session_sets"`
	LastSessionVolume float64    `json:"last_session_volume"`
	BaselineVolume    float64    `json:"baseline_volume"`
	RecentVolume      float64    `json:"recent_volume"`
}

func FatigueBand(score int) string {
	switch {
	case score >= 130:
		return FatigueBandHigh
	case score >= 110:
		return FatigueBandModerate
	case score >= 70:
		return FatigueBandOptimal
	default:
		return FatigueBandUnderTrained
	}
}

func fatigueScore(recentVolume, baselineWeekly float64) int {
	if baselineWeekly <= 0 {
		return fatigueScoreNoBaseline
	}
	return int(math.Round(100 * recentVolume / baselineWeekly))
}

type FatigueService interface {
	// GetMuscleFatigue returns fatigue state per canonical muscle trained
	// in the last five weeks.
	GetMuscleFatigue(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) (map[string]*MuscleGroupFatigue, error)
}

type fatigueService struct {
	db      *gorm.DB
	log     *logger.Logger
	setRepo repos.WorkoutSetRepo
}

func NewFatigueService(db *gorm.DB, log *logger.Logger, setRepo repos.WorkoutSetRepo) FatigueService {
	return &fatigueService{
		db:      db,
		log:     log.With("service", "FatigueService"),
		setRepo: setRepo,
	}
}

func (fs *fatigueService) GetMuscleFatigue(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) (map[string]*MuscleGroupFatigue, error) {
	recentFrom := now.Add(-recentWindowDays * 24 * time.Hour)
	baselineFrom := now.Add(-(recentWindowDays + baselineWindowDays) * 24 * time.Hour)

	sets, err := fs.setRepo.GetFinishedInWindow(ctx, tx, userID, baselineFrom, now)
	if err != nil {
		return nil, fmt.Errorf("fetching sets: %w", err)
	}

	type muscleAccum struct {
		recent         float64
		baselineTotal  float64
		lastSessionID  uuid.UUID
		lastFinishedAt time.Time
		lastSets       int
		lastVolume     float64
	}
	accums := map[string]*muscleAccum{}

	sessionFinish := func(set *types.WorkoutSet) (time.Time, uuid.UUID, bool) {
		if set.Session == nil || set.Session.FinishedAt == nil {
			return time.Time{}, uuid.Nil, false
		}
		return *set.Session.FinishedAt, set.Session.ID, true
	}

	for _, set := range sets {
		tonnage := SetTonnage(set)
		muscle := setMuscle(set)

		acc := accums[muscle]
		if acc == nil {
			acc = &muscleAccum{}
			accums[muscle] = acc
		}

		finishedAt, sessionID, ok := sessionFinish(set)
		if !ok {
			continue
		}

		if finishedAt.Before(recentFrom) {
			acc.baselineTotal += tonnage
		} else {
			acc.recent += tonnage
		}

		if finishedAt.After(acc.lastFinishedAt) {
			acc.lastFinishedAt = finishedAt
			acc.lastSessionID = sessionID
			acc.lastSets = 0
			acc.lastVolume = 0
		}
		if sessionID == acc.lastSessionID {
			acc.lastSets++
			acc.lastVolume += tonnage
		}
	}

	result := make(map[string]*MuscleGroupFatigue, len(accums))
	for muscle, acc := range accums {
		baselineWeekly := acc.baselineTotal / (baselineWindowDays / 7.0)
		entry := &MuscleGroupFatigue{
			Muscle:            muscle,
			FatigueScore:      fatigueScore(acc.recent, baselineWeekly),
			LastSessionSets:   acc.lastSets,
			LastSessionVolume: acc.lastVolume,
			BaselineVolume:    baselineWeekly,
			RecentVolume:      acc.recent,
		}
		if !acc.lastFinishedAt.IsZero() {
			t := acc.lastFinishedAt
			entry.LastTrainedAt = &t
		}
		result[muscle] = entry
	}
	return result, nil
}
