package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liftlab/liftlab-backend/internal/logger"
)

// Readiness status thresholds, ordered and non-overlapping.
const (
	ReadinessBlockedMax     = 30
	ReadinessHighFatigueMax = 45
	ReadinessModerateMax    = 65
	ReadinessFreshMin       = 85
)

const (
	ReadinessStatusBlocked     = "blocked"
	ReadinessStatusHighFatigue = "high_fatigue"
	ReadinessStatusModerate    = "moderate"
	ReadinessStatusReady       = "ready"
	ReadinessStatusFresh       = "fresh"
)

// MuscleReadiness answers "how recovered is this muscle right now",
// independent of the weekly baseline comparison.
type MuscleReadiness struct {
	Muscle       string `json:"muscle"`
	Readiness    int    `json:"readiness"`
	FatigueScore int    `json:"fatigue_score"`
	Status       string `json:"status"`
}

func ReadinessStatus(readiness int) string {
	switch {
	case readiness <= ReadinessBlockedMax:
		return ReadinessStatusBlocked
	case readiness <= ReadinessHighFatigueMax:
		return ReadinessStatusHighFatigue
	case readiness <= ReadinessModerateMax:
		return ReadinessStatusModerate
	case readiness >= ReadinessFreshMin:
		return ReadinessStatusFresh
	default:
		return ReadinessStatusReady
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// readinessFromLoad is the precomputed-load path: a recovery load of 1 or
// more means fully loaded, 0 means fully recovered.
func readinessFromLoad(load float64) int {
	return int(math.Round(clamp(100*(1-math.Min(1, load)), 0, 100)))
}

// readinessFromFatigue is the last-resort fallback when no session timing
// data exists: derive an estimate from the baseline-relative fatigue score.
func readinessFromFatigue(fatigueScore int) int {
	return int(math.Round(clamp(120-(float64(fatigueScore)-70)*1.2, 0, 100)))
}

// ComputeMuscleReadiness estimates recovery for one muscle at time now.
func ComputeMuscleReadiness(f *MuscleGroupFatigue, now time.Time) int {
	if f == nil {
		return 100
	}
	if f.RecoveryLoad != nil && !math.IsNaN(*f.RecoveryLoad) && !math.IsInf(*f.RecoveryLoad, 0) {
		return readinessFromLoad(*f.RecoveryLoad)
	}

	if f.LastTrainedAt == nil || f.LastSessionSets <= 0 || f.LastSessionVolume <= 0 {
		return readinessFromFatigue(f.FatigueScore)
	}

	volumeDenominator := f.BaselineVolume * 0.4
	if volumeDenominator <= 0 {
		volumeDenominator = 8000
	}

	setsIntensity := clamp(float64(f.LastSessionSets-1)/5, 0, 1)
	volumeIntensity := clamp(f.LastSessionVolume/volumeDenominator, 0, 1)
	intensity := math.Max(setsIntensity, volumeIntensity)
	if math.IsNaN(intensity) || math.IsInf(intensity, 0) {
		return readinessFromFatigue(f.FatigueScore)
	}

	initialReadiness := 100 * (1 - intensity)
	recoveryHours := 12 + intensity*84

	elapsedHours := now.Sub(*f.LastTrainedAt).Hours()
	progress := clamp(elapsedHours/recoveryHours, 0, 1)

	readiness := initialReadiness + (100-initialReadiness)*progress
	return int(math.Round(clamp(readiness, 0, 100)))
}

// ComputeReadinessMap canonicalizes arbitrary muscle labels and merges
// aliased entries conservatively: minimum readiness, maximum fatigue.
func ComputeReadinessMap(fatigue map[string]*MuscleGroupFatigue, now time.Time) []MuscleReadiness {
	merged := map[string]*MuscleReadiness{}

	for label, f := range fatigue {
		muscle := CanonicalMuscle(label)
		readiness := ComputeMuscleReadiness(f, now)
		fatigueScore := 0
		if f != nil {
			fatigueScore = f.FatigueScore
		}

		existing := merged[muscle]
		if existing == nil {
			merged[muscle] = &MuscleReadiness{
				Muscle:       muscle,
				Readiness:    readiness,
				FatigueScore: fatigueScore,
			}
			continue
		}
		if readiness < existing.Readiness {
			existing.Readiness = readiness
		}
		if fatigueScore > existing.FatigueScore {
			existing.FatigueScore = fatigueScore
		}
	}

	result := make([]MuscleReadiness, 0, len(merged))
	for _, entry := range merged {
		entry.Status = ReadinessStatus(entry.Readiness)
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Muscle < result[j].Muscle })
	return result
}

type ReadinessService interface {
	GetReadiness(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) ([]MuscleReadiness, error)
}

type readinessService struct {
	db             *gorm.DB
	log            *logger.Logger
	fatigueService FatigueService
}

func NewReadinessService(db *gorm.DB, log *logger.Logger, fatigueService FatigueService) ReadinessService {
	return &readinessService{
		db:             db,
		log:            log.With("service", "ReadinessService"),
		fatigueService: fatigueService,
	}
}

func (rs *readinessService) GetReadiness(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) ([]MuscleReadiness, error) {
	fatigue, err := rs.fatigueService.GetMuscleFatigue(ctx, tx, userID, now)
	if err != nil {
		return nil, err
	}
	return ComputeReadinessMap(fatigue, now), nil
}
