package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liftlab/liftlab-backend/internal/logger"
	"github.com/liftlab/liftlab-backend/internal/repos"
	"github.com/liftlab/liftlab-backend/internal/types"
)

// Assumed load for bodyweight movements logged without weight.
const bodyweightFallbackKG = 60.0

const (
	recentWindowDays   = 7
	baselineWindowDays = 28
)

// VolumeWindows is the per-muscle tonnage split downstream scorers consume:
// the last 7 days, and the prior 4 weeks expressed as a weekly average.
type VolumeWindows struct {
	Recent         map[string]float64
	BaselineWeekly map[string]float64
}

type VolumeService interface {
	// GetMuscleVolume returns tonnage per canonical muscle over [from, to).
	GetMuscleVolume(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (map[string]float64, error)
	GetWindows(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) (*VolumeWindows, error)
}

type volumeService struct {
	db      *gorm.DB
	log     *logger.Logger
	setRepo repos.WorkoutSetRepo
}

func NewVolumeService(db *gorm.DB, log *logger.Logger, setRepo repos.WorkoutSetRepo) VolumeService {
	return &volumeService{
		db:      db,
		log:     log.With("service", "VolumeService"),
		setRepo: setRepo,
	}
}

// SetTonnage is reps x weight for one set, substituting the fallback mass
// for unweighted bodyweight work.
func SetTonnage(set *types.WorkoutSet) float64 {
	if set == nil || set.ActualReps <= 0 {
		return 0
	}
	weight := set.ActualWeight
	if weight <= 0 {
		if set.Exercise != nil && set.Exercise.IsBodyweight {
			weight = bodyweightFallbackKG
		} else {
			return 0
		}
	}
	return float64(set.ActualReps) * weight
}

func setMuscle(set *types.WorkoutSet) string {
	if set == nil || set.Exercise == nil {
		return MuscleOther
	}
	return CanonicalMuscle(set.Exercise.PrimaryMuscleGroup)
}

func (vs *volumeService) GetMuscleVolume(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (map[string]float64, error) {
	sets, err := vs.setRepo.GetFinishedInWindow(ctx, tx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching sets: %w", err)
	}

	volumes := map[string]float64{}
	for _, set := range sets {
		tonnage := SetTonnage(set)
		if tonnage <= 0 {
			continue
		}
		volumes[setMuscle(set)] += tonnage
	}
	return volumes, nil
}

func (vs *volumeService) GetWindows(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) (*VolumeWindows, error) {
	recentFrom := now.Add(-recentWindowDays * 24 * time.Hour)
	baselineFrom := now.Add(-(recentWindowDays + baselineWindowDays) * 24 * time.Hour)

	recent, err := vs.GetMuscleVolume(ctx, tx, userID, recentFrom, now)
	if err != nil {
		return nil, err
	}
	baselineTotal, err := vs.GetMuscleVolume(ctx, tx, userID, baselineFrom, recentFrom)
	if err != nil {
		return nil, err
	}

	baselineWeekly := make(map[string]float64, len(baselineTotal))
	for muscle, total := range baselineTotal {
		baselineWeekly[muscle] = total / (baselineWindowDays / 7.0)
	}

	return &VolumeWindows{Recent: recent, BaselineWeekly: baselineWeekly}, nil
}
