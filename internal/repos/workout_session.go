package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liftlab/liftlab-backend/internal/logger"
	"github.com/liftlab/liftlab-backend/internal/types"
)

type WorkoutSessionRepo interface {
	// GetFinishedInWindow returns analytics-eligible sessions with
	// finished_at in [from, to), oldest first.
	GetFinishedInWindow(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]*types.WorkoutSession, error)
	GetLastFinished(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.WorkoutSession, error)
	GetRecentFinished(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.WorkoutSession, error)
	CountFinishedBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (int, error)
}

type workoutSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkoutSessionRepo(db *gorm.DB, baseLog *logger.Logger) WorkoutSessionRepo {
	return &workoutSessionRepo{db: db, log: baseLog.With("repo", "WorkoutSessionRepo")}
}

func (r *workoutSessionRepo) GetFinishedInWindow(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]*types.WorkoutSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.WorkoutSession
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("finished_at IS NOT NULL AND finished_at >= ? AND finished_at < ?", from, to).
		Where("ended_reason <> ?", types.EndedReasonAutoInactivity).
		Order("finished_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *workoutSessionRepo) GetLastFinished(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.WorkoutSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.WorkoutSession
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("finished_at IS NOT NULL").
		Where("ended_reason <> ?", types.EndedReasonAutoInactivity).
		Order("finished_at DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *workoutSessionRepo) GetRecentFinished(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.WorkoutSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 10
	}

	var results []*types.WorkoutSession
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("finished_at IS NOT NULL").
		Where("ended_reason <> ?", types.EndedReasonAutoInactivity).
		Order("finished_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *workoutSessionRepo) CountFinishedBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.WorkoutSession{}).
		Where("user_id = ?", userID).
		Where("finished_at IS NOT NULL AND finished_at >= ? AND finished_at < ?", from, to).
		Where("ended_reason <> ?", types.EndedReasonAutoInactivity).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
