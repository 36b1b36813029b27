package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liftlab/liftlab-backend/internal/logger"
	"github.com/liftlab/liftlab-backend/internal/types"
)

type WorkoutSetRepo interface {
	GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.WorkoutSet, error)
	// GetFinishedInWindow returns all sets belonging to analytics-eligible
	// sessions with finished_at in [from, to), with session and exercise
	// preloaded.
	GetFinishedInWindow(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]*types.WorkoutSet, error)
}

type workoutSetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkoutSetRepo(db *gorm.DB, baseLog *logger.Logger) WorkoutSetRepo {
	return &workoutSetRepo{db: db, log: baseLog.With("repo", "WorkoutSetRepo")}
}

func (r *workoutSetRepo) GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.WorkoutSet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.WorkoutSet
	if len(sessionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Exercise").
		Where("session_id IN ?", sessionIDs).
		Order("set_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *workoutSetRepo) GetFinishedInWindow(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]*types.WorkoutSet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.WorkoutSet
	if err := transaction.WithContext(ctx).
		Preload("Session").
		Preload("Exercise").
		Joins("JOIN workout_session ON workout_session.id = workout_set.session_id").
		Where("workout_session.user_id = ?", userID).
		Where("workout_session.finished_at IS NOT NULL AND workout_session.finished_at >= ? AND workout_session.finished_at < ?", from, to).
		Where("workout_session.ended_reason <> ?", types.EndedReasonAutoInactivity).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
