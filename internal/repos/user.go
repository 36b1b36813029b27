package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liftlab/liftlab-backend/internal/logger"
	"github.com/liftlab/liftlab-backend/internal/types"
)

type UserRepo interface {
	GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.User, error)
	GetEligibleForNotification(ctx context.Context, tx *gorm.DB, now time.Time) ([]*types.User, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, updates map[string]interface{}) error
	SetNextNotificationAt(ctx context.Context, tx *gorm.DB, userID uuid.UUID, at time.Time) error
	SetPushToken(ctx context.Context, tx *gorm.DB, userID uuid.UUID, token string) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetEligibleForNotification snapshots the set of users due for a polling
// pass: next_notification_at in the past, or never scheduled.
func (ur *userRepo) GetEligibleForNotification(ctx context.Context, tx *gorm.DB, now time.Time) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User
	if err := transaction.WithContext(ctx).
		Where("next_notification_at IS NULL OR next_notification_at <= ?", now).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) UpdateFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(updates).Error
}

func (ur *userRepo) SetNextNotificationAt(ctx context.Context, tx *gorm.DB, userID uuid.UUID, at time.Time) error {
	return ur.UpdateFields(ctx, tx, userID, map[string]interface{}{
		"next_notification_at": at,
		"updated_at":           time.Now(),
	})
}

func (ur *userRepo) SetPushToken(ctx context.Context, tx *gorm.DB, userID uuid.UUID, token string) error {
	return ur.UpdateFields(ctx, tx, userID, map[string]interface{}{
		"push_token": token,
		"updated_at": time.Now(),
	})
}
