package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liftlab/liftlab-backend/internal/logger"
	"github.com/liftlab/liftlab-backend/internal/types"
)

type NotificationEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, events []*types.NotificationEvent) ([]*types.NotificationEvent, error)
	// HasSentSince is the single dedup primitive every rule goes through:
	// true when a counted (sent or silent) event of the given type exists
	// at or after since.
	HasSentSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, notificationType string, since time.Time) (bool, error)
	// CountCountedSince counts sent+silent events at or after since, for
	// the weekly cap.
	CountCountedSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.NotificationEvent, error)
	MarkRead(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) error
	MarkClicked(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) error
}

type notificationEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationEventRepo(db *gorm.DB, baseLog *logger.Logger) NotificationEventRepo {
	return &notificationEventRepo{db: db, log: baseLog.With("repo", "NotificationEventRepo")}
}

func (r *notificationEventRepo) Create(ctx context.Context, tx *gorm.DB, events []*types.NotificationEvent) ([]*types.NotificationEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(events) == 0 {
		return []*types.NotificationEvent{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *notificationEventRepo) HasSentSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, notificationType string, since time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.NotificationEvent{}).
		Where("user_id = ?", userID).
		Where("type = ?", notificationType).
		Where("delivery_status IN ?", []string{types.DeliveryStatusSent, types.DeliveryStatusSilent}).
		Where("sent_at >= ?", since).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *notificationEventRepo) CountCountedSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.NotificationEvent{}).
		Where("user_id = ?", userID).
		Where("delivery_status IN ?", []string{types.DeliveryStatusSent, types.DeliveryStatusSilent}).
		Where("sent_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *notificationEventRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.NotificationEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 50
	}

	var results []*types.NotificationEvent
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sent_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *notificationEventRepo) MarkRead(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.NotificationEvent{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", eventID, userID).
		Update("read_at", time.Now()).Error
}

func (r *notificationEventRepo) MarkClicked(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.NotificationEvent{}).
		Where("id = ? AND user_id = ? AND clicked_at IS NULL", eventID, userID).
		Update("clicked_at", time.Now()).Error
}
