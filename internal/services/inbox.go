package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liftlab/liftlab-backend/internal/logger"
	"github.com/liftlab/liftlab-backend/internal/repos"
	"github.com/liftlab/liftlab-backend/internal/types"
)

// InboxService is the read side of the notification log.
type InboxService interface {
	List(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.NotificationEvent, error)
	MarkRead(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) error
	MarkClicked(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) error
}

type inboxService struct {
	db        *gorm.DB
	log       *logger.Logger
	eventRepo repos.NotificationEventRepo
}

func NewInboxService(db *gorm.DB, log *logger.Logger, eventRepo repos.NotificationEventRepo) InboxService {
	return &inboxService{
		db:        db,
		log:       log.With("service", "InboxService"),
		eventRepo: eventRepo,
	}
}

func (is *inboxService) List(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.NotificationEvent, error) {
	return is.eventRepo.ListByUser(ctx, tx, userID, limit)
}

func (is *inboxService) MarkRead(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) error {
	return is.eventRepo.MarkRead(ctx, tx, userID, eventID)
}

func (is *inboxService) MarkClicked(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) error {
	return is.eventRepo.MarkClicked(ctx, tx, userID, eventID)
}
