package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liftlab/liftlab-backend/internal/logger"
)

// ReactorStat is one teammate's reaction count against a user's shares.
type ReactorStat struct {
	UserID    uuid.UUID `gorm:"column:user_id"`
	FirstName string    `gorm:"column:first_name"`
	Count     int       `gorm:"column:reaction_count"`
}

type SquadRepo interface {
	// TopReactorSince returns the teammate with the most reactions to the
	// user's shares at or after since, or nil when nobody reacted.
	TopReactorSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (*ReactorStat, error)
}

type squadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSquadRepo(db *gorm.DB, baseLog *logger.Logger) SquadRepo {
	return &squadRepo{db: db, log: baseLog.With("repo", "SquadRepo")}
}

func (r *squadRepo) TopReactorSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (*ReactorStat, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*ReactorStat
	if err := transaction.WithContext(ctx).
		Table("share_reaction").
		Select(`share_reaction.user_id, "user".first_name, COUNT(*) AS reaction_count`).
		Joins("JOIN workout_share ON workout_share.id = share_reaction.share_id").
		Joins(`JOIN "user" ON "user".id = share_reaction.user_id`).
		Where("workout_share.user_id = ?", userID).
		Where("share_reaction.user_id <> ?", userID).
		Where("share_reaction.created_at >= ?", since).
		Group(`share_reaction.user_id, "user".first_name`).
		Order("reaction_count DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}
