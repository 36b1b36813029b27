package types

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutShare is a session the user shared with their squad.
type WorkoutShare struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;column:session_id" json:"session_id"`
	CreatedAt time.Time `gorm:"not null;default:now();column:created_at" json:"created_at"`
}

func (WorkoutShare) TableName() string {
	return "workout_share"
}

type ShareReaction struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ShareID   uuid.UUID `gorm:"type:uuid;not null;index;column:share_id" json:"share_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Emoji     string    `gorm:"column:emoji" json:"emoji"`
	CreatedAt time.Time `gorm:"not null;default:now();index;column:created_at" json:"created_at"`

	Share *WorkoutShare `gorm:"foreignKey:ShareID" json:"-"`
	User  *User         `gorm:"foreignKey:UserID" json:"-"`
}

func (ShareReaction) TableName() string {
	return "share_reaction"
}
