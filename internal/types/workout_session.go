package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	EndedReasonCompleted      = "completed"
	EndedReasonUserAbandoned  = "user_abandoned"
	EndedReasonAutoInactivity = "auto_inactivity"
)

// Split type values stored on a session when the user trained a known split.
const (
	SplitPush     = "push"
	SplitPull     = "pull"
	SplitLegs     = "legs"
	SplitUpper    = "upper"
	SplitLower    = "lower"
	SplitFullBody = "full_body"
)

type WorkoutSession struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	SplitType   string     `gorm:"column:split_type" json:"split_type"`
	StartedAt   time.Time  `gorm:"not null;index;column:started_at" json:"started_at"`
	FinishedAt  *time.Time `gorm:"index;column:finished_at" json:"finished_at"`
	EndedReason string     `gorm:"column:ended_reason" json:"ended_reason"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`

	Sets []WorkoutSet `gorm:"foreignKey:SessionID" json:"sets,omitempty"`
}

func (WorkoutSession) TableName() string {
	return "workout_session"
}

// CountsForAnalytics reports whether the session participates in volume,
// fatigue, recap and streak computations.
func (s *WorkoutSession) CountsForAnalytics() bool {
	return s.FinishedAt != nil && s.EndedReason != EndedReasonAutoInactivity
}
