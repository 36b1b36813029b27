package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification trigger types, in the order the decision engine evaluates them.
const (
	NotificationGoalMet       = "goal_met"
	NotificationStreakRisk    = "streak_risk"
	NotificationGoalRisk      = "goal_risk"
	NotificationGoalMissed    = "weekly_goal_missed"
	NotificationInactivity    = "inactivity"
	NotificationSquadReaction = "squad_reaction"
)

const (
	DeliveryStatusSent    = "sent"
	DeliveryStatusSilent  = "silent"
	DeliveryStatusFailed  = "failed"
	DeliveryStatusNoToken = "no_token"
)

// NotificationEvent is append-only; only ReadAt and ClickedAt are ever
// updated after insert.
type NotificationEvent struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Type           string         `gorm:"not null;index;column:type" json:"type"`
	TriggerReason  string         `gorm:"column:trigger_reason" json:"trigger_reason"`
	Title          string         `gorm:"not null;column:title" json:"title"`
	Body           string         `gorm:"column:body" json:"body"`
	Data           datatypes.JSON `gorm:"column:data" json:"data"`
	SentAt         time.Time      `gorm:"not null;index;column:sent_at" json:"sent_at"`
	DeliveryStatus string         `gorm:"not null;column:delivery_status" json:"delivery_status"`
	ReadAt         *time.Time     `gorm:"column:read_at" json:"read_at"`
	ClickedAt      *time.Time     `gorm:"column:clicked_at" json:"clicked_at"`
}

func (NotificationEvent) TableName() string {
	return "notification_event"
}

// Counted reports whether the event counts toward the weekly cap and the
// per-type dedup windows.
func (e *NotificationEvent) Counted() bool {
	return e.DeliveryStatus == DeliveryStatusSent || e.DeliveryStatus == DeliveryStatusSilent
}
