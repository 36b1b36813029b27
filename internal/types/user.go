package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID                    uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email                 string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	FirstName             string         `gorm:"column:first_name" json:"first_name"`
	LastName              string         `gorm:"column:last_name" json:"last_name"`
	PushToken             string         `gorm:"column:push_token" json:"-"`
	TimezoneOffsetMinutes int            `gorm:"not null;default:0;column:timezone_offset_minutes" json:"timezone_offset_minutes"`
	WeeklyGoal            int            `gorm:"not null;default:3;column:weekly_goal" json:"weekly_goal"`
	PreferredSplit        string         `gorm:"not null;default:'ppl';column:preferred_split" json:"preferred_split"`
	AvoidedMuscles        datatypes.JSON `gorm:"column:avoided_muscles" json:"avoided_muscles"`
	PrefersShortSessions  bool           `gorm:"not null;default:false;column:prefers_short_sessions" json:"prefers_short_sessions"`

	// Owned by the notification scheduler. NULL means the user has never
	// been seen by a polling pass.
	NextNotificationAt *time.Time `gorm:"index;column:next_notification_at" json:"next_notification_at"`

	Preferences NotificationPreferences `gorm:"embedded" json:"preferences"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}

// NotificationPreferences is embedded into the user row. Quiet hours are
// local wall-clock hours; start==end disables the quiet window.
type NotificationPreferences struct {
	GoalReminders           bool `gorm:"not null;default:true;column:pref_goal_reminders" json:"goal_reminders"`
	InactivityNudges        bool `gorm:"not null;default:true;column:pref_inactivity_nudges" json:"inactivity_nudges"`
	SquadActivity           bool `gorm:"not null;default:true;column:pref_squad_activity" json:"squad_activity"`
	WeeklyGoalMet           bool `gorm:"not null;default:true;column:pref_weekly_goal_met" json:"weekly_goal_met"`
	QuietHoursStart         int  `gorm:"not null;default:22;column:quiet_hours_start" json:"quiet_hours_start"`
	QuietHoursEnd           int  `gorm:"not null;default:8;column:quiet_hours_end" json:"quiet_hours_end"`
	MaxNotificationsPerWeek int  `gorm:"not null;default:5;column:max_notifications_per_week" json:"max_notifications_per_week"`
}
