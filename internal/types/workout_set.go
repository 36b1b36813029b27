package types

import (
	"github.com/google/uuid"
)

// WorkoutSet is immutable once its session is finished.
type WorkoutSet struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID    uuid.UUID `gorm:"type:uuid;not null;index;column:session_id" json:"session_id"`
	ExerciseID   uuid.UUID `gorm:"type:uuid;not null;index;column:exercise_id" json:"exercise_id"`
	ActualReps   int       `gorm:"not null;column:actual_reps" json:"actual_reps"`
	ActualWeight float64   `gorm:"not null;default:0;column:actual_weight" json:"actual_weight"`
	RPE          *float64  `gorm:"column:rpe" json:"rpe"`
	SetIndex     int       `gorm:"not null;default:0;column:set_index" json:"set_index"`

	Session  *WorkoutSession `gorm:"foreignKey:SessionID" json:"-"`
	Exercise *Exercise       `gorm:"foreignKey:ExerciseID" json:"-"`
}

func (WorkoutSet) TableName() string {
	return "workout_set"
}
