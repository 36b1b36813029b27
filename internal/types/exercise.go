package types

import (
	"time"

	"github.com/google/uuid"
)

type Exercise struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name               string    `gorm:"not null;column:name" json:"name"`
	PrimaryMuscleGroup string    `gorm:"not null;column:primary_muscle_group" json:"primary_muscle_group"`
	Equipment          string    `gorm:"column:equipment" json:"equipment"`
	IsBodyweight       bool      `gorm:"not null;default:false;column:is_bodyweight" json:"is_bodyweight"`
	CreatedAt          time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Exercise) TableName() string {
	return "exercise"
}
