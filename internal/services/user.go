package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liftlab/liftlab-backend/internal/logger"
	"github.com/liftlab/liftlab-backend/internal/repos"
	"github.com/liftlab/liftlab-backend/internal/types"
)

// ValidationError marks malformed preference updates so the API boundary
// can answer 400 instead of treating them as server faults.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Columns a preference patch may touch, keyed by API field name.
var preferenceColumns = map[string]string{
	"goal_reminders":             "pref_goal_reminders",
	"inactivity_nudges":          "pref_inactivity_nudges",
	"squad_activity":             "pref_squad_activity",
	"weekly_goal_met":            "pref_weekly_goal_met",
	"quiet_hours_start":          "quiet_hours_start",
	"quiet_hours_end":            "quiet_hours_end",
	"max_notifications_per_week": "max_notifications_per_week",
}

type UserService interface {
	GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error)
	UpdateNotificationPreferences(ctx context.Context, tx *gorm.DB, userID uuid.UUID, patch map[string]any) (*types.User, error)
	RegisterPushToken(ctx context.Context, tx *gorm.DB, userID uuid.UUID, token string) error
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (us *userService) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	found, err := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("user does not exist")
	}
	return found[0], nil
}

// UpdateNotificationPreferences rejects unknown keys and out-of-range values
// synchronously, before anything reaches the decision engine.
func (us *userService) UpdateNotificationPreferences(ctx context.Context, tx *gorm.DB, userID uuid.UUID, patch map[string]any) (*types.User, error) {
	if len(patch) == 0 {
		return nil, &ValidationError{Field: "preferences", Reason: "empty update"}
	}

	updates := map[string]interface{}{}
	for key, value := range patch {
		column, known := preferenceColumns[key]
		if !known {
			return nil, &ValidationError{Field: key, Reason: "unknown preference"}
		}

		switch key {
		case "quiet_hours_start", "quiet_hours_end":
			hour, ok := intValue(value)
			if !ok || hour < 0 || hour > 23 {
				return nil, &ValidationError{Field: key, Reason: "must be an hour in [0,23]"}
			}
			updates[column] = hour
		case "max_notifications_per_week":
			cap, ok := intValue(value)
			if !ok || cap < 1 || cap > 50 {
				return nil, &ValidationError{Field: key, Reason: "must be in [1,50]"}
			}
			updates[column] = cap
		default:
			flag, ok := value.(bool)
			if !ok {
				return nil, &ValidationError{Field: key, Reason: "must be a boolean"}
			}
			updates[column] = flag
		}
	}

	if err := us.userRepo.UpdateFields(ctx, tx, userID, updates); err != nil {
		return nil, fmt.Errorf("updating preferences: %w", err)
	}
	return us.GetByID(ctx, tx, userID)
}

func (us *userService) RegisterPushToken(ctx context.Context, tx *gorm.DB, userID uuid.UUID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return &ValidationError{Field: "token", Reason: "must not be empty"}
	}
	return us.userRepo.SetPushToken(ctx, tx, userID, token)
}

// intValue tolerates the float64 that JSON decoding produces for numbers.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
