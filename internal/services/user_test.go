package services

import (
	"context"
	"errors"
	"testing"
)

func TestUpdateNotificationPreferencesValidation(t *testing.T) {
	cases := []struct {
		name      string
		patch     map[string]any
		wantField string
	}{
		{name: "empty_patch", patch: map[string]any{}, wantField: "preferences"},
		{name: "unknown_key", patch: map[string]any{"ring_volume": 11}, wantField: "ring_volume"},
		{name: "hour_too_large", patch: map[string]any{"quiet_hours_start": 24}, wantField: "quiet_hours_start"},
		{name: "hour_negative", patch: map[string]any{"quiet_hours_end": -1}, wantField: "quiet_hours_end"},
		{name: "hour_not_a_number", patch: map[string]any{"quiet_hours_start": "22"}, wantField: "quiet_hours_start"},
		{name: "hour_fractional", patch: map[string]any{"quiet_hours_start": 21.5}, wantField: "quiet_hours_start"},
		{name: "cap_zero", patch: map[string]any{"max_notifications_per_week": 0}, wantField: "max_notifications_per_week"},
		{name: "cap_too_large", patch: map[string]any{"max_notifications_per_week": 51}, wantField: "max_notifications_per_week"},
		{name: "flag_not_boolean", patch: map[string]any{"goal_reminders": "yes"}, wantField: "goal_reminders"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newNotificationFixture(t)
			us := NewUserService(nil, testLogger(t), f.users)

			_, err := us.UpdateNotificationPreferences(context.Background(), nil, f.user.ID, tc.patch)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if verr.Field != tc.wantField {
				t.Fatalf("field=%q, want %q", verr.Field, tc.wantField)
			}
		})
	}
}

func TestUpdateNotificationPreferencesAcceptsValidPatch(t *testing.T) {
	f := newNotificationFixture(t)
	us := NewUserService(nil, testLogger(t), f.users)

	patch := map[string]any{
		"goal_reminders":             false,
		"quiet_hours_start":          float64(21), // JSON numbers decode as float64
		"quiet_hours_end":            7,
		"max_notifications_per_week": 3,
	}
	updated, err := us.UpdateNotificationPreferences(context.Background(), nil, f.user.ID, patch)
	if err != nil {
		t.Fatalf("UpdateNotificationPreferences: %v", err)
	}
	if updated == nil || updated.ID != f.user.ID {
		t.Fatalf("updated user not returned")
	}
}

func TestRegisterPushToken(t *testing.T) {
	f := newNotificationFixture(t)
	us := NewUserService(nil, testLogger(t), f.users)

	if err := us.RegisterPushToken(context.Background(), nil, f.user.ID, "  "); err == nil {
		t.Fatalf("blank token accepted")
	}
	if err := us.RegisterPushToken(context.Background(), nil, f.user.ID, "ExponentPushToken[abc]"); err != nil {
		t.Fatalf("RegisterPushToken: %v", err)
	}
}
