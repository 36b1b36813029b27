package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/liftlab/liftlab-backend/internal/clients/expo"
	"github.com/liftlab/liftlab-backend/internal/logger"
	"github.com/liftlab/liftlab-backend/internal/repos"
	"github.com/liftlab/liftlab-backend/internal/types"
)

const weeklyCapWindow = 7 * 24 * time.Hour

// notificationCandidate is what a rule produces when it wants to notify.
type notificationCandidate struct {
	Type          string
	TriggerReason string
	Title         string
	Body          string
	Data          map[string]any

	// Silent asks for reduced-priority, soundless delivery during quiet
	// hours instead of being dropped.
	Silent           bool
	BypassQuietHours bool
	BypassWeeklyCap  bool
}

// NotificationService evaluates every engagement rule for one user and owns
// the user's next_notification_at field.
type NotificationService interface {
	// EvaluateUser runs one decision pass for the user. force bypasses the
	// due-time gate, never the per-rule dedup windows.
	EvaluateUser(ctx context.Context, tx *gorm.DB, user *types.User, now time.Time, force bool) error
}

type notificationService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	sessionRepo repos.WorkoutSessionRepo
	eventRepo   repos.NotificationEventRepo
	squadRepo   repos.SquadRepo
	recap       RecapService
	push        expo.Client
}

func NewNotificationService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	sessionRepo repos.WorkoutSessionRepo,
	eventRepo repos.NotificationEventRepo,
	squadRepo repos.SquadRepo,
	recap RecapService,
	push expo.Client,
) NotificationService {
	return &notificationService{
		db:          db,
		log:         log.With("service", "NotificationService"),
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		eventRepo:   eventRepo,
		squadRepo:   squadRepo,
		recap:       recap,
		push:        push,
	}
}

func (ns *notificationService) EvaluateUser(ctx context.Context, tx *gorm.DB, user *types.User, now time.Time, force bool) error {
	if user == nil {
		return fmt.Errorf("user required")
	}

	if !force {
		if user.NextNotificationAt == nil {
			// First sighting: seed the schedule, evaluate nothing.
			next := ComputeNextNotificationAt(user.ID, user.TimezoneOffsetMinutes, now)
			return ns.userRepo.SetNextNotificationAt(ctx, tx, user.ID, next)
		}
		if user.NextNotificationAt.After(now) {
			return nil
		}
	}

	rules := []struct {
		name     string
		enabled  bool
		evaluate func(ctx context.Context, tx *gorm.DB, user *types.User, now time.Time) (*notificationCandidate, error)
	}{
		{types.NotificationGoalMet, user.Preferences.WeeklyGoalMet, ns.ruleWeeklyGoalMet},
		{types.NotificationStreakRisk, user.Preferences.GoalReminders, ns.ruleStreakRisk},
		{types.NotificationGoalRisk, user.Preferences.GoalReminders, ns.ruleGoalRisk},
		{types.NotificationGoalMissed, user.Preferences.GoalReminders, ns.ruleWeeklyGoalMissed},
		{types.NotificationInactivity, user.Preferences.InactivityNudges, ns.ruleInactivity},
		{types.NotificationSquadReaction, user.Preferences.SquadActivity, ns.ruleSquadReaction},
	}

	for _, rule := range rules {
		if !rule.enabled {
			continue
		}
		candidate, err := rule.evaluate(ctx, tx, user, now)
		if err != nil {
			// Transient data error: skip this rule, keep the pass alive.
			ns.log.Warn("Notification rule failed", "user_id", user.ID, "rule", rule.name, "error", err)
			continue
		}
		if candidate == nil {
			continue
		}
		if err := ns.deliver(ctx, tx, user, candidate, now); err != nil {
			ns.log.Warn("Notification delivery handling failed", "user_id", user.ID, "rule", rule.name, "error", err)
		}
	}

	next := ComputeNextNotificationAt(user.ID, user.TimezoneOffsetMinutes, now)
	if err := ns.userRepo.SetNextNotificationAt(ctx, tx, user.ID, next); err != nil {
		return fmt.Errorf("rescheduling: %w", err)
	}
	return nil
}

// deliver applies cap and quiet-hour suppression, then attempts delivery and
// records exactly one NotificationEvent for every dispatched decision.
func (ns *notificationService) deliver(ctx context.Context, tx *gorm.DB, user *types.User, candidate *notificationCandidate, now time.Time) error {
	if !candidate.BypassWeeklyCap {
		count, err := ns.eventRepo.CountCountedSince(ctx, tx, user.ID, now.Add(-weeklyCapWindow))
		if err != nil {
			return fmt.Errorf("weekly cap check: %w", err)
		}
		if count >= user.Preferences.MaxNotificationsPerWeek {
			ns.log.Debug("Notification suppressed by weekly cap", "user_id", user.ID, "type", candidate.Type)
			return nil
		}
	}

	silent := false
	localHour := toLocal(now, user.TimezoneOffsetMinutes).Hour()
	if isQuietHour(localHour, user.Preferences.QuietHoursStart, user.Preferences.QuietHoursEnd) && !candidate.BypassQuietHours {
		if !candidate.Silent {
			ns.log.Debug("Notification suppressed by quiet hours", "user_id", user.ID, "type", candidate.Type, "local_hour", localHour)
			return nil
		}
		silent = true
	}

	var payload datatypes.JSON
	if len(candidate.Data) > 0 {
		if raw, err := json.Marshal(candidate.Data); err == nil {
			payload = raw
		}
	}

	event := &types.NotificationEvent{
		UserID:        user.ID,
		Type:          candidate.Type,
		TriggerReason: candidate.TriggerReason,
		Title:         candidate.Title,
		Body:          candidate.Body,
		Data:          payload,
		SentAt:        now,
	}

	switch {
	case user.PushToken == "":
		event.DeliveryStatus = types.DeliveryStatusNoToken
	default:
		msg := expo.PushMessage{
			To:    user.PushToken,
			Title: candidate.Title,
			Body:  candidate.Body,
			Data:  candidate.Data,
		}
		if silent {
			msg.Priority = "normal"
		} else {
			msg.Priority = "high"
			msg.Sound = "default"
		}

		ticket, err := ns.push.SendPush(ctx, msg)
		switch {
		case err != nil:
			ns.log.Warn("Push delivery failed", "user_id", user.ID, "type", candidate.Type, "error", err)
			event.DeliveryStatus = types.DeliveryStatusFailed
		case !ticket.OK():
			ns.log.Warn("Push provider rejected message", "user_id", user.ID, "type", candidate.Type, "ticket_message", ticket.Message)
			event.DeliveryStatus = types.DeliveryStatusFailed
		case silent:
			event.DeliveryStatus = types.DeliveryStatusSilent
		default:
			event.DeliveryStatus = types.DeliveryStatusSent
		}
	}

	if _, err := ns.eventRepo.Create(ctx, tx, []*types.NotificationEvent{event}); err != nil {
		return fmt.Errorf("recording notification event: %w", err)
	}
	return nil
}

// ruleWeeklyGoalMet fires exactly when this week's count equals the goal, so
// extra sessions past the goal never re-trigger it.
func (ns *notificationService) ruleWeeklyGoalMet(ctx context.Context, tx *gorm.DB, user *types.User, now time.Time) (*notificationCandidate, error) {
	if user.WeeklyGoal <= 0 {
		return nil, nil
	}
	weekStart := startOfLocalWeekUTC(now, user.TimezoneOffsetMinutes)

	count, err := ns.sessionRepo.CountFinishedBetween(ctx, tx, user.ID, weekStart, now)
	if err != nil {
		return nil, err
	}
	if count != user.WeeklyGoal {
		return nil, nil
	}

	already, err := ns.eventRepo.HasSentSince(ctx, tx, user.ID, types.NotificationGoalMet, weekStart)
	if err != nil || already {
		return nil, err
	}

	return &notificationCandidate{
		Type:          types.NotificationGoalMet,
		TriggerReason: fmt.Sprintf("workouts_this_week=%d goal=%d", count, user.WeeklyGoal),
		Title:         "Weekly goal complete!",
		Body:          fmt.Sprintf("That's %d workouts this week. Goal hit — enjoy the recovery.", count),
		Data:          map[string]any{"workouts": count, "goal": user.WeeklyGoal},
		Silent:        true,
	}, nil
}

// ruleStreakRisk nudges when an active streak would break today.
func (ns *notificationService) ruleStreakRisk(ctx context.Context, tx *gorm.DB, user *types.User, now time.Time) (*notificationCandidate, error) {
	last, err := ns.sessionRepo.GetLastFinished(ctx, tx, user.ID)
	if err != nil {
		return nil, err
	}
	if last == nil || last.FinishedAt == nil {
		return nil, nil
	}

	offset := user.TimezoneOffsetMinutes
	todayIdx := localDayIndex(now, offset)
	if localDayIndex(*last.FinishedAt, offset) != todayIdx-1 {
		return nil, nil
	}

	recap, err := ns.recap.GetRecap(ctx, tx, user, now)
	if err != nil {
		return nil, err
	}
	if recap.Streak.Current < 3 {
		return nil, nil
	}

	already, err := ns.eventRepo.HasSentSince(ctx, tx, user.ID, types.NotificationStreakRisk, startOfLocalDayUTC(now, offset))
	if err != nil || already {
		return nil, err
	}

	return &notificationCandidate{
		Type:          types.NotificationStreakRisk,
		TriggerReason: fmt.Sprintf("streak=%d last_workout=yesterday", recap.Streak.Current),
		Title:         fmt.Sprintf("%d-day streak on the line", recap.Streak.Current),
		Body:          "Train today to keep it going. Even a short session counts.",
		Data:          map[string]any{"streak": recap.Streak.Current},
	}, nil
}

// ruleGoalRisk fires in the final one or two local days of the week while
// the weekly goal is still reachable but unmet.
func (ns *notificationService) ruleGoalRisk(ctx context.Context, tx *gorm.DB, user *types.User, now time.Time) (*notificationCandidate, error) {
	if user.WeeklyGoal <= 0 {
		return nil, nil
	}
	offset := user.TimezoneOffsetMinutes
	daysLeft := daysLeftInLocalWeek(now, offset)
	if daysLeft < 1 || daysLeft > 2 {
		return nil, nil
	}

	weekStart := startOfLocalWeekUTC(now, offset)
	count, err := ns.sessionRepo.CountFinishedBetween(ctx, tx, user.ID, weekStart, now)
	if err != nil {
		return nil, err
	}
	remaining := user.WeeklyGoal - count
	if remaining < 1 {
		return nil, nil
	}

	already, err := ns.eventRepo.HasSentSince(ctx, tx, user.ID, types.NotificationGoalRisk, weekStart)
	if err != nil || already {
		return nil, err
	}

	plural := ""
	if remaining > 1 {
		plural = "s"
	}
	return &notificationCandidate{
		Type:          types.NotificationGoalRisk,
		TriggerReason: fmt.Sprintf("days_left=%d remaining=%d", daysLeft, remaining),
		Title:         "Weekly goal within reach",
		Body:          fmt.Sprintf("%d workout%s to go with %d day(s) left this week.", remaining, plural, daysLeft),
		Data:          map[string]any{"remaining": remaining, "days_left": daysLeft},
	}, nil
}

// ruleWeeklyGoalMissed reflects on the previous local week, only on Sunday,
// and only when the user trained at least once but fell short.
func (ns *notificationService) ruleWeeklyGoalMissed(ctx context.Context, tx *gorm.DB, user *types.User, now time.Time) (*notificationCandidate, error) {
	if user.WeeklyGoal <= 0 {
		return nil, nil
	}
	offset := user.TimezoneOffsetMinutes
	if !isLocalSunday(now, offset) {
		return nil, nil
	}

	weekStart := startOfLocalWeekUTC(now, offset)
	prevWeekStart := weekStart.Add(-7 * 24 * time.Hour)
	count, err := ns.sessionRepo.CountFinishedBetween(ctx, tx, user.ID, prevWeekStart, weekStart)
	if err != nil {
		return nil, err
	}
	if count <= 0 || count >= user.WeeklyGoal {
		return nil, nil
	}

	already, err := ns.eventRepo.HasSentSince(ctx, tx, user.ID, types.NotificationGoalMissed, weekStart)
	if err != nil || already {
		return nil, err
	}

	return &notificationCandidate{
		Type:          types.NotificationGoalMissed,
		TriggerReason: fmt.Sprintf("prev_week=%d goal=%d", count, user.WeeklyGoal),
		Title:         "Close one last week",
		Body:          fmt.Sprintf("%d of %d workouts last week. A fresh week starts tomorrow.", count, user.WeeklyGoal),
		Data:          map[string]any{"previous_week": count, "goal": user.WeeklyGoal},
	}, nil
}

// ruleInactivity nudges users 5-7 days idle; past a week the nudge window
// closes so long-lapsed users aren't pestered on every pass.
func (ns *notificationService) ruleInactivity(ctx context.Context, tx *gorm.DB, user *types.User, now time.Time) (*notificationCandidate, error) {
	last, err := ns.sessionRepo.GetLastFinished(ctx, tx, user.ID)
	if err != nil {
		return nil, err
	}
	if last == nil || last.FinishedAt == nil {
		return nil, nil
	}

	offset := user.TimezoneOffsetMinutes
	days := localDayIndex(now, offset) - localDayIndex(*last.FinishedAt, offset)
	if days < 5 || days > 7 {
		return nil, nil
	}

	already, err := ns.eventRepo.HasSentSince(ctx, tx, user.ID, types.NotificationInactivity, now.Add(-7*24*time.Hour))
	if err != nil || already {
		return nil, err
	}

	return &notificationCandidate{
		Type:          types.NotificationInactivity,
		TriggerReason: fmt.Sprintf("days_since_last=%d", days),
		Title:         "Time to get back in",
		Body:          fmt.Sprintf("It's been %d days since your last workout. Pick up where you left off.", days),
		Data:          map[string]any{"days_since_last": days},
	}, nil
}

// ruleSquadReaction surfaces the single most active reactor to the user's
// shares in the last day.
func (ns *notificationService) ruleSquadReaction(ctx context.Context, tx *gorm.DB, user *types.User, now time.Time) (*notificationCandidate, error) {
	since := now.Add(-24 * time.Hour)

	already, err := ns.eventRepo.HasSentSince(ctx, tx, user.ID, types.NotificationSquadReaction, since)
	if err != nil || already {
		return nil, err
	}

	top, err := ns.squadRepo.TopReactorSince(ctx, tx, user.ID, since)
	if err != nil {
		return nil, err
	}
	if top == nil || top.Count <= 0 {
		return nil, nil
	}

	name := top.FirstName
	if name == "" {
		name = "A teammate"
	}
	body := fmt.Sprintf("%s reacted to your workout.", name)
	if top.Count > 1 {
		body = fmt.Sprintf("%s reacted %d times to your workouts.", name, top.Count)
	}
	return &notificationCandidate{
		Type:          types.NotificationSquadReaction,
		TriggerReason: fmt.Sprintf("top_reactor=%s count=%d", top.UserID, top.Count),
		Title:         "Your squad noticed",
		Body:          body,
		Data:          map[string]any{"reactor_id": top.UserID.String(), "count": top.Count},
	}, nil
}
