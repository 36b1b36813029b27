package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/liftlab/liftlab-backend/internal/logger"
	"github.com/liftlab/liftlab-backend/internal/repos"
	"github.com/liftlab/liftlab-backend/internal/types"
)

const (
	pollInterval    = 15 * time.Minute
	dailyInterval   = 24 * time.Hour
	perUserTimeout  = 30 * time.Second
	passConcurrency = 8
)

// SchedulerService drives the notification engine: a 15-minute poll over the
// due-user snapshot, a daily sweep, and the admin force-run.
type SchedulerService interface {
	StartWorker(ctx context.Context)
	// RunPass evaluates one pass. force bypasses the due-time gate for
	// every user and is only reachable through the admin surface.
	RunPass(ctx context.Context, force bool) (int, error)
}

type schedulerService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	notification NotificationService
}

func NewSchedulerService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, notification NotificationService) SchedulerService {
	return &schedulerService{
		db:           db,
		log:          log.With("service", "SchedulerService"),
		userRepo:     userRepo,
		notification: notification,
	}
}

func (ss *schedulerService) StartWorker(ctx context.Context) {
	go func() {
		poll := time.NewTicker(pollInterval)
		defer poll.Stop()
		daily := time.NewTicker(dailyInterval)
		defer daily.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-poll.C:
				ss.runGuarded(ctx)
			case <-daily.C:
				ss.runGuarded(ctx)
			}
		}
	}()
}

// runGuarded keeps a broken pass from ever killing the worker loop.
func (ss *schedulerService) runGuarded(ctx context.Context) {
	processed, err := ss.RunPass(ctx, false)
	if err != nil {
		ss.log.Error("Notification pass failed", "error", err)
		return
	}
	ss.log.Debug("Notification pass complete", "users_processed", processed)
}

func (ss *schedulerService) RunPass(ctx context.Context, force bool) (int, error) {
	now := time.Now().UTC()

	var users []*types.User
	var err error
	if force {
		users, err = ss.userRepo.GetAll(ctx, nil)
	} else {
		users, err = ss.userRepo.GetEligibleForNotification(ctx, nil, now)
	}
	if err != nil {
		return 0, fmt.Errorf("snapshotting eligible users: %w", err)
	}
	if len(users) == 0 {
		return 0, nil
	}

	// Per-user state is independent, so users fan out; any single failure
	// is logged and swallowed.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(passConcurrency)
	for _, u := range users {
		user := u
		g.Go(func() error {
			userCtx, cancel := context.WithTimeout(gctx, perUserTimeout)
			defer cancel()
			if err := ss.notification.EvaluateUser(userCtx, nil, user, now, force); err != nil {
				ss.log.Warn("User evaluation failed", "user_id", user.ID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return len(users), nil
}
