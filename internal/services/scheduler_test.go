package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/liftlab/liftlab-backend/internal/types"
)

type recordingNotificationService struct {
	mu     sync.Mutex
	calls  []bool // force flag per call
	fail   error
	seenID map[string]int
}

func (r *recordingNotificationService) EvaluateUser(ctx context.Context, tx *gorm.DB, user *types.User, now time.Time, force bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, force)
	if r.seenID == nil {
		r.seenID = map[string]int{}
	}
	r.seenID[user.ID.String()]++
	return r.fail
}

func TestRunPassEvaluatesOnlyDueUsers(t *testing.T) {
	due := newNotificationFixture(t).user
	past := time.Now().UTC().Add(-time.Hour)
	due.NextNotificationAt = &past

	notDue := newNotificationFixture(t).user
	future := time.Now().UTC().Add(time.Hour)
	notDue.NextNotificationAt = &future

	users := newFakeUserRepo(due, notDue)
	recorder := &recordingNotificationService{}
	scheduler := NewSchedulerService(nil, testLogger(t), users, recorder)

	processed, err := scheduler.RunPass(context.Background(), false)
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if processed != 1 {
		t.Fatalf("processed=%d, want 1", processed)
	}
	if got := recorder.seenID[due.ID.String()]; got != 1 {
		t.Fatalf("due user evaluated %d times, want 1", got)
	}
	if got := recorder.seenID[notDue.ID.String()]; got != 0 {
		t.Fatalf("not-due user evaluated %d times, want 0", got)
	}
	for _, force := range recorder.calls {
		if force {
			t.Fatalf("poll pass must not set force")
		}
	}
}

func TestRunPassForceCoversAllUsers(t *testing.T) {
	a := newNotificationFixture(t).user
	future := time.Now().UTC().Add(time.Hour)
	a.NextNotificationAt = &future
	b := newNotificationFixture(t).user

	users := newFakeUserRepo(a, b)
	recorder := &recordingNotificationService{}
	scheduler := NewSchedulerService(nil, testLogger(t), users, recorder)

	processed, err := scheduler.RunPass(context.Background(), true)
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if processed != 2 {
		t.Fatalf("processed=%d, want 2", processed)
	}
	for _, force := range recorder.calls {
		if !force {
			t.Fatalf("force pass must propagate force")
		}
	}
}

func TestRunPassSwallowsPerUserFailures(t *testing.T) {
	a := newNotificationFixture(t).user
	b := newNotificationFixture(t).user

	users := newFakeUserRepo(a, b)
	recorder := &recordingNotificationService{fail: context.DeadlineExceeded}
	scheduler := NewSchedulerService(nil, testLogger(t), users, recorder)

	processed, err := scheduler.RunPass(context.Background(), true)
	if err != nil {
		t.Fatalf("RunPass must not surface per-user errors: %v", err)
	}
	if processed != 2 {
		t.Fatalf("processed=%d, want 2", processed)
	}
	if len(recorder.calls) != 2 {
		t.Fatalf("calls=%d, want both users attempted", len(recorder.calls))
	}
}

func TestRunPassEmptySnapshot(t *testing.T) {
	scheduler := NewSchedulerService(nil, testLogger(t), newFakeUserRepo(), &recordingNotificationService{})
	processed, err := scheduler.RunPass(context.Background(), false)
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if processed != 0 {
		t.Fatalf("processed=%d, want 0", processed)
	}
}
