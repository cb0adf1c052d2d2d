package checkin

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/caremate-health/caremate/internal/observability/metrics"
	"github.com/caremate-health/caremate/pkg/logging"
)

// Message is the fixed daily check-in text. It is not localized; users reply
// in their own language and the normal flow handles it from there.
const Message = "🩺 Hello! This is your daily health check-in. Reply with any symptoms you're feeling today."

const runTimeout = 5 * time.Minute

// UserLister yields every user who has ever interacted with the service.
type UserLister interface {
	ListDistinctUsers(ctx context.Context) ([]string, error)
}

// Messenger pushes the check-in text to one user.
type Messenger interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// Scheduler fires the daily check-in job at a fixed hour, UTC.
type Scheduler struct {
	users     UserLister
	messenger Messenger
	hour      int
	cron      *cron.Cron
	metrics   *metrics.ChatMetrics
	logger    *logging.Logger
}

func NewScheduler(users UserLister, messenger Messenger, hour int, chatMetrics *metrics.ChatMetrics, logger *logging.Logger) (*Scheduler, error) {
	if users == nil {
		return nil, fmt.Errorf("checkin: user lister cannot be nil")
	}
	if messenger == nil {
		return nil, fmt.Errorf("checkin: messenger cannot be nil")
	}
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("checkin: hour must be 0..23, got %d", hour)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		users:     users,
		messenger: messenger,
		hour:      hour,
		cron:      cron.New(cron.WithLocation(time.UTC)),
		metrics:   chatMetrics,
		logger:    logger,
	}, nil
}

// Start registers the job and launches the cron loop.
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("0 %d * * *", s.hour)
	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		s.Run(ctx)
	}); err != nil {
		return fmt.Errorf("checkin: failed to schedule job: %w", err)
	}
	s.cron.Start()
	s.logger.Info("daily check-in scheduled", "hour_utc", s.hour)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Run executes one check-in round: every known user gets one send attempt.
// A failed send is logged and counted; it never stops the round.
func (s *Scheduler) Run(ctx context.Context) {
	users, err := s.users.ListDistinctUsers(ctx)
	if err != nil {
		s.logger.Error("check-in aborted, cannot list users", "error", err)
		return
	}
	if len(users) == 0 {
		s.logger.Info("check-in skipped, no users yet")
		return
	}

	sent, failed := 0, 0
	for _, user := range users {
		if _, err := s.messenger.Send(ctx, user, Message); err != nil {
			failed++
			s.metrics.ObserveCheckin("failed")
			s.logger.Error("check-in send failed", "user_id", user, "error", err)
			continue
		}
		sent++
		s.metrics.ObserveCheckin("ok")
	}
	s.logger.Info("check-in round complete", "sent", sent, "failed", failed)
}
