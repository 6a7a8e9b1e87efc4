// Package scheduler runs the daily expiring-orders alert.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Notifier sends the alert message
type Notifier interface {
	SendExpiringAlert(ctx context.Context) error
}

// AlertScheduler fires the notifier once a day at a fixed wall-clock time
type AlertScheduler struct {
	notifier Notifier
	spec     string
	schedule cron.Schedule
	loc      *time.Location
	timeout  time.Duration
	logger   *slog.Logger
}

// NewAlertScheduler schedules the alert every day at hour:minute in loc
func NewAlertScheduler(notifier Notifier, hour, minute int, loc *time.Location, logger *slog.Logger) (*AlertScheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}

	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid alert time %02d:%02d: %w", hour, minute, err)
	}

	return &AlertScheduler{
		notifier: notifier,
		spec:     spec,
		schedule: schedule,
		loc:      loc,
		timeout:  2 * time.Minute,
		logger:   logger.With(slog.String("component", "scheduler")),
	}, nil
}

// NextRun first alert time strictly after now
func (s *AlertScheduler) NextRun(now time.Time) time.Time {
	return s.schedule.Next(now.In(s.loc))
}

// Run blocks until ctx is done, firing the alert on schedule
func (s *AlertScheduler) Run(ctx context.Context) error {
	c := cron.New(
		cron.WithLocation(s.loc),
		cron.WithLogger(cronLogger{s.logger}),
		cron.WithChain(cron.Recover(cronLogger{s.logger}), cron.SkipIfStillRunning(cronLogger{s.logger})),
	)
	if _, err := c.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule alert: %w", err)
	}

	c.Start()
	s.logger.Info("alert scheduler started", slog.Time("next_run", s.NextRun(time.Now())))

	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	s.logger.Info("alert scheduler stopped")
	return ctx.Err()
}

// RunOnce sends the alert now; failures are logged
func (s *AlertScheduler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.notifier.SendExpiringAlert(ctx); err != nil {
		s.logger.Error("daily alert failed", slog.Any("error", err))
		return
	}
	s.logger.Debug("daily alert done")
}

// cronLogger adapts slog to cron.Logger
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
