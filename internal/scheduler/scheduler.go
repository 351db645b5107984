package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Reporter produces the scheduled Telegram reports.
type Reporter interface {
	Lineup(ctx context.Context) (string, error)
	Injuries(ctx context.Context) (string, error)
	Matchup(ctx context.Context) (string, error)
	LogPreviousWeek(ctx context.Context) (string, error)
}

type Scheduler struct {
	s           gocron.Scheduler
	reporter    Reporter
	sendMessage func(string) error
	lineupCron  string

	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(reporter Reporter, sendMessage func(string) error, lineupCron, timezone string) (*Scheduler, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		slog.Error("Failed to load location, using UTC", "timezone", timezone, "error", err)
		location = time.UTC
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		s:           s,
		reporter:    reporter,
		sendMessage: sendMessage,
		lineupCron:  lineupCron,
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

func (s *Scheduler) Start() error {
	var err error

	// Optimal lineup - LINEUP_CRON, Sunday morning by default
	_, err = s.s.NewJob(
		gocron.CronJob(s.lineupCron, false),
		gocron.NewTask(s.sendLineup),
		gocron.WithName("lineup"),
	)
	if err != nil {
		return fmt.Errorf("failed to create lineup job: %w", err)
	}

	// Injury watch - Sunday 11:00, before the early games lock
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Sunday), gocron.NewAtTimes(gocron.NewAtTime(11, 0, 0))),
		gocron.NewTask(s.sendInjuries),
		gocron.WithName("injuries"),
	)
	if err != nil {
		return fmt.Errorf("failed to create injury watch job: %w", err)
	}

	// Matchup preview - Thursday 18:30
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Thursday), gocron.NewAtTimes(gocron.NewAtTime(18, 30, 0))),
		gocron.NewTask(s.sendMatchup),
		gocron.WithName("matchup"),
	)
	if err != nil {
		return fmt.Errorf("failed to create matchup job: %w", err)
	}

	// Performance log - Tuesday 7:30, after Monday night is final
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Tuesday), gocron.NewAtTimes(gocron.NewAtTime(7, 30, 0))),
		gocron.NewTask(s.logPreviousWeek),
		gocron.WithName("performance-log"),
	)
	if err != nil {
		return fmt.Errorf("failed to create performance log job: %w", err)
	}

	s.s.Start()
	slog.Info("Scheduler started", "jobs", len(s.s.Jobs()), "lineup_cron", s.lineupCron)
	return nil
}

func (s *Scheduler) Stop() error {
	s.cancel()
	return s.s.Shutdown()
}

func (s *Scheduler) run(name string, report func(context.Context) (string, error)) {
	ctx, cancel := context.WithTimeout(s.ctx, time.Minute)
	defer cancel()

	text, err := report(ctx)
	if err != nil {
		slog.Error("Scheduled report failed", "job", name, "error", err)
		return
	}
	if text == "" {
		slog.Debug("Nothing to send", "job", name)
		return
	}
	if err := s.sendMessage(text); err != nil {
		slog.Error("Failed to send scheduled report", "job", name, "error", err)
	}
}

func (s *Scheduler) sendLineup() {
	s.run("lineup", s.reporter.Lineup)
}

func (s *Scheduler) sendInjuries() {
	s.run("injuries", s.reporter.Injuries)
}

func (s *Scheduler) sendMatchup() {
	s.run("matchup", s.reporter.Matchup)
}

func (s *Scheduler) logPreviousWeek() {
	s.run("performance-log", s.reporter.LogPreviousWeek)
}
