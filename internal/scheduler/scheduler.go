package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// taskTimeout bounds a single run of any task
const taskTimeout = 30 * time.Second

// Task is a periodic maintenance job
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Cleaner runs the periodic sweeps
type Cleaner interface {
	CleanupSessions(ctx context.Context) error
	CleanupStates(ctx context.Context) error
	CleanupRateLimits(ctx context.Context) error
}

// Pinger checks database health
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Tasks returns the bot's maintenance schedule
func Tasks(cleaner Cleaner, db Pinger) []Task {
	return []Task{
		{Name: "answer-session-sweep", Interval: time.Minute, Run: cleaner.CleanupSessions},
		{Name: "rate-limit-sweep", Interval: 10 * time.Minute, Run: cleaner.CleanupRateLimits},
		{Name: "user-state-sweep", Interval: time.Hour, Run: cleaner.CleanupStates},
		{Name: "db-health", Interval: 5 * time.Minute, Run: db.PingContext},
	}
}

// Start registers tasks and starts the scheduler. Every task also runs once
// right away. Runs of the same task never overlap.
func Start(ctx context.Context, tasks []Task, logger *zap.Logger, opts ...gocron.SchedulerOption) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	for _, task := range tasks {
		task := task
		_, err := s.NewJob(
			gocron.DurationJob(task.Interval),
			gocron.NewTask(func() { run(ctx, task, logger) }),
			gocron.WithName(task.Name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		)
		if err != nil {
			_ = s.Shutdown()
			return nil, fmt.Errorf("failed to schedule %s: %w", task.Name, err)
		}
	}

	s.Start()
	logger.Info("Scheduler started", zap.Int("tasks", len(tasks)))
	return s, nil
}

func run(ctx context.Context, task Task, logger *zap.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, taskTimeout)
	defer cancel()

	start := time.Now()
	if err := task.Run(runCtx); err != nil {
		logger.Error("Scheduled task failed",
			zap.String("task", task.Name),
			zap.Duration("took", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	logger.Debug("Scheduled task completed",
		zap.String("task", task.Name),
		zap.Duration("took", time.Since(start)),
	)
}
