package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"dormdesk/internal/common"
	"dormdesk/internal/config"
	"dormdesk/internal/metrics"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const (
	JobRecurringExpenses = "recurring-expenses"
	JobSessionCleanup    = "session-cleanup"

	// revoked or expired sessions are kept this long for the audit trail
	sessionRetention = 24 * time.Hour
	jobTimeout       = 10 * time.Minute
)

type RecurringExpenseGenerator interface {
	GenerateDueAll(ctx context.Context, now time.Time) (int, error)
}

type SessionCleaner interface {
	CleanupSessions(ctx context.Context, olderThan time.Time) (int64, error)
}

// JobInfo describes a registered job for the jobs endpoint
type JobInfo struct {
	Name    string     `json:"name"`
	NextRun *time.Time `json:"next_run,omitempty"`
	LastRun *time.Time `json:"last_run,omitempty"`
}

// JobScheduler runs the periodic maintenance jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	recurring RecurringExpenseGenerator
	sessions  SessionCleaner
	log       *zap.Logger
	now       func() time.Time
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates the scheduler and registers its jobs. Jobs run in cfg.Timezone.
func NewJobScheduler(cfg config.SchedulerConfig, recurring RecurringExpenseGenerator, sessions SessionCleaner, log *zap.Logger) (*JobScheduler, error) {
	loc := time.UTC
	if cfg.Timezone != "" {
		var err error
		if loc, err = time.LoadLocation(cfg.Timezone); err != nil {
			return nil, fmt.Errorf("invalid scheduler timezone %q: %w", cfg.Timezone, err)
		}
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		recurring: recurring,
		sessions:  sessions,
		log:       log.Named("scheduler"),
		now:       func() time.Time { return time.Now().In(loc) },
		jobs:      make(map[string]gocron.Job),
	}
	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.log.Info("starting background job scheduler", zap.Int("jobs", len(js.jobs)))
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	js.log.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	definitions := []struct {
		name string
		def  gocron.JobDefinition
		task func(ctx context.Context) error
	}{
		{
			name: JobRecurringExpenses,
			def:  gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(1, 0, 0))),
			task: js.generateRecurringExpenses,
		},
		{
			name: JobSessionCleanup,
			def:  gocron.DurationJob(time.Hour),
			task: js.cleanupSessions,
		},
	}

	for _, d := range definitions {
		job, err := js.scheduler.NewJob(
			d.def,
			gocron.NewTask(js.run, d.name, d.task),
			gocron.WithName(d.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("failed to register job %s: %w", d.name, err)
		}
		js.jobs[d.name] = job
	}
	return nil
}

// run wraps a task with a timeout, logging and the job counter
func (js *JobScheduler) run(name string, task func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	err := task(ctx)
	metrics.RecordJobRun(name, err == nil)
	if err != nil {
		js.log.Error("job failed", zap.String("job", name), zap.Duration("duration", time.Since(start)), zap.Error(err))
		return
	}
	js.log.Info("job completed", zap.String("job", name), zap.Duration("duration", time.Since(start)))
}

func (js *JobScheduler) generateRecurringExpenses(ctx context.Context) error {
	created, err := js.recurring.GenerateDueAll(ctx, js.now())
	if created > 0 {
		js.log.Info("generated recurring expenses", zap.Int("created", created))
	}
	return err
}

func (js *JobScheduler) cleanupSessions(ctx context.Context) error {
	deleted, err := js.sessions.CleanupSessions(ctx, js.now().Add(-sessionRetention))
	if err != nil {
		return err
	}
	if deleted > 0 {
		js.log.Info("deleted stale sessions", zap.Int64("deleted", deleted))
	}
	return nil
}

// Jobs lists the registered jobs ordered by name
func (js *JobScheduler) Jobs() []JobInfo {
	js.mu.RLock()
	defer js.mu.RUnlock()

	out := make([]JobInfo, 0, len(js.jobs))
	for name, job := range js.jobs {
		info := JobInfo{Name: name}
		if next, err := job.NextRun(); err == nil && !next.IsZero() {
			info.NextRun = &next
		}
		if last, err := job.LastRun(); err == nil && !last.IsZero() {
			info.LastRun = &last
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RunNow triggers a registered job outside its schedule
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %q: %w", name, common.ErrNotFound)
	}
	return job.RunNow()
}
