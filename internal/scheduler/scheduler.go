package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/footballinvestment/lion-football-academy/internal/events"
	"github.com/footballinvestment/lion-football-academy/internal/logger"
	"github.com/footballinvestment/lion-football-academy/internal/queue"
	"github.com/footballinvestment/lion-football-academy/pkg/config"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

const (
	TriggerTrainingReminder   = "training-reminder"
	TriggerWeeklyReport       = "weekly-report"
	TriggerLowAttendanceAlert = "low-attendance-alert"
)

// PerformanceAnalyzer is the slice of the analytics service the scheduled
// passes need.
type PerformanceAnalyzer interface {
	AnalyzeSubjectPerformance(ctx context.Context, playerID string, windowWeeks int) (*models.SubjectAnalysis, error)
	GroupAttendancePercent(ctx context.Context, teamID string, from, to time.Time) (float64, int, error)
}

type SessionDirectory interface {
	UpcomingSessions(ctx context.Context, from, to time.Time) ([]models.Session, error)
	ActiveTeams(ctx context.Context) ([]models.Team, error)
}

type RecipientDirectory interface {
	RecipientsForTeam(ctx context.Context, teamID string) ([]models.Recipient, error)
	ResponsibleForTeam(ctx context.Context, teamID string) (models.Recipient, error)
	Admins(ctx context.Context) ([]models.Recipient, error)
	TrackedSubjects(ctx context.Context) (map[models.Recipient][]string, error)
	Preferences(ctx context.Context, recipientID string) (models.RecipientPreferences, error)
}

type trigger struct {
	name    string
	spec    string
	run     func()
	entryID cron.EntryID
	running bool
}

// Scheduler owns the recurring triggers. Each trigger is registered once at
// process start and is independently startable and stoppable; StopAll clears
// the registry and is meant for shutdown only.
type Scheduler struct {
	cron      *cron.Cron
	config    config.SchedulerConfig
	threshold float64 // low-attendance percent

	analytics  PerformanceAnalyzer
	sessions   SessionDirectory
	recipients RecipientDirectory
	queue      queue.Client
	publisher  *events.Publisher

	mu       sync.Mutex
	triggers map[string]*trigger
}

func New(
	cfg config.SchedulerConfig,
	analyticsCfg config.AnalyticsConfig,
	analytics PerformanceAnalyzer,
	sessions SessionDirectory,
	recipients RecipientDirectory,
	q queue.Client,
	publisher *events.Publisher,
) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone %q: %w", cfg.Timezone, err)
	}

	s := &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		config:     cfg,
		threshold:  analyticsCfg.LowAttendancePct,
		analytics:  analytics,
		sessions:   sessions,
		recipients: recipients,
		queue:      q,
		publisher:  publisher,
		triggers:   make(map[string]*trigger),
	}

	s.register(TriggerTrainingReminder, cfg.ReminderCron, s.reminderPass)
	s.register(TriggerWeeklyReport, cfg.ReportCron, s.reportPass)
	s.register(TriggerLowAttendanceAlert, cfg.AlertCron, s.lowAttendancePass)

	return s, nil
}

func (s *Scheduler) register(name, spec string, pass func(ctx context.Context) (int, error)) {
	s.triggers[name] = &trigger{
		name: name,
		spec: spec,
		run:  s.wrap(name, pass),
	}
}

// wrap bounds a pass with the configured timeout and isolates its errors:
// a failed firing is reported and logged, never propagated to cron.
func (s *Scheduler) wrap(name string, pass func(ctx context.Context) (int, error)) func() {
	return func() {
		ctx := context.Background()
		if s.config.PassTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.config.PassTimeout)
			defer cancel()
		}

		logger.WithTrigger(name).Info("Trigger firing")
		enqueued, err := pass(ctx)
		if err != nil {
			logger.WithTrigger(name).Errorf("Trigger failed: %v", err)
			s.publisher.TriggerFailed(name, err)
			return
		}

		logger.WithTrigger(name).Infof("Trigger completed, %d jobs enqueued", enqueued)
		s.publisher.TriggerFired(name, enqueued)
	}
}

// StartAll registers every trigger with cron and starts the clock.
func (s *Scheduler) StartAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.triggers {
		if err := s.startLocked(t); err != nil {
			return err
		}
	}
	s.cron.Start()
	logger.Infof("Scheduler started with %d triggers (%s)", len(s.triggers), s.config.Timezone)
	return nil
}

// Start activates one named trigger.
func (s *Scheduler) Start(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.triggers[name]
	if !ok {
		return fmt.Errorf("unknown trigger: %s", name)
	}
	return s.startLocked(t)
}

func (s *Scheduler) startLocked(t *trigger) error {
	if t.running {
		return nil
	}
	id, err := s.cron.AddFunc(t.spec, t.run)
	if err != nil {
		return fmt.Errorf("register trigger %s (%q): %w", t.name, t.spec, err)
	}
	t.entryID = id
	t.running = true
	return nil
}

// Stop deactivates one named trigger; it stays registered and restartable.
func (s *Scheduler) Stop(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.triggers[name]
	if !ok {
		return fmt.Errorf("unknown trigger: %s", name)
	}
	if t.running {
		s.cron.Remove(t.entryID)
		t.running = false
	}
	return nil
}

// StopAll cancels every trigger and clears the registry. Shutdown only.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.triggers {
		if t.running {
			s.cron.Remove(t.entryID)
			t.running = false
		}
	}
	s.triggers = make(map[string]*trigger)

	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Scheduler stopped")
}

// Running reports whether a named trigger is currently active.
func (s *Scheduler) Running(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.triggers[name]
	return ok && t.running
}
