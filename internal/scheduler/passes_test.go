package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/footballinvestment/lion-football-academy/internal/queue"
	"github.com/footballinvestment/lion-football-academy/pkg/config"
	"github.com/footballinvestment/lion-football-academy/pkg/database/queries"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

type teamAttendance struct {
	rate    float64
	samples int
}

type fakeAnalytics struct {
	attendance map[string]teamAttendance
	analyses   map[string]*models.SubjectAnalysis
}

func (f *fakeAnalytics) AnalyzeSubjectPerformance(_ context.Context, playerID string, windowWeeks int) (*models.SubjectAnalysis, error) {
	if a, ok := f.analyses[playerID]; ok {
		return a, nil
	}
	return &models.SubjectAnalysis{SubjectID: playerID, WindowWeeks: windowWeeks}, nil
}

func (f *fakeAnalytics) GroupAttendancePercent(_ context.Context, teamID string, _, _ time.Time) (float64, int, error) {
	a := f.attendance[teamID]
	return a.rate, a.samples, nil
}

type fakeSessions struct {
	upcoming []models.Session
	teams    []models.Team
}

func (f *fakeSessions) UpcomingSessions(_ context.Context, _, _ time.Time) ([]models.Session, error) {
	return f.upcoming, nil
}

func (f *fakeSessions) ActiveTeams(_ context.Context) ([]models.Team, error) {
	return f.teams, nil
}

type fakeRecipients struct {
	byTeam      map[string][]models.Recipient
	responsible map[string]models.Recipient
	admins      []models.Recipient
	tracked     map[models.Recipient][]string
	prefs       map[string]models.RecipientPreferences
}

func (f *fakeRecipients) RecipientsForTeam(_ context.Context, teamID string) ([]models.Recipient, error) {
	return f.byTeam[teamID], nil
}

func (f *fakeRecipients) ResponsibleForTeam(_ context.Context, teamID string) (models.Recipient, error) {
	r, ok := f.responsible[teamID]
	if !ok {
		return models.Recipient{}, queries.ErrRecipientNotFound
	}
	return r, nil
}

func (f *fakeRecipients) Admins(_ context.Context) ([]models.Recipient, error) {
	return f.admins, nil
}

func (f *fakeRecipients) TrackedSubjects(_ context.Context) (map[models.Recipient][]string, error) {
	return f.tracked, nil
}

func (f *fakeRecipients) Preferences(_ context.Context, recipientID string) (models.RecipientPreferences, error) {
	if p, ok := f.prefs[recipientID]; ok {
		return p, nil
	}
	return models.RecipientPreferences{RecipientID: recipientID, EmailEnabled: true}, nil
}

type enqueuedJob struct {
	kind    models.JobKind
	payload interface{}
}

type fakeQueue struct {
	jobs []enqueuedJob
}

func (q *fakeQueue) Enqueue(_ context.Context, kind models.JobKind, payload interface{}, _ models.JobOptions) (*models.DeliveryJob, error) {
	q.jobs = append(q.jobs, enqueuedJob{kind: kind, payload: payload})
	return &models.DeliveryJob{ID: "job-1", Kind: kind}, nil
}

func (q *fakeQueue) EnqueueBulk(_ context.Context, _ []queue.JobRequest) []models.JobResult {
	return nil
}

func (q *fakeQueue) Stats(_ context.Context) models.QueueStats { return models.QueueStats{} }
func (q *fakeQueue) RetryFailed(_ context.Context) (int, error) { return 0, nil }
func (q *fakeQueue) Clean(_ context.Context, _, _ time.Duration) (int, error) { return 0, nil }
func (q *fakeQueue) Pause(_ context.Context) error  { return nil }
func (q *fakeQueue) Resume(_ context.Context) error { return nil }
func (q *fakeQueue) Close() error                   { return nil }

func testSchedulerConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Timezone:     "Europe/Budapest",
		ReminderCron: "0 18 * * *",
		ReportCron:   "0 8 * * 1",
		AlertCron:    "0 9 * * 1",
		ReportWeeks:  1,
	}
}

func newTestScheduler(t *testing.T, analytics *fakeAnalytics, sessions *fakeSessions, recipients *fakeRecipients) (*Scheduler, *fakeQueue) {
	t.Helper()
	if analytics == nil {
		analytics = &fakeAnalytics{}
	}
	if sessions == nil {
		sessions = &fakeSessions{}
	}
	if recipients == nil {
		recipients = &fakeRecipients{}
	}
	q := &fakeQueue{}

	s, err := New(testSchedulerConfig(), config.AnalyticsConfig{LowAttendancePct: 60},
		analytics, sessions, recipients, q, nil)
	assert.NoError(t, err)
	return s, q
}

func TestLowAttendancePass(t *testing.T) {
	analytics := &fakeAnalytics{attendance: map[string]teamAttendance{
		"t-low":   {rate: 55, samples: 10},
		"t-ok":    {rate: 65, samples: 12},
		"t-quiet": {rate: 0, samples: 0}, // no sessions last week, skipped
	}}
	sessions := &fakeSessions{teams: []models.Team{
		{ID: "t-low", Name: "U12 Lions"},
		{ID: "t-ok", Name: "U14 Lions"},
		{ID: "t-quiet", Name: "U16 Lions"},
	}}
	recipients := &fakeRecipients{responsible: map[string]models.Recipient{
		"t-low": {ID: "coach-1", Email: "coach@academy.hu"},
		"t-ok":  {ID: "coach-2", Email: "coach2@academy.hu"},
	}}
	s, q := newTestScheduler(t, analytics, sessions, recipients)

	enqueued, err := s.lowAttendancePass(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, enqueued)
	assert.Len(t, q.jobs, 1)
	assert.Equal(t, models.JobLowAttendanceAlert, q.jobs[0].kind)

	payload := q.jobs[0].payload.(queue.LowAttendanceAlertPayload)
	assert.Equal(t, "t-low", payload.TeamID)
	assert.InDelta(t, 55, payload.Rate, 1e-9)
	assert.InDelta(t, 60, payload.Threshold, 1e-9)
	assert.Equal(t, "coach-1", payload.Recipients[0].ID)
}

func TestLowAttendancePass_NoResponsibleRecipient(t *testing.T) {
	analytics := &fakeAnalytics{attendance: map[string]teamAttendance{
		"t-low": {rate: 40, samples: 8},
	}}
	sessions := &fakeSessions{teams: []models.Team{{ID: "t-low", Name: "U12"}}}
	s, q := newTestScheduler(t, analytics, sessions, &fakeRecipients{})

	enqueued, err := s.lowAttendancePass(context.Background())

	// A team without a coach on file is skipped, not treated as a failure.
	assert.NoError(t, err)
	assert.Zero(t, enqueued)
	assert.Empty(t, q.jobs)
}

func TestReminderPass(t *testing.T) {
	sessions := &fakeSessions{upcoming: []models.Session{
		{ID: "s1", TeamID: "t1", Type: "technical"},
		{ID: "s2", TeamID: "t1", Type: "match prep"},
	}}
	recipients := &fakeRecipients{
		byTeam: map[string][]models.Recipient{
			"t1": {{ID: "r1", Email: "a@b.hu"}, {ID: "r2", Email: "c@d.hu"}},
		},
		prefs: map[string]models.RecipientPreferences{
			"r2": {
				RecipientID:  "r2",
				EmailEnabled: true,
				Categories:   map[string]bool{string(models.CategoryTrainingReminder): false},
			},
		},
	}
	s, q := newTestScheduler(t, nil, sessions, recipients)

	enqueued, err := s.reminderPass(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, enqueued)
	assert.Len(t, q.jobs, 2)

	// The opted-out recipient must not appear in any payload.
	for _, job := range q.jobs {
		payload := job.payload.(queue.TrainingReminderPayload)
		assert.Len(t, payload.Recipients, 1)
		assert.Equal(t, "r1", payload.Recipients[0].ID)
	}
}

func TestReminderPass_NoEligibleRecipients(t *testing.T) {
	sessions := &fakeSessions{upcoming: []models.Session{{ID: "s1", TeamID: "t1"}}}
	recipients := &fakeRecipients{
		byTeam: map[string][]models.Recipient{"t1": {{ID: "r1"}}},
		prefs: map[string]models.RecipientPreferences{
			"r1": {RecipientID: "r1", EmailEnabled: false},
		},
	}
	s, q := newTestScheduler(t, nil, sessions, recipients)

	enqueued, err := s.reminderPass(context.Background())

	assert.NoError(t, err)
	assert.Zero(t, enqueued)
	assert.Empty(t, q.jobs)
}

func TestReportPass(t *testing.T) {
	coach := models.Recipient{ID: "coach-1", Email: "coach@academy.hu"}
	optedOut := models.Recipient{ID: "parent-1", Email: "parent@family.hu"}
	recipients := &fakeRecipients{
		tracked: map[models.Recipient][]string{
			coach:    {"p1", "p2"},
			optedOut: {"p3"},
		},
		prefs: map[string]models.RecipientPreferences{
			"parent-1": {
				RecipientID:  "parent-1",
				EmailEnabled: true,
				Categories:   map[string]bool{string(models.CategoryProgressReport): false},
			},
		},
		admins: []models.Recipient{{ID: "admin-1", Email: "admin@academy.hu"}},
	}
	s, q := newTestScheduler(t, &fakeAnalytics{}, nil, recipients)

	enqueued, err := s.reportPass(context.Background())

	assert.NoError(t, err)
	// Two per-subject reports for the coach plus one admin aggregate.
	assert.Equal(t, 3, enqueued)

	kinds := make(map[models.JobKind]int)
	for _, job := range q.jobs {
		kinds[job.kind]++
	}
	assert.Equal(t, 2, kinds[models.JobWeeklyReport])
	assert.Equal(t, 1, kinds[models.JobAdminReport])

	var admin queue.AdminReportPayload
	for _, job := range q.jobs {
		if job.kind == models.JobAdminReport {
			admin = job.payload.(queue.AdminReportPayload)
		}
	}
	assert.Len(t, admin.Reports, 2)
	assert.Equal(t, "admin-1", admin.Recipients[0].ID)
}

func TestReportPass_NoTrackedSubjects(t *testing.T) {
	s, q := newTestScheduler(t, nil, nil, &fakeRecipients{
		admins: []models.Recipient{{ID: "admin-1"}},
	})

	enqueued, err := s.reportPass(context.Background())

	// No per-subject reports means no admin aggregate either.
	assert.NoError(t, err)
	assert.Zero(t, enqueued)
	assert.Empty(t, q.jobs)
}

func TestTriggerLifecycle(t *testing.T) {
	s, _ := newTestScheduler(t, nil, nil, nil)

	assert.False(t, s.Running(TriggerWeeklyReport))

	assert.NoError(t, s.Start(TriggerWeeklyReport))
	assert.True(t, s.Running(TriggerWeeklyReport))

	// Starting twice is a no-op, not an error.
	assert.NoError(t, s.Start(TriggerWeeklyReport))

	assert.NoError(t, s.Stop(TriggerWeeklyReport))
	assert.False(t, s.Running(TriggerWeeklyReport))

	assert.Error(t, s.Start("no-such-trigger"))
	assert.Error(t, s.Stop("no-such-trigger"))
}

func TestNew_InvalidTimezone(t *testing.T) {
	cfg := testSchedulerConfig()
	cfg.Timezone = "Mars/Olympus"

	_, err := New(cfg, config.AnalyticsConfig{}, &fakeAnalytics{}, &fakeSessions{}, &fakeRecipients{}, &fakeQueue{}, nil)

	assert.Error(t, err)
}
