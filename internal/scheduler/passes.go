package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/footballinvestment/lion-football-academy/internal/composer"
	"github.com/footballinvestment/lion-football-academy/internal/logger"
	"github.com/footballinvestment/lion-football-academy/internal/queue"
	"github.com/footballinvestment/lion-football-academy/pkg/database/queries"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// reminderPass enqueues one training-reminder job per upcoming session,
// addressed to the team's recipients who accept the category. Sessions are
// processed sequentially; a failure on one session does not skip the rest.
func (s *Scheduler) reminderPass(ctx context.Context) (int, error) {
	window := s.config.ReminderWindow
	if window <= 0 {
		window = 24 * time.Hour
	}

	now := time.Now()
	sessions, err := s.sessions.UpcomingSessions(ctx, now, now.Add(window))
	if err != nil {
		return 0, err
	}

	enqueued := 0
	var lastErr error
	for _, session := range sessions {
		recipients, err := s.eligibleRecipients(ctx, session.TeamID, string(models.CategoryTrainingReminder))
		if err != nil {
			logger.WithTeam(session.TeamID).Errorf("Resolve reminder recipients: %v", err)
			lastErr = err
			continue
		}
		if len(recipients) == 0 {
			continue
		}

		_, err = s.queue.Enqueue(ctx, models.JobTrainingReminder, queue.TrainingReminderPayload{
			Session:    session,
			Recipients: recipients,
		}, models.JobOptions{})
		if err != nil {
			logger.WithTeam(session.TeamID).Errorf("Enqueue reminder: %v", err)
			lastErr = err
			continue
		}
		enqueued++
	}

	if enqueued == 0 && lastErr != nil {
		return 0, lastErr
	}
	return enqueued, nil
}

// eligibleRecipients intersects a team's recipients with their notification
// preferences for the category.
func (s *Scheduler) eligibleRecipients(ctx context.Context, teamID, category string) ([]models.Recipient, error) {
	recipients, err := s.recipients.RecipientsForTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	eligible := make([]models.Recipient, 0, len(recipients))
	for _, r := range recipients {
		prefs, err := s.recipients.Preferences(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		if prefs.Wants(category) {
			eligible = append(eligible, r)
		}
	}
	return eligible, nil
}

// reportPass builds a window-bounded progress report for every tracked
// subject and enqueues one report job per recipient, then one aggregate
// report for the administrators.
func (s *Scheduler) reportPass(ctx context.Context) (int, error) {
	tracked, err := s.recipients.TrackedSubjects(ctx)
	if err != nil {
		return 0, err
	}

	weeks := s.config.ReportWeeks
	if weeks <= 0 {
		weeks = 1
	}

	enqueued := 0
	allReports := []models.ProgressReport{}
	var lastErr error

	for recipient, subjectIDs := range tracked {
		prefs, err := s.recipients.Preferences(ctx, recipient.ID)
		if err != nil {
			lastErr = err
			continue
		}
		if !prefs.Wants(string(models.CategoryProgressReport)) {
			continue
		}

		for _, subjectID := range subjectIDs {
			analysis, err := s.analytics.AnalyzeSubjectPerformance(ctx, subjectID, weeks)
			if err != nil {
				logger.WithPlayer(subjectID).Errorf("Report analysis: %v", err)
				lastErr = err
				continue
			}

			report := composer.BuildProgressReport(analysis, "")
			allReports = append(allReports, report)

			_, err = s.queue.Enqueue(ctx, models.JobWeeklyReport, queue.WeeklyReportPayload{
				Report:     report,
				Recipients: []models.Recipient{recipient},
			}, models.JobOptions{})
			if err != nil {
				lastErr = err
				continue
			}
			enqueued++
		}
	}

	admins, err := s.recipients.Admins(ctx)
	if err != nil {
		return enqueued, err
	}
	if len(admins) > 0 && len(allReports) > 0 {
		_, err = s.queue.Enqueue(ctx, models.JobAdminReport, queue.AdminReportPayload{
			Reports:    allReports,
			Recipients: admins,
		}, models.JobOptions{})
		if err != nil {
			return enqueued, err
		}
		enqueued++
	}

	if enqueued == 0 && lastErr != nil {
		return 0, lastErr
	}
	return enqueued, nil
}

// lowAttendancePass checks every active team's prior-week attendance and
// alerts the responsible coach for teams below the threshold. Teams with no
// sessions in the window are skipped, not alerted.
func (s *Scheduler) lowAttendancePass(ctx context.Context) (int, error) {
	teams, err := s.sessions.ActiveTeams(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	from := now.AddDate(0, 0, -7)

	enqueued := 0
	var lastErr error
	for _, team := range teams {
		rate, samples, err := s.analytics.GroupAttendancePercent(ctx, team.ID, from, now)
		if err != nil {
			logger.WithTeam(team.ID).Errorf("Attendance check: %v", err)
			lastErr = err
			continue
		}
		if samples == 0 || rate >= s.threshold {
			continue
		}

		responsible, err := s.recipients.ResponsibleForTeam(ctx, team.ID)
		if err != nil {
			if errors.Is(err, queries.ErrRecipientNotFound) {
				logger.WithTeam(team.ID).Warn("No responsible recipient for low-attendance alert")
				continue
			}
			lastErr = err
			continue
		}

		_, err = s.queue.Enqueue(ctx, models.JobLowAttendanceAlert, queue.LowAttendanceAlertPayload{
			TeamID:     team.ID,
			TeamName:   team.Name,
			Rate:       rate,
			Threshold:  s.threshold,
			Recipients: []models.Recipient{responsible},
		}, models.JobOptions{})
		if err != nil {
			lastErr = err
			continue
		}
		enqueued++
	}

	if enqueued == 0 && lastErr != nil {
		return 0, lastErr
	}
	return enqueued, nil
}
