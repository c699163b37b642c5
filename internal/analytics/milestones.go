package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

var (
	streakThresholds  = []int{5, 10, 20}
	sessionThresholds = []int{10, 25, 50}
)

const highRatingThreshold = 4.5

// DetectMilestones scans a player's full window for attendance streaks,
// session-count marks and standout ratings. Thresholds are fixed so the same
// records always yield the same milestones.
func (s *Service) DetectMilestones(ctx context.Context, playerID string, windowWeeks int) ([]models.Milestone, error) {
	from, to := s.window(windowWeeks)

	records, err := s.attendance.PlayerAttendance(ctx, playerID, from, to)
	if err != nil {
		return nil, wrapRead("fetch player attendance", err)
	}

	var milestones []models.Milestone

	// Longest attendance streak, credited at the highest threshold reached.
	streak, streakEnd := longestStreak(records)
	for i := len(streakThresholds) - 1; i >= 0; i-- {
		if streak >= streakThresholds[i] {
			milestones = append(milestones, models.Milestone{
				Kind:       models.MilestoneAttendanceStreak,
				Label:      fmt.Sprintf("%d sessions attended in a row", streakThresholds[i]),
				Value:      streakThresholds[i],
				AchievedAt: streakEnd,
			})
			break
		}
	}

	attended := 0
	var lastAttended time.Time
	for _, rec := range records {
		if rec.Status.Attended() {
			attended++
			lastAttended = rec.Timestamp
		}
	}
	for i := len(sessionThresholds) - 1; i >= 0; i-- {
		if attended >= sessionThresholds[i] {
			milestones = append(milestones, models.Milestone{
				Kind:       models.MilestoneSessionsPlayed,
				Label:      fmt.Sprintf("%d sessions completed", sessionThresholds[i]),
				Value:      sessionThresholds[i],
				AchievedAt: lastAttended,
			})
			break
		}
	}

	for _, rec := range records {
		if rec.Rated() && rec.PerformanceRating >= highRatingThreshold {
			milestones = append(milestones, models.Milestone{
				Kind:       models.MilestoneRatingHigh,
				Label:      fmt.Sprintf("Standout session rated %.1f", rec.PerformanceRating),
				Value:      int(rec.PerformanceRating),
				AchievedAt: rec.Timestamp,
			})
			break // one standout notice per window is enough
		}
	}

	return milestones, nil
}

func longestStreak(records []models.AttendanceRecord) (int, time.Time) {
	best, current := 0, 0
	var bestEnd time.Time

	for _, rec := range records {
		if rec.Status.Attended() {
			current++
			if current > best {
				best = current
				bestEnd = rec.Timestamp
			}
		} else {
			current = 0
		}
	}

	return best, bestEnd
}
