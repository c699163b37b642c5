package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/footballinvestment/lion-football-academy/internal/logger"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// sessionTypeRotation is the fixed cycle proposed slots advance through.
var sessionTypeRotation = []string{"technical", "tactical", "physical", "match_practice"}

// GenerateScheduleRecommendation proposes session slots at the historically
// strongest day and time band, cycling the session type per slot.
func (s *Service) GenerateScheduleRecommendation(ctx context.Context, teamID string, weeksAhead int) (*models.ScheduleRecommendation, error) {
	if weeksAhead <= 0 {
		weeksAhead = 2
	}

	patterns, err := s.AnalyzeGroupPatterns(ctx, teamID, s.config.DefaultWindowWeeks)
	if err != nil {
		return nil, err
	}

	bestDay := "Saturday"
	if len(patterns.Patterns.ByDayOfWeek) > 0 {
		bestDay = patterns.Patterns.ByDayOfWeek[0].Key
	}
	bestBand := "afternoon"
	if len(patterns.Patterns.ByTimeBand) > 0 {
		bestBand = patterns.Patterns.ByTimeBand[0].Key
	}

	slots := make([]models.SessionSlot, 0, weeksAhead)
	for i := 0; i < weeksAhead; i++ {
		slots = append(slots, models.SessionSlot{
			Day:      bestDay,
			TimeBand: bestBand,
			Type:     sessionTypeRotation[i%len(sessionTypeRotation)],
		})
	}

	rationale := []string{
		fmt.Sprintf("%s %s sessions had the best historical turnout", bestDay, bestBand),
	}
	if patterns.Predictions.SampleSize > 0 {
		rationale = append(rationale, fmt.Sprintf(
			"Expected attendance around %.0f%% based on %d records",
			patterns.Predictions.ExpectedRate*100, patterns.Predictions.SampleSize))
	} else {
		rationale = append(rationale, "No history for this team yet, defaults proposed")
	}

	rec := &models.ScheduleRecommendation{
		TeamID:       teamID,
		WeeksAhead:   weeksAhead,
		Slots:        slots,
		BestDay:      bestDay,
		BestTimeBand: bestBand,
		Confidence:   patterns.Predictions.Confidence,
		Rationale:    rationale,
		GeneratedAt:  time.Now(),
	}

	logger.WithTeam(teamID).Debugf("Schedule recommendation: %s/%s x%d", bestDay, bestBand, weeksAhead)
	return rec, nil
}
