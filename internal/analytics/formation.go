package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/footballinvestment/lion-football-academy/internal/logger"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

const (
	fitnessBase          = 0.5
	maxPerformanceBonus  = 0.3
	maxAttendanceBonus   = 0.2
	optimalFitnessScore  = 0.8
	formationWindowWeeks = 8
)

// OptimizeAssignment scores each squad member's fitness as a weighted sum of
// normalized performance and attendance, flags optimal players and derives a
// formation deterministically from the score distribution.
func (s *Service) OptimizeAssignment(ctx context.Context, teamID string) (*models.FormationPlan, error) {
	from, to := s.window(formationWindowWeeks)

	roster, err := s.sessions.TeamRoster(ctx, teamID)
	if err != nil {
		return nil, wrapRead("fetch team roster", err)
	}
	records, err := s.attendance.TeamAttendance(ctx, teamID, from, to)
	if err != nil {
		return nil, wrapRead("fetch team attendance", err)
	}

	perPlayer := make(map[string][]models.AttendanceRecord)
	for _, rec := range records {
		perPlayer[rec.PlayerID] = append(perPlayer[rec.PlayerID], rec)
	}

	analysis := make([]models.PlayerFitness, 0, len(roster))
	for _, player := range roster {
		m := summarize(perPlayer[player.ID])
		fitness := scoreFitness(m)
		pf := models.PlayerFitness{
			PlayerID:       player.ID,
			Name:           player.Name,
			Position:       player.Position,
			Score:          fitness,
			Optimal:        fitness >= optimalFitnessScore,
			AttendanceRate: m.AttendanceRate,
			AvgRating:      m.AvgRating,
		}
		if !pf.Optimal {
			pf.SuggestedRole = suggestRole(m)
		}
		analysis = append(analysis, pf)
	}

	// Highest score first; player ID breaks ties so the plan is stable.
	sort.SliceStable(analysis, func(i, j int) bool {
		if analysis[i].Score != analysis[j].Score {
			return analysis[i].Score > analysis[j].Score
		}
		return analysis[i].PlayerID < analysis[j].PlayerID
	})

	plan := &models.FormationPlan{
		TeamID:             teamID,
		PositionAnalysis:   analysis,
		OptimizedFormation: selectFormation(analysis),
		Recommendations:    formationRecommendations(analysis),
		GeneratedAt:        time.Now(),
	}

	logger.WithTeam(teamID).Debugf("Formation: %s over %d players", plan.OptimizedFormation, len(analysis))
	s.publisher.AnalysisCompleted(teamID, "assignment_optimization", plan)

	return plan, nil
}

// scoreFitness: 0.5 base, up to 0.3 for performance, up to 0.2 for
// attendance, hard cap at 1.0.
func scoreFitness(m models.SubjectMetrics) float64 {
	score := fitnessBase

	if m.RatedCount > 0 {
		// Ratings run 1-5; normalize so 5 earns the full bonus.
		score += clamp((m.AvgRating-1)/4, 0, 1) * maxPerformanceBonus
	}
	score += clamp(m.AttendanceRate, 0, 1) * maxAttendanceBonus

	return clamp(score, 0, 1)
}

// selectFormation is a pure function of the fitness scores. The source system
// picked a formation label at random here; that was a stub, so the label is
// derived from squad strength instead.
func selectFormation(analysis []models.PlayerFitness) string {
	if len(analysis) == 0 {
		return "4-4-2"
	}

	var sum float64
	for _, pf := range analysis {
		sum += pf.Score
	}
	avg := sum / float64(len(analysis))

	switch {
	case avg >= 0.8:
		return "4-3-3"
	case avg >= 0.65:
		return "4-4-2"
	default:
		return "5-3-2"
	}
}

// suggestRole leans on the player's stronger dimension.
func suggestRole(m models.SubjectMetrics) string {
	if m.AttendanceRate >= 0.85 && m.AvgRating < 3.5 {
		return "rotation anchor"
	}
	if m.AvgRating >= 3.5 {
		return "impact substitute"
	}
	return "development group"
}

func formationRecommendations(analysis []models.PlayerFitness) []models.Recommendation {
	var recs []models.Recommendation

	optimal := 0
	for _, pf := range analysis {
		if pf.Optimal {
			optimal++
		}
	}

	if len(analysis) > 0 && optimal < len(analysis)/2 {
		recs = append(recs, models.Recommendation{
			Category:    "squad",
			Priority:    models.PriorityHigh,
			Title:       "Broaden the reliable core",
			Description: fmt.Sprintf("Only %d of %d players currently score as optimal starters.", optimal, len(analysis)),
			ActionItems: []string{
				"Prioritize attendance follow-ups for borderline players",
				"Rotate development-group players into low-stakes matches",
			},
		})
	}

	for _, pf := range analysis {
		if pf.SuggestedRole == "development group" {
			recs = append(recs, models.Recommendation{
				Category:    "player",
				Priority:    models.PriorityMedium,
				Title:       "Individual development focus: " + pf.Name,
				Description: "Fitness score is below starter threshold on both dimensions.",
				ActionItems: []string{"Assign an individual training plan"},
			})
		}
	}

	SortByPriority(recs)
	return recs
}
