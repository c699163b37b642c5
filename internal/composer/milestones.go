package composer

import (
	"fmt"

	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// MilestoneNotice announces a reached milestone to the player's family.
func MilestoneNotice(playerID, playerName string, milestone models.Milestone) models.Notification {
	if playerName == "" {
		playerName = playerID
	}

	body := ""
	switch milestone.Kind {
	case models.MilestoneAttendanceStreak:
		body = RenderTemplate(
			"{{name}} has attended {{value}} sessions in a row. Consistency like this is what builds players.",
			map[string]interface{}{"name": playerName, "value": milestone.Value})
	case models.MilestoneSessionsPlayed:
		body = RenderTemplate(
			"{{name}} has now completed {{value}} training sessions with the academy.",
			map[string]interface{}{"name": playerName, "value": milestone.Value})
	case models.MilestoneRatingHigh:
		body = RenderTemplate(
			"{{name}} earned a standout session rating of {{value}}. A moment worth celebrating.",
			map[string]interface{}{"name": playerName, "value": milestone.Value})
	default:
		body = fmt.Sprintf("%s reached a new milestone: %s.", playerName, milestone.Label)
	}

	return models.Notification{
		Category:  models.CategoryMilestone,
		Priority:  models.PriorityLow,
		Title:     fmt.Sprintf("Milestone reached: %s", milestone.Label),
		Body:      body,
		SubjectID: playerID,
	}
}
