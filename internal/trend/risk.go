package trend

import (
	"fmt"

	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

const (
	riskRecentSessions   = 5
	riskAbsenceCount     = 3
	riskRatingSessions   = 3
	riskRatingFloor      = 3.0
	riskLateMinutesLimit = 60
)

// AssessRisks evaluates the fixed risk rules over a chronological record set.
// Rules are independent: every matching risk is emitted.
func AssessRisks(records []models.AttendanceRecord) []models.RiskFactor {
	var risks []models.RiskFactor

	if r, ok := attendanceRisk(records); ok {
		risks = append(risks, r)
	}
	if r, ok := performanceRisk(records); ok {
		risks = append(risks, r)
	}
	if r, ok := punctualityRisk(records); ok {
		risks = append(risks, r)
	}

	return risks
}

// attendanceRisk: three or more absences within the last five sessions.
func attendanceRisk(records []models.AttendanceRecord) (models.RiskFactor, bool) {
	recent := records
	if len(recent) > riskRecentSessions {
		recent = recent[len(recent)-riskRecentSessions:]
	}

	absences := 0
	for _, rec := range recent {
		if !rec.Status.Attended() {
			absences++
		}
	}

	if absences < riskAbsenceCount {
		return models.RiskFactor{}, false
	}

	return models.RiskFactor{
		Type:     "attendance",
		Severity: models.RiskHigh,
		Description: fmt.Sprintf(
			"%d absences in the last %d sessions", absences, len(recent)),
	}, true
}

// performanceRisk: average of the last three ratings below 3.
func performanceRisk(records []models.AttendanceRecord) (models.RiskFactor, bool) {
	var rated []float64
	for _, rec := range records {
		if rec.Rated() {
			rated = append(rated, rec.PerformanceRating)
		}
	}
	if len(rated) < riskRatingSessions {
		return models.RiskFactor{}, false
	}

	last := rated[len(rated)-riskRatingSessions:]
	var sum float64
	for _, v := range last {
		sum += v
	}
	avg := sum / float64(len(last))

	if avg >= riskRatingFloor {
		return models.RiskFactor{}, false
	}

	return models.RiskFactor{
		Type:     "performance",
		Severity: models.RiskMedium,
		Description: fmt.Sprintf(
			"average rating %.1f over the last %d rated sessions", avg, riskRatingSessions),
	}, true
}

// punctualityRisk: more than 60 cumulative late minutes in the window.
func punctualityRisk(records []models.AttendanceRecord) (models.RiskFactor, bool) {
	total := 0
	for _, rec := range records {
		total += rec.LateMinutes
	}

	if total <= riskLateMinutesLimit {
		return models.RiskFactor{}, false
	}

	return models.RiskFactor{
		Type:        "punctuality",
		Severity:    models.RiskLow,
		Description: fmt.Sprintf("%d minutes of accumulated lateness", total),
	}, true
}
