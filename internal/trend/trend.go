// Package trend holds the pure statistical functions behind the analytics
// service: least-squares trend classification, attendance bucketing, behavior
// clustering and rule-based risk assessment. Nothing here performs I/O and
// every function is deterministic over its inputs.
package trend

import (
	"math"

	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

const (
	improvingSlope = 0.1
	decliningSlope = -0.1
)

// Calculate fits an ordinary least-squares line over (index, value) pairs and
// classifies the slope. The index is the position in the sequence, not wall
// clock time, so callers must pass values in chronological order.
func Calculate(values []float64) models.TrendResult {
	if len(values) < 2 {
		return models.TrendResult{Direction: models.TrendInsufficientData}
	}

	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return models.TrendResult{Direction: models.TrendStable}
	}

	slope := (n*sumXY - sumX*sumY) / denom

	return models.TrendResult{
		Direction: classify(slope),
		Strength:  math.Min(math.Abs(slope)*10, 10),
		Slope:     slope,
	}
}

func classify(slope float64) models.TrendDirection {
	switch {
	case slope > improvingSlope:
		return models.TrendImproving
	case slope < decliningSlope:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// Ratings extracts the rated values of a chronological record set, preserving
// order, and returns their trend.
func Ratings(records []models.AttendanceRecord) models.TrendResult {
	var values []float64
	for _, rec := range records {
		if rec.Rated() {
			values = append(values, rec.PerformanceRating)
		}
	}
	return Calculate(values)
}

// Attendance maps each record to 1 (attended) or 0 (absent) in chronological
// order and returns the trend of that series.
func Attendance(records []models.AttendanceRecord) models.TrendResult {
	values := make([]float64, 0, len(records))
	for _, rec := range records {
		if rec.Status.Attended() {
			values = append(values, 1)
		} else {
			values = append(values, 0)
		}
	}
	return Calculate(values)
}
