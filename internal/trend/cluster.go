package trend

import (
	"sort"

	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

const (
	inconsistentAttendance = 0.7
	concernLateRate        = 0.2
	exemplaryAttendance    = 0.9
	exemplaryLateRate      = 0.1
)

// ClassifyBehavior assigns exactly one of the four fixed labels. The rules
// are evaluated in priority order, so the labels are mutually exclusive.
func ClassifyBehavior(attendanceRate, lateRate float64) models.BehaviorLabel {
	switch {
	case attendanceRate < inconsistentAttendance:
		return models.BehaviorInconsistent
	case lateRate > concernLateRate:
		return models.BehaviorPunctualityConcern
	case attendanceRate > exemplaryAttendance && lateRate < exemplaryLateRate:
		return models.BehaviorExemplary
	default:
		return models.BehaviorReliable
	}
}

// ClusterBehavior aggregates records per player and labels each one. Output
// is sorted by player ID so repeated calls over the same records agree.
func ClusterBehavior(records []models.AttendanceRecord) []models.BehaviorCluster {
	type counts struct {
		total, attended, late int
	}
	perPlayer := make(map[string]*counts)

	for _, rec := range records {
		c, ok := perPlayer[rec.PlayerID]
		if !ok {
			c = &counts{}
			perPlayer[rec.PlayerID] = c
		}
		c.total++
		if rec.Status.Attended() {
			c.attended++
		}
		if rec.Status == models.StatusLate {
			c.late++
		}
	}

	clusters := make([]models.BehaviorCluster, 0, len(perPlayer))
	for playerID, c := range perPlayer {
		attendanceRate := float64(c.attended) / float64(c.total)
		lateRate := float64(c.late) / float64(c.total)
		clusters = append(clusters, models.BehaviorCluster{
			SubjectID:      playerID,
			AttendanceRate: attendanceRate,
			LateRate:       lateRate,
			Label:          ClassifyBehavior(attendanceRate, lateRate),
		})
	}

	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].SubjectID < clusters[j].SubjectID
	})

	return clusters
}
