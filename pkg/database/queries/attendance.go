package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// AttendanceRepository is the read-only query surface over attendance
// records. This core never writes to it.
type AttendanceRepository struct {
	db *sql.DB
}

func NewAttendanceRepository(db *sql.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const attendanceColumns = `
	a.session_id, a.player_id, t.team_id, a.status, a.late_minutes,
	COALESCE(a.performance_rating, 0), t.session_date, t.type, t.duration`

// PlayerAttendance returns one player's records in the range, oldest first.
// Chronological order is load-bearing: trend indexes follow row order.
func (r *AttendanceRepository) PlayerAttendance(ctx context.Context, playerID string, from, to time.Time) ([]models.AttendanceRecord, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance a
		JOIN trainings t ON t.id = a.session_id
		WHERE a.player_id = $1 AND t.session_date >= $2 AND t.session_date <= $3
		ORDER BY t.session_date ASC`

	return r.queryRecords(ctx, query, playerID, from, to)
}

// TeamAttendance returns every squad member's records in the range, oldest
// first.
func (r *AttendanceRepository) TeamAttendance(ctx context.Context, teamID string, from, to time.Time) ([]models.AttendanceRecord, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance a
		JOIN trainings t ON t.id = a.session_id
		WHERE t.team_id = $1 AND t.session_date >= $2 AND t.session_date <= $3
		ORDER BY t.session_date ASC, a.player_id ASC`

	return r.queryRecords(ctx, query, teamID, from, to)
}

func (r *AttendanceRepository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]models.AttendanceRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.AttendanceRecord
	for rows.Next() {
		var rec models.AttendanceRecord
		err := rows.Scan(
			&rec.SessionID, &rec.PlayerID, &rec.TeamID, &rec.Status,
			&rec.LateMinutes, &rec.PerformanceRating, &rec.Timestamp,
			&rec.SessionType, &rec.SessionDuration,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
