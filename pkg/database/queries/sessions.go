package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// TeamSessions returns a team's sessions in the range, oldest first.
func (r *SessionRepository) TeamSessions(ctx context.Context, teamID string, from, to time.Time) ([]models.Session, error) {
	query := `
		SELECT id, team_id, session_date, session_time, type, duration
		FROM trainings
		WHERE team_id = $1 AND session_date >= $2 AND session_date <= $3
		ORDER BY session_date ASC`

	return r.querySessions(ctx, query, teamID, from, to)
}

// UpcomingSessions returns every session starting inside the window across
// all teams. Used by the reminder pass.
func (r *SessionRepository) UpcomingSessions(ctx context.Context, from, to time.Time) ([]models.Session, error) {
	query := `
		SELECT id, team_id, session_date, session_time, type, duration
		FROM trainings
		WHERE session_date >= $1 AND session_date <= $2
		ORDER BY session_date ASC`

	return r.querySessions(ctx, query, from, to)
}

func (r *SessionRepository) ActiveTeams(ctx context.Context) ([]models.Team, error) {
	query := `SELECT id, name FROM teams WHERE active = true ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}

	return teams, rows.Err()
}

func (r *SessionRepository) TeamRoster(ctx context.Context, teamID string) ([]models.Player, error) {
	query := `
		SELECT id, team_id, name, COALESCE(position, '')
		FROM players
		WHERE team_id = $1
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Name, &p.Position); err != nil {
			return nil, err
		}
		players = append(players, p)
	}

	return players, rows.Err()
}

func (r *SessionRepository) querySessions(ctx context.Context, query string, args ...interface{}) ([]models.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.TeamID, &s.Date, &s.Time, &s.Type, &s.Duration); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}
