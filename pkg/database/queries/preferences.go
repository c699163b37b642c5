package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

var ErrRecipientNotFound = errors.New("recipient not found")

// PreferenceRepository resolves who should receive notifications and what
// they opted in to.
type PreferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// RecipientsForTeam returns parents and coaches attached to a team.
func (r *PreferenceRepository) RecipientsForTeam(ctx context.Context, teamID string) ([]models.Recipient, error) {
	query := `
		SELECT u.id, u.name, u.email, u.role
		FROM users u
		JOIN team_recipients tr ON tr.user_id = u.id
		WHERE tr.team_id = $1 AND u.email IS NOT NULL
		ORDER BY u.name ASC`

	return r.queryRecipients(ctx, query, teamID)
}

// ResponsibleForTeam returns the coach accountable for a team's attendance.
func (r *PreferenceRepository) ResponsibleForTeam(ctx context.Context, teamID string) (models.Recipient, error) {
	query := `
		SELECT u.id, u.name, u.email, u.role
		FROM users u
		JOIN teams t ON t.coach_id = u.id
		WHERE t.id = $1`

	var rec models.Recipient
	err := r.db.QueryRowContext(ctx, query, teamID).Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Role)
	if err == sql.ErrNoRows {
		return models.Recipient{}, ErrRecipientNotFound
	}
	if err != nil {
		return models.Recipient{}, err
	}
	return rec, nil
}

func (r *PreferenceRepository) Admins(ctx context.Context) ([]models.Recipient, error) {
	query := `
		SELECT id, name, email, role
		FROM users
		WHERE role = 'admin' AND email IS NOT NULL
		ORDER BY name ASC`

	return r.queryRecipients(ctx, query)
}

// TrackedSubjects maps each recipient to the players they follow. Parents
// track their children, coaches their squad.
func (r *PreferenceRepository) TrackedSubjects(ctx context.Context) (map[models.Recipient][]string, error) {
	query := `
		SELECT u.id, u.name, u.email, u.role, ts.player_id
		FROM users u
		JOIN tracked_subjects ts ON ts.user_id = u.id
		WHERE u.email IS NOT NULL
		ORDER BY u.id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tracked := make(map[models.Recipient][]string)
	for rows.Next() {
		var rec models.Recipient
		var playerID string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Role, &playerID); err != nil {
			return nil, err
		}
		tracked[rec] = append(tracked[rec], playerID)
	}

	return tracked, rows.Err()
}

// Preferences returns a recipient's notification preferences. Missing rows
// default to everything enabled.
func (r *PreferenceRepository) Preferences(ctx context.Context, recipientID string) (models.RecipientPreferences, error) {
	query := `
		SELECT email_enabled, categories
		FROM notification_preferences
		WHERE user_id = $1`

	prefs := models.RecipientPreferences{RecipientID: recipientID}

	var categoriesJSON []byte
	err := r.db.QueryRowContext(ctx, query, recipientID).Scan(&prefs.EmailEnabled, &categoriesJSON)
	if err == sql.ErrNoRows {
		prefs.EmailEnabled = true
		return prefs, nil
	}
	if err != nil {
		return prefs, err
	}

	if len(categoriesJSON) > 0 {
		if err := json.Unmarshal(categoriesJSON, &prefs.Categories); err != nil {
			return prefs, err
		}
	}

	return prefs, nil
}

func (r *PreferenceRepository) queryRecipients(ctx context.Context, query string, args ...interface{}) ([]models.Recipient, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []models.Recipient
	for rows.Next() {
		var rec models.Recipient
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Role); err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}

	return recipients, rows.Err()
}
