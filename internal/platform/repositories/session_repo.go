package repositories

import (
	"database/sql"
	"time"

	"ddsync/internal/platform/models"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(s *models.CheckoutSession) error {
	s.CreatedAt = time.Now().Unix()

	query := `
		INSERT INTO checkout_sessions (
			flow_id, test_mode, session_token, description, contact_id,
			contribution_id, contribution_recur_id, membership_id,
			entry_url, expires_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		s.FlowID, s.TestMode, s.SessionToken, s.Description, s.ContactID,
		s.ContributionID, s.ContributionRecurID, s.MembershipID,
		s.EntryURL, s.ExpiresAt, s.CreatedAt,
	)
	return err
}

// Get returns nil for unknown or expired flow ids.
func (r *SessionRepository) Get(flowID string) (*models.CheckoutSession, error) {
	query := `
		SELECT flow_id, test_mode, session_token, description, contact_id,
		       contribution_id, contribution_recur_id, membership_id,
		       entry_url, expires_at, created_at
		FROM checkout_sessions
		WHERE flow_id = ? AND expires_at > ?
	`
	row := r.db.QueryRow(query, flowID, time.Now().Unix())

	var s models.CheckoutSession
	var description, entryURL sql.NullString
	err := row.Scan(
		&s.FlowID, &s.TestMode, &s.SessionToken, &description, &s.ContactID,
		&s.ContributionID, &s.ContributionRecurID, &s.MembershipID,
		&entryURL, &s.ExpiresAt, &s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Description = description.String
	s.EntryURL = entryURL.String
	return &s, nil
}

func (r *SessionRepository) Delete(flowID string) error {
	_, err := r.db.Exec("DELETE FROM checkout_sessions WHERE flow_id = ?", flowID)
	return err
}

// PurgeExpired removes sessions whose customer never came back. Run
// periodically by the worker.
func (r *SessionRepository) PurgeExpired() (int64, error) {
	res, err := r.db.Exec("DELETE FROM checkout_sessions WHERE expires_at <= ?", time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
