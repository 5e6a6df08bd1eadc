package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
)

// SessionRepository keeps the signed-in user and token of each visitor so
// a session survives a restart.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) SaveSession(ctx context.Context, visitorID uuid.UUID, session *domain.Session) error {
	if session == nil || !session.IsAuthenticated() {
		return fmt.Errorf("refusing to persist an anonymous session")
	}

	userData, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	query := `INSERT INTO visitor_sessions (visitor_id, user_data, token)
		VALUES ($1, $2, $3)
		ON CONFLICT (visitor_id) DO UPDATE
		SET user_data = EXCLUDED.user_data,
			token = EXCLUDED.token,
			updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, query, visitorID, userData, session.Token); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23502" {
			return fmt.Errorf("required field is missing")
		}
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetSession(ctx context.Context, visitorID uuid.UUID) (*domain.Session, error) {
	query := `SELECT user_data, token FROM visitor_sessions WHERE visitor_id = $1`

	var (
		userData []byte
		session  domain.Session
	)
	err := r.db.QueryRowContext(ctx, query, visitorID).Scan(&userData, &session.Token)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(userData, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	session.User = &user
	return &session, nil
}

func (r *SessionRepository) DeleteSession(ctx context.Context, visitorID uuid.UUID) error {
	query := `DELETE FROM visitor_sessions WHERE visitor_id = $1`

	result, err := r.db.ExecContext(ctx, query, visitorID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("session: %w", domain.ErrNotFound)
	}
	return nil
}

// DeleteStale removes sessions not touched since before. It returns how many
// rows were removed.
func (r *SessionRepository) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM visitor_sessions WHERE updated_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
