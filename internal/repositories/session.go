package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/droplet/internal/models"
	"github.com/desertthunder/droplet/internal/shared"
)

// SessionRepository stores one row per transfer server run.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts session, generating an ID when it has none.
func (r *SessionRepository) Create(session *models.Session) error {
	if session.ID() == "" {
		session.SetID(shared.GenerateID())
	}

	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, port, address, started_at) VALUES (?, ?, ?, ?)`,
		session.ID(), session.Port(), session.Address(), session.StartedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(id string) (*models.Session, error) {
	row := r.db.QueryRow(`SELECT id, port, address, started_at, stopped_at FROM sessions WHERE id = ?`, id)

	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: session %s", shared.ErrRecordNotFound, id)
	}
	return session, err
}

// MarkStopped records the stop time of a running session.
func (r *SessionRepository) MarkStopped(id string, at time.Time) error {
	result, err := r.db.Exec(`UPDATE sessions SET stopped_at = ? WHERE id = ? AND stopped_at IS NULL`, at, id)
	if err != nil {
		return fmt.Errorf("failed to stop session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: running session %s", shared.ErrRecordNotFound, id)
	}
	return nil
}

// List returns sessions newest first, honoring an optional "limit" (int) criterion.
func (r *SessionRepository) List(criteria map[string]any) ([]*models.Session, error) {
	query := `SELECT id, port, address, started_at, stopped_at FROM sessions ORDER BY started_at DESC`
	args := []any{}

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return sessions, nil
}

func scanSession(s scanner) (*models.Session, error) {
	var (
		id        string
		port      int
		address   string
		startedAt time.Time
		stoppedAt sql.NullTime
	)

	err := s.Scan(&id, &port, &address, &startedAt, &stoppedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	session := models.NewSession(port, address)
	session.SetID(id)
	session.SetStartedAt(startedAt)
	if stoppedAt.Valid {
		session.SetStoppedAt(&stoppedAt.Time)
	}
	return session, nil
}
