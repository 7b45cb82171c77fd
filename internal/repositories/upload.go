package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/droplet/internal/models"
	"github.com/desertthunder/droplet/internal/shared"
)

const uploadColumns = `id, sequence, session_id, file_index, name, size_bytes, content_type, uploaded_at, created_at, deleted_at`

var _ models.Repository[*models.UploadRecord] = (*UploadRepository)(nil)

// UploadRepository implements models.Repository[*models.UploadRecord] for upload history.
//
// Rows are soft-deleted and listed newest first by sequence.
type UploadRepository struct {
	db *sql.DB
}

// NewUploadRepository creates a new UploadRepository with the given database connection
func NewUploadRepository(db *sql.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// Create inserts a new [models.UploadRecord] with a generated ID and sequence
func (r *UploadRepository) Create(record *models.UploadRecord) error {
	sequence, err := NextSequence(r.db, "uploads")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	record.SetID(id)
	record.SetSequence(sequence)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO uploads (id, sequence, session_id, file_index, name, size_bytes, content_type, uploaded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		record.SessionID(),
		record.Index(),
		record.Name(),
		record.Size(),
		record.ContentType(),
		record.UploadedAt(),
		record.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert upload: %w", err)
	}

	return nil
}

// Get retrieves an upload by ID, excluding soft-deleted rows
func (r *UploadRepository) Get(id string) (*models.UploadRecord, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE id = ? AND deleted_at IS NULL`

	record, err := scanUpload(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: upload %s", shared.ErrRecordNotFound, id)
	}
	return record, err
}

// Delete soft-deletes an upload by ID
func (r *UploadRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE uploads SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: upload %s", shared.ErrRecordNotFound, id)
	}

	return nil
}

// List retrieves uploads matching criteria, newest first.
//
// Supported criteria: "session_id" (string), "name" (substring, string) and "limit" (int).
func (r *UploadRepository) List(criteria map[string]any) ([]*models.UploadRecord, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE deleted_at IS NULL`
	args := []any{}

	if sessionID, ok := criteria["session_id"].(string); ok && sessionID != "" {
		query += " AND session_id = ?"
		args = append(args, sessionID)
	}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name LIKE ?"
		args = append(args, "%"+name+"%")
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	var records []*models.UploadRecord
	for rows.Next() {
		record, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// ListRecent returns at most limit uploads across all sessions, newest first
func (r *UploadRepository) ListRecent(limit int) ([]*models.UploadRecord, error) {
	return r.List(map[string]any{"limit": limit})
}

// Count returns the number of live uploads and their total size in bytes
func (r *UploadRepository) Count() (count int, totalBytes int64, err error) {
	err = r.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM uploads WHERE deleted_at IS NULL`).Scan(&count, &totalBytes)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count uploads: %w", err)
	}
	return count, totalBytes, nil
}

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

func scanUpload(s scanner) (*models.UploadRecord, error) {
	var (
		id          string
		sequence    int
		sessionID   string
		index       int
		name        string
		size        int64
		contentType string
		uploadedAt  time.Time
		createdAt   time.Time
		deletedAt   sql.NullTime
	)

	err := s.Scan(&id, &sequence, &sessionID, &index, &name, &size, &contentType, &uploadedAt, &createdAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan upload: %w", err)
	}

	file := models.UploadedFile{Index: index, Name: name, UploadedAt: uploadedAt}
	record := models.NewUploadRecord(sequence, sessionID, file, contentType)
	record.SetID(id)
	record.SetSize(size)
	record.SetCreatedAt(createdAt)
	if deletedAt.Valid {
		record.SetDeletedAt(&deletedAt.Time)
	}

	return record, nil
}
