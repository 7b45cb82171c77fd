// Package repositories provides persistence layer implementations for upload history.
//
// UploadRepository implements models.Repository[T] with soft deletes and a per-table sequence.
// SessionRepository is append-and-close only: sessions are created on start and marked stopped.
package repositories

import (
	"database/sql"
	"fmt"
)

// sequenced lists tables that own a "<table>_sequence" counter.
var sequenced = map[string]bool{"uploads": true}

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers give history rows a stable, human-readable order across sessions,
// unlike file indices which restart at 0 on every server run.
func NextSequence(db *sql.DB, table string) (int, error) {
	if !sequenced[table] {
		return 0, fmt.Errorf("table %q has no sequence", table)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	_, err = tx.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable))
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	err = tx.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}
