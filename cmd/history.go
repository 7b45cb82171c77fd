package main

import (
	"context"
	"database/sql"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/desertthunder/droplet/internal/formatter"
	"github.com/desertthunder/droplet/internal/repositories"
	"github.com/desertthunder/droplet/internal/shared"
	"github.com/urfave/cli/v3"
)

// openHistory opens the configured history database even when recording is disabled,
// so past sessions stay readable.
func (r *Runner) openHistory() (*sql.DB, error) {
	cfg := r.config.History
	cfg.Enabled = true

	db, err := shared.OpenHistory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return db, nil
}

// HistoryList prints recorded uploads as a table or JSON.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := repositories.NewUploadRepository(db).List(map[string]any{
		"limit":      cmd.Int("limit"),
		"session_id": cmd.String("session"),
		"name":       cmd.String("search"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		data, err := formatter.HistoryToJSON(records)
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", data)
	}
	return formatter.WriteHistoryTable(r.output, records)
}

// HistoryExport writes the upload history to a file.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := repositories.NewUploadRepository(db).List(map[string]any{
		"session_id": cmd.String("session"),
	})
	if err != nil {
		return err
	}

	path, err := formatter.WriteHistoryExport(records, cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("history exported", "path", path, "uploads", len(records))
	return r.writePlain("✓ Exported %d uploads to %s\n", len(records), path)
}

type sessionRow struct {
	ID        string     `json:"id"`
	Port      int        `json:"port"`
	Address   string     `json:"address,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	StoppedAt *time.Time `json:"stopped_at,omitempty"`
	Uploads   int        `json:"uploads"`
}

// HistorySessions prints recorded server sessions with their upload totals.
func (r *Runner) HistorySessions(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := repositories.NewSessionRepository(db).List(map[string]any{"limit": cmd.Int("limit")})
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return r.writePlain("No sessions recorded.\n")
	}

	uploads := repositories.NewUploadRepository(db)
	rows := make([]sessionRow, 0, len(sessions))
	for _, s := range sessions {
		records, err := uploads.List(map[string]any{"session_id": s.ID()})
		if err != nil {
			return err
		}
		rows = append(rows, sessionRow{
			ID:        s.ID(),
			Port:      s.Port(),
			Address:   s.Address(),
			StartedAt: s.StartedAt(),
			StoppedAt: s.StoppedAt(),
			Uploads:   len(records),
		})
	}

	if cmd.Bool("json") {
		return r.writeJSON(rows, true)
	}

	tw := tabwriter.NewWriter(r.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tPORT\tADDRESS\tSTARTED\tSTOPPED\tUPLOADS")
	for _, row := range rows {
		stopped := "running"
		if row.StoppedAt != nil {
			stopped = formatter.FormatTimestamp(*row.StoppedAt)
		}
		address := row.Address
		if address == "" {
			address = "-"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%d\n",
			row.ID, row.Port, address, formatter.FormatTimestamp(row.StartedAt), stopped, row.Uploads)
	}
	return tw.Flush()
}

// HistoryDelete removes a single upload from the history.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: upload id", shared.ErrMissingArgument)
	}

	db, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewUploadRepository(db).Delete(id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted %s\n", id)
}
