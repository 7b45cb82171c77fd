// package formatter renders sizes, timestamps and upload history for terminals, files and the index page
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/desertthunder/droplet/internal/models"
	"github.com/dustin/go-humanize"
)

// TimestampLayout is the display layout for upload times. Month names are always English.
const TimestampLayout = "Jan 2, 2006 3:04:05 PM"

var sizeUnits = []string{"KB", "MB", "GB"}

// FormatSize renders n bytes with a 1024 base, using B below one kilobyte and at most one decimal.
func FormatSize(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}

	value := float64(n) / 1024
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}

	formatted := strconv.FormatFloat(value, 'f', 1, 64)
	return strings.TrimSuffix(formatted, ".0") + " " + sizeUnits[unit]
}

// FormatTimestamp renders t in [TimestampLayout] using the local zone.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// historyRow is the exported shape of one upload record
type historyRow struct {
	Sequence    int       `json:"sequence"`
	Session     string    `json:"session_id"`
	Index       int       `json:"index"`
	Name        string    `json:"name"`
	Size        int64     `json:"size_bytes"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func rowsFor(records []*models.UploadRecord) []historyRow {
	rows := make([]historyRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, historyRow{
			Sequence:    r.Sequence(),
			Session:     r.SessionID(),
			Index:       r.Index(),
			Name:        r.Name(),
			Size:        r.Size(),
			ContentType: r.ContentType(),
			UploadedAt:  r.UploadedAt(),
		})
	}
	return rows
}

// HistoryToCSV converts upload records to CSV with columns: Sequence, Session, Index, Name, Size, Content-Type, Uploaded
func HistoryToCSV(records []*models.UploadRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Sequence", "Session", "Index", "Name", "Size", "Content-Type", "Uploaded"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range rowsFor(records) {
		record := []string{
			strconv.Itoa(row.Sequence),
			row.Session,
			strconv.Itoa(row.Index),
			row.Name,
			strconv.FormatInt(row.Size, 10),
			row.ContentType,
			row.UploadedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// HistoryToJSON converts upload records to an indented JSON array
func HistoryToJSON(records []*models.UploadRecord) ([]byte, error) {
	data, err := json.MarshalIndent(rowsFor(records), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %w", err)
	}
	return data, nil
}

// WriteHistoryTable writes upload records as an aligned table with human-readable sizes and relative times.
func WriteHistoryTable(w io.Writer, records []*models.UploadRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No uploads recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tSIZE\tTYPE\tUPLOADED")
	for _, row := range rowsFor(records) {
		contentType := row.ContentType
		if contentType == "" {
			contentType = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			row.Sequence,
			row.Name,
			FormatSize(row.Size),
			contentType,
			humanize.Time(row.UploadedAt),
		)
	}
	return tw.Flush()
}

// ExportHistory renders records in format ("csv", "json" or "text").
func ExportHistory(records []*models.UploadRecord, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "csv":
		return HistoryToCSV(records)
	case "json":
		return HistoryToJSON(records)
	case "text", "table", "":
		var buf bytes.Buffer
		if err := WriteHistoryTable(&buf, records); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (expected csv, json or text)", format)
	}
}

// WriteHistoryExport renders records in format and writes them to path.
//
// Defaults to droplet_history.{format} as the filename.
func WriteHistoryExport(records []*models.UploadRecord, format, path string) (string, error) {
	data, err := ExportHistory(records, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		ext := strings.ToLower(format)
		if ext == "" || ext == "table" || ext == "text" {
			ext = "txt"
		}
		path = "droplet_history." + ext
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write history file: %w", err)
	}

	return path, nil
}
