package formatter

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/droplet/internal/models"
	th "github.com/desertthunder/droplet/internal/testing"
)

func sampleRecords() []*models.UploadRecord {
	uploaded := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	first := models.NewUploadRecord(2, "s1", models.UploadedFile{Index: 1, Name: "report, final.pdf", Data: make([]byte, 2048), UploadedAt: uploaded}, "application/pdf")
	second := models.NewUploadRecord(1, "s1", models.UploadedFile{Index: 0, Name: "notes.txt", Data: []byte("hi"), UploadedAt: uploaded.Add(-time.Minute)}, "")
	return []*models.UploadRecord{first, second}
}

func TestFormatSize(t *testing.T) {
	tc := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{10 * 1024 * 1024, "10 MB"},
		{3 * 1024 * 1024 * 1024, "3 GB"},
		{2048 * 1024 * 1024 * 1024, "2048 GB"},
	}

	for _, tt := range tc {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatSize(tt.bytes); got != tt.want {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2025, 3, 14, 15, 9, 26, 0, time.Local)
	if got := FormatTimestamp(ts); got != "Mar 14, 2025 3:09:26 PM" {
		t.Errorf("unexpected timestamp %q", got)
	}
}

func TestHistoryExporters(t *testing.T) {
	t.Run("HistoryToCSV", func(t *testing.T) {
		data, err := HistoryToCSV(sampleRecords())
		if err != nil {
			t.Fatalf("HistoryToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Sequence,Session,Index,Name,Size,Content-Type,Uploaded") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, `"report, final.pdf"`) {
			t.Errorf("CSV should quote names containing commas, got: %s", output)
		}
		if !strings.Contains(output, "2025-03-14T15:09:26Z") {
			t.Errorf("CSV missing RFC3339 timestamp, got: %s", output)
		}
	})

	t.Run("HistoryToJSON", func(t *testing.T) {
		data, err := HistoryToJSON(sampleRecords())
		if err != nil {
			t.Fatalf("HistoryToJSON failed: %v", err)
		}

		var rows []map[string]any
		if err := json.Unmarshal(data, &rows); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		if rows[0]["size_bytes"].(float64) != 2048 {
			t.Errorf("unexpected size %v", rows[0]["size_bytes"])
		}
	})

	t.Run("WriteHistoryTable", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteHistoryTable(&buf, sampleRecords()); err != nil {
			t.Fatalf("WriteHistoryTable failed: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"NAME", "report, final.pdf", "2 KB", "2 B", "application/pdf", "ago"} {
			if !strings.Contains(output, want) {
				t.Errorf("table missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("WriteHistoryTable empty", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteHistoryTable(&buf, nil); err != nil {
			t.Fatalf("WriteHistoryTable failed: %v", err)
		}
		if !strings.Contains(buf.String(), "No uploads") {
			t.Errorf("expected empty-state message, got %q", buf.String())
		}
	})

	t.Run("ExportHistory unsupported", func(t *testing.T) {
		if _, err := ExportHistory(nil, "xml"); err == nil {
			t.Error("expected error for unsupported format")
		}
	})

	t.Run("WriteHistoryExport", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "history.csv")

		written, err := WriteHistoryExport(sampleRecords(), "csv", path)
		if err != nil {
			t.Fatalf("WriteHistoryExport failed: %v", err)
		}
		if written != path {
			t.Errorf("expected %s, got %s", path, written)
		}

		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.Contains(content, "notes.txt") {
			t.Errorf("export missing notes.txt: %s", content)
		}
	})

	t.Run("WriteHistoryExport default name", func(t *testing.T) {
		th.MustChdir(t, t.TempDir())

		written, err := WriteHistoryExport(sampleRecords(), "json", "")
		if err != nil {
			t.Fatalf("WriteHistoryExport failed: %v", err)
		}
		if written != "droplet_history.json" {
			t.Errorf("unexpected default path %s", written)
		}
		th.AssertFileExists(t, written)
	})
}
