package tasks

import (
	"fmt"
	"path/filepath"
)

// Uploader is the part of the transfer server tasks write into.
type Uploader interface {
	UploadFile(name string, data []byte) int
}

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase, 0 when open-ended
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ReadFile Phase = iota
	UploadFile
	UploadFailed
	WatchEvent
)

func (p Phase) String() string {
	switch p {
	case ReadFile:
		return "read_file"
	case UploadFile:
		return "upload_file"
	case UploadFailed:
		return "upload_failed"
	case WatchEvent:
		return "watch_event"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func readFileUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadFile,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Reading %s...", filepath.Base(path)),
	}
}

func uploadedUpdate(step, total int, name string, index int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadFile,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Uploaded %s as #%d", name, index),
		Data:    index,
	}
}

func uploadFailedUpdate(step, total int, path string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Failed to upload %s: %v", filepath.Base(path), err),
		Data:    err,
	}
}

func watchEventUpdate(path, op string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WatchEvent,
		Message: fmt.Sprintf("%s %s", op, filepath.Base(path)),
		Data:    path,
	}
}
