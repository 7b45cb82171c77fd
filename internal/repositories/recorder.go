package repositories

import (
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/droplet/internal/models"
	"github.com/desertthunder/droplet/internal/shared"
)

// HistoryRecorder writes server lifecycle and upload events to the history database.
//
// Uploads are attributed to the current session ID. A fresh ID is drawn on every stop,
// so files queued while the server is down land in the session that will serve them.
type HistoryRecorder struct {
	uploads  *UploadRepository
	sessions *SessionRepository

	mu        sync.Mutex
	sessionID string
	running   bool
}

// NewHistoryRecorder creates a recorder over the given repositories.
func NewHistoryRecorder(uploads *UploadRepository, sessions *SessionRepository) *HistoryRecorder {
	return &HistoryRecorder{uploads: uploads, sessions: sessions, sessionID: shared.GenerateID()}
}

// SessionID returns the session uploads are currently attributed to.
func (h *HistoryRecorder) SessionID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessionID
}

// SessionStarted inserts the session row for the current ID.
func (h *HistoryRecorder) SessionStarted(port int, address string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	session := models.NewSession(port, address)
	session.SetID(h.sessionID)
	if err := h.sessions.Create(session); err != nil {
		return fmt.Errorf("failed to record session start: %w", err)
	}
	h.running = true
	return nil
}

// FileUploaded persists the metadata of file.
func (h *HistoryRecorder) FileUploaded(file models.UploadedFile, contentType string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	record := models.NewUploadRecord(0, h.sessionID, file, contentType)
	if err := h.uploads.Create(record); err != nil {
		return fmt.Errorf("failed to record upload: %w", err)
	}
	return nil
}

// SessionStopped closes the running session and rotates to a new ID.
func (h *HistoryRecorder) SessionStopped() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	previous, wasRunning := h.sessionID, h.running
	h.sessionID = shared.GenerateID()
	h.running = false

	if !wasRunning {
		return nil
	}
	if err := h.sessions.MarkStopped(previous, time.Now()); err != nil {
		return fmt.Errorf("failed to record session stop: %w", err)
	}
	return nil
}
