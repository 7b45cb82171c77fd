package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// UploadedFile is one payload pushed from the host for retrieval by a browser.
//
// Index is the append position in the server's store and is the file's only external identifier.
// Data is owned by the store and must not be modified.
type UploadedFile struct {
	Index      int
	Name       string
	Data       []byte
	UploadedAt time.Time
}

// Size returns the payload length in bytes.
func (f UploadedFile) Size() int64 { return int64(len(f.Data)) }

// Ext returns the lowercased file extension without the leading dot.
func (f UploadedFile) Ext() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name), "."))
}

// UploadRecord is the persisted metadata of an [UploadedFile].
type UploadRecord struct {
	id          string
	sequence    int
	sessionID   string
	index       int
	name        string
	size        int64
	contentType string
	uploadedAt  time.Time
	createdAt   time.Time
	deletedAt   *time.Time
}

// NewUploadRecord builds a record for file uploaded during session sessionID.
func NewUploadRecord(sequence int, sessionID string, file UploadedFile, contentType string) *UploadRecord {
	return &UploadRecord{
		sequence:    sequence,
		sessionID:   sessionID,
		index:       file.Index,
		name:        file.Name,
		size:        file.Size(),
		contentType: contentType,
		uploadedAt:  file.UploadedAt,
		createdAt:   time.Now(),
	}
}

func (r *UploadRecord) ID() string                { return r.id }
func (r *UploadRecord) Sequence() int             { return r.sequence }
func (r *UploadRecord) SessionID() string         { return r.sessionID }
func (r *UploadRecord) Index() int                { return r.index }
func (r *UploadRecord) Name() string              { return r.name }
func (r *UploadRecord) Size() int64               { return r.size }
func (r *UploadRecord) ContentType() string       { return r.contentType }
func (r *UploadRecord) UploadedAt() time.Time     { return r.uploadedAt }
func (r *UploadRecord) CreatedAt() time.Time      { return r.createdAt }
func (r *UploadRecord) DeletedAt() *time.Time     { return r.deletedAt }
func (r *UploadRecord) SetID(id string)           { r.id = id }
func (r *UploadRecord) SetSequence(seq int)       { r.sequence = seq }
func (r *UploadRecord) SetSize(n int64)           { r.size = n }
func (r *UploadRecord) SetCreatedAt(t time.Time)  { r.createdAt = t }
func (r *UploadRecord) SetDeletedAt(t *time.Time) { r.deletedAt = t }

// Validate checks required fields.
func (r *UploadRecord) Validate() error {
	if r.id == "" {
		return fmt.Errorf("upload record id is required")
	}
	if r.sessionID == "" {
		return fmt.Errorf("upload record session id is required")
	}
	if r.index < 0 {
		return fmt.Errorf("upload record index must not be negative")
	}
	if r.size < 0 {
		return fmt.Errorf("upload record size must not be negative")
	}
	return nil
}

// Session is one run of the transfer server.
type Session struct {
	id        string
	port      int
	address   string
	startedAt time.Time
	stoppedAt *time.Time
}

// NewSession creates a session that started now on port.
func NewSession(port int, address string) *Session {
	return &Session{port: port, address: address, startedAt: time.Now()}
}

func (s *Session) ID() string                { return s.id }
func (s *Session) Port() int                 { return s.port }
func (s *Session) Address() string           { return s.address }
func (s *Session) StartedAt() time.Time      { return s.startedAt }
func (s *Session) CreatedAt() time.Time      { return s.startedAt }
func (s *Session) StoppedAt() *time.Time     { return s.stoppedAt }
func (s *Session) SetID(id string)           { s.id = id }
func (s *Session) SetStartedAt(t time.Time)  { s.startedAt = t }
func (s *Session) SetStoppedAt(t *time.Time) { s.stoppedAt = t }

// Validate checks required fields.
func (s *Session) Validate() error {
	if s.id == "" {
		return fmt.Errorf("session id is required")
	}
	if s.port < 0 || s.port > 65535 {
		return fmt.Errorf("session port %d out of range", s.port)
	}
	return nil
}
