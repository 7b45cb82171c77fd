package transfer

import (
	"sync"
	"time"

	"github.com/desertthunder/droplet/internal/models"
)

// store is the append-only file collection shared by uploads and handlers.
type store struct {
	mu    sync.RWMutex
	files []models.UploadedFile
	bytes int64
}

// add copies data, appends it and returns the new file.
func (s *store) add(name string, data []byte, at time.Time) models.UploadedFile {
	owned := make([]byte, len(data))
	copy(owned, data)

	s.mu.Lock()
	defer s.mu.Unlock()

	file := models.UploadedFile{Index: len(s.files), Name: name, Data: owned, UploadedAt: at}
	s.files = append(s.files, file)
	s.bytes += int64(len(owned))
	return file
}

// get returns the file at index, or false when index is out of range.
func (s *store) get(index int) (models.UploadedFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.files) {
		return models.UploadedFile{}, false
	}
	return s.files[index], true
}

// snapshot returns the files in index order.
//
// The slice is a copy; payloads are shared and must be treated as read-only.
func (s *store) snapshot() []models.UploadedFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.UploadedFile(nil), s.files...)
}

func (s *store) totals() (count int, bytes int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files), s.bytes
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = nil
	s.bytes = 0
}
