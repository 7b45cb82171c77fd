package transfer

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/desertthunder/droplet/internal/models"
)

// generatedNameLayout stamps synthesized file names; it avoids characters that need sanitizing.
const generatedNameLayout = "20060102_150405"

// UploadFile stores a private copy of data under name and returns its index.
//
// It never fails and works while the server is stopped; queued files become servable on the next start.
func (s *Server) UploadFile(name string, data []byte) int {
	file := s.store.add(name, data, s.now())

	s.logger.Info("file uploaded", "name", file.Name, "index", file.Index, "size", file.Size())
	if len(data) == 0 {
		s.logger.Warn("uploaded file is empty", "name", file.Name)
	}

	if s.recorder != nil {
		if err := s.recorder.FileUploaded(file, ContentType(file.Name)); err != nil {
			s.logger.Warn("failed to record upload", "name", file.Name, "err", err)
		}
	}
	return file.Index
}

// UploadText stores text as UTF-8 under a generated "text_{timestamp}.txt" name.
func (s *Server) UploadText(text string) int {
	name := fmt.Sprintf("text_%s.txt", s.now().Format(generatedNameLayout))
	return s.UploadFile(name, []byte(text))
}

// UploadImage encodes img as a full-quality JPEG under a generated "image_{timestamp}.jpg" name.
func (s *Server) UploadImage(img image.Image) (int, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}); err != nil {
		return -1, fmt.Errorf("failed to encode image: %w", err)
	}

	name := fmt.Sprintf("image_%s.jpg", s.now().Format(generatedNameLayout))
	return s.UploadFile(name, buf.Bytes()), nil
}

// UploadPath reads the file at path and stores it under its base name.
func (s *Server) UploadPath(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return -1, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return s.UploadFile(filepath.Base(path), data), nil
}

// Files returns the stored files in index order.
func (s *Server) Files() []models.UploadedFile {
	return s.store.snapshot()
}
