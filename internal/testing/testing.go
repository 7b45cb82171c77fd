// package testing contains shared testing utilities
package testing

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/droplet/internal/models"
)

// MockRecorder is a test double for the transfer server's history recorder
type MockRecorder struct {
	mu       sync.Mutex
	Events   []string
	Uploads  []models.UploadedFile
	Types    []string
	Err      error
	Sessions int
}

func (m *MockRecorder) SessionStarted(port int, address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sessions++
	m.Events = append(m.Events, fmt.Sprintf("start:%d", port))
	return m.Err
}

func (m *MockRecorder) FileUploaded(file models.UploadedFile, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploads = append(m.Uploads, file)
	m.Types = append(m.Types, contentType)
	m.Events = append(m.Events, "upload:"+file.Name)
	return m.Err
}

func (m *MockRecorder) SessionStopped() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, "stop")
	return m.Err
}

// Snapshot returns a copy of the recorded events
func (m *MockRecorder) Snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Events...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// ConsecutivePorts finds n consecutive TCP ports that are free on 127.0.0.1 and returns the first.
//
// The ports are released before returning, so callers should bind them promptly.
func ConsecutivePorts(t *testing.T, n int) int {
	t.Helper()

	for attempt := 0; attempt < 50; attempt++ {
		first, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("Failed to find a free port: %v", err)
		}
		base := first.Addr().(*net.TCPAddr).Port
		held := []net.Listener{first}

		ok := base+n-1 <= 65535
		for p := base + 1; ok && p < base+n; p++ {
			l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", p))
			if err != nil {
				ok = false
				break
			}
			held = append(held, l)
		}

		for _, l := range held {
			l.Close()
		}
		if ok {
			return base
		}
	}

	t.Fatalf("Failed to find %d consecutive free ports", n)
	return 0
}

// Occupy listens on 127.0.0.1:port until the test ends
func Occupy(t *testing.T, port int) {
	t.Helper()
	l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		t.Fatalf("Failed to occupy port %d: %v", port, err)
	}
	t.Cleanup(func() { l.Close() })
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

// MustChdir changes into dir and restores the previous directory when the test ends
func MustChdir(t *testing.T, dir string) {
	t.Helper()
	wd := MustGetwd(t)
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// MockUploader records uploads in memory, assigning indices like the transfer server
type MockUploader struct {
	mu    sync.Mutex
	Files []models.UploadedFile
}

func (m *MockUploader) UploadFile(name string, data []byte) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := len(m.Files)
	m.Files = append(m.Files, models.UploadedFile{Index: index, Name: name, Data: append([]byte(nil), data...)})
	return index
}

// Snapshot returns a copy of the recorded uploads
func (m *MockUploader) Snapshot() []models.UploadedFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.UploadedFile(nil), m.Files...)
}
