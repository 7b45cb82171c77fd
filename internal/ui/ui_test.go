package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/droplet/internal/models"
	"github.com/desertthunder/droplet/internal/shared"
	"github.com/desertthunder/droplet/internal/transfer"
)

type fakeServer struct {
	mu       sync.Mutex
	running  bool
	address  string
	startErr error
	files    []models.UploadedFile
	stops    int
}

func (f *fakeServer) Start(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return "", f.startErr
	}
	f.running = true
	return f.address, nil
}

func (f *fakeServer) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
	f.files = nil
	f.stops++
}

func (f *fakeServer) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeServer) CompleteAddress() string { return f.address }

func (f *fakeServer) UploadText(text string) int {
	return f.add("text.txt", []byte(text))
}

func (f *fakeServer) UploadPath(path string) (int, error) {
	if strings.Contains(path, "missing") {
		return -1, errors.New("no such file")
	}
	return f.add(path, []byte("data")), nil
}

func (f *fakeServer) add(name string, data []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	index := len(f.files)
	f.files = append(f.files, models.UploadedFile{Index: index, Name: name, Data: data, UploadedAt: time.Now()})
	return index
}

func (f *fakeServer) Files() []models.UploadedFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.UploadedFile(nil), f.files...)
}

func (f *fakeServer) Stats() transfer.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, file := range f.files {
		total += file.Size()
	}
	return transfer.Stats{Files: len(f.files), TotalBytes: total}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// exec runs cmd and feeds its message back into the model, like the bubbletea runtime would.
func exec(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m.Update(cmd())
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func newStartedModel(t *testing.T) (*Model, *fakeServer) {
	t.Helper()
	srv := &fakeServer{address: "http://192.0.2.10:8080"}
	m := NewModel(context.Background(), srv)
	m.Init()
	exec(t, m, m.startServer())
	return m, srv
}

func TestModel(t *testing.T) {
	t.Run("start reports address", func(t *testing.T) {
		m, _ := newStartedModel(t)

		if m.address != "http://192.0.2.10:8080" {
			t.Errorf("expected address to be set, got %q", m.address)
		}
		if m.starting {
			t.Error("starting flag should be cleared")
		}
		view := m.View()
		if !strings.Contains(view, "running") || !strings.Contains(view, "192.0.2.10:8080") {
			t.Errorf("dashboard should show running status and address:\n%s", view)
		}
		if !strings.Contains(view, "No files yet") {
			t.Error("dashboard should show the empty state")
		}
	})

	t.Run("start failure", func(t *testing.T) {
		srv := &fakeServer{startErr: shared.ErrPortsExhausted}
		m := NewModel(context.Background(), srv)
		exec(t, m, m.startServer())

		if !errors.Is(m.err, shared.ErrPortsExhausted) {
			t.Errorf("expected ErrPortsExhausted, got %v", m.err)
		}
		if !strings.Contains(m.View(), "stopped") {
			t.Error("dashboard should show stopped status")
		}
	})

	t.Run("stop toggles server", func(t *testing.T) {
		m, srv := newStartedModel(t)

		_, cmd := m.Update(keyPress("s"))
		exec(t, m, cmd)

		if srv.IsRunning() || srv.stops != 1 {
			t.Error("expected server to be stopped once")
		}
		if m.address != "" {
			t.Error("address should be cleared after stop")
		}

		_, cmd = m.Update(keyPress("s"))
		if !m.starting {
			t.Error("expected starting flag while restarting")
		}
		exec(t, m, cmd)
		if !srv.IsRunning() {
			t.Error("expected server to be running again")
		}
	})

	t.Run("share text", func(t *testing.T) {
		m, srv := newStartedModel(t)

		m.Update(keyPress("t"))
		if m.view != InputView {
			t.Fatalf("expected input view, got %d", m.view)
		}
		typeText(m, "hello")

		_, cmd := m.Update(keyPress("enter"))
		exec(t, m, cmd)

		if m.view != DashboardView {
			t.Error("submit should return to the dashboard")
		}
		files := srv.Files()
		if len(files) != 1 || string(files[0].Data) != "hello" {
			t.Fatalf("expected uploaded text, got %v", files)
		}
		if len(m.files.Items()) != 1 {
			t.Errorf("expected list to show 1 file, got %d", len(m.files.Items()))
		}
		if !strings.Contains(m.status, "#0") {
			t.Errorf("expected status to mention index, got %q", m.status)
		}
	})

	t.Run("upload path failure", func(t *testing.T) {
		m, _ := newStartedModel(t)

		m.Update(keyPress("u"))
		typeText(m, "/tmp/missing.bin")
		_, cmd := m.Update(keyPress("enter"))
		exec(t, m, cmd)

		if m.err == nil {
			t.Error("expected upload error")
		}
		if !strings.Contains(m.View(), "Error") {
			t.Error("dashboard should render the error")
		}
	})

	t.Run("empty input is ignored", func(t *testing.T) {
		m, srv := newStartedModel(t)

		m.Update(keyPress("t"))
		typeText(m, "   ")
		if _, cmd := m.Update(keyPress("enter")); cmd != nil {
			t.Error("blank input should not upload")
		}
		if len(srv.Files()) != 0 {
			t.Error("no file should be uploaded")
		}
	})

	t.Run("escape cancels input", func(t *testing.T) {
		m, _ := newStartedModel(t)

		m.Update(keyPress("t"))
		m.Update(keyPress("esc"))
		if m.view != DashboardView {
			t.Error("esc should return to the dashboard")
		}
	})

	t.Run("copy address", func(t *testing.T) {
		var copied string
		orig := copyToClipboard
		copyToClipboard = func(s string) error { copied = s; return nil }
		t.Cleanup(func() { copyToClipboard = orig })

		m, _ := newStartedModel(t)
		_, cmd := m.Update(keyPress("c"))
		exec(t, m, cmd)

		if copied != "http://192.0.2.10:8080" {
			t.Errorf("expected address on clipboard, got %q", copied)
		}
		if m.status != "Address copied to clipboard" {
			t.Errorf("unexpected status %q", m.status)
		}
	})

	t.Run("no address", func(t *testing.T) {
		srv := &fakeServer{}
		m := NewModel(context.Background(), srv)
		exec(t, m, m.startServer())

		for _, k := range []string{"c", "o", "v"} {
			m.err = nil
			if _, cmd := m.Update(keyPress(k)); cmd != nil {
				t.Errorf("%s should not run a command without an address", k)
			}
			if !errors.Is(m.err, shared.ErrAddressUnavailable) {
				t.Errorf("%s: expected ErrAddressUnavailable, got %v", k, m.err)
			}
		}
		if !strings.Contains(m.View(), "no wi-fi address") {
			t.Error("dashboard should note the missing address")
		}
	})

	t.Run("stopped server", func(t *testing.T) {
		m, _ := newStartedModel(t)
		exec(t, m, m.stopServer())

		for _, k := range []string{"c", "o", "v"} {
			m.err = nil
			if _, cmd := m.Update(keyPress(k)); cmd != nil {
				t.Errorf("%s should not run a command while stopped", k)
			}
			if !errors.Is(m.err, shared.ErrNotRunning) {
				t.Errorf("%s: expected ErrNotRunning, got %v", k, m.err)
			}
		}
		if m.view != DashboardView {
			t.Errorf("expected dashboard view, got %d", m.view)
		}
	})

	t.Run("qr view", func(t *testing.T) {
		m, _ := newStartedModel(t)

		m.Update(keyPress("v"))
		if m.view != QRView {
			t.Fatalf("expected qr view, got %d", m.view)
		}
		if !strings.Contains(m.View(), "Scan to open") {
			t.Error("qr view should render a title")
		}
		m.Update(keyPress("esc"))
		if m.view != DashboardView {
			t.Error("esc should leave the qr view")
		}
	})

	t.Run("tick refreshes files", func(t *testing.T) {
		m, srv := newStartedModel(t)
		srv.UploadText("from elsewhere")

		_, cmd := m.Update(tickMsg(time.Now()))
		if cmd == nil {
			t.Error("tick should schedule another tick")
		}
		if len(m.files.Items()) != 1 {
			t.Errorf("expected refreshed list, got %d items", len(m.files.Items()))
		}
	})

	t.Run("quit", func(t *testing.T) {
		m, _ := newStartedModel(t)
		_, cmd := m.Update(keyPress("q"))
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("q should quit")
		}
	})
}

func TestFileItems(t *testing.T) {
	files := []models.UploadedFile{
		{Index: 0, Name: "a.txt", Data: []byte("a")},
		{Index: 1, Name: "b.zip", Data: []byte("bb")},
	}

	items := fileItems(files)
	first := items[0].(fileItem)
	if first.file.Index != 1 {
		t.Errorf("expected newest first, got index %d", first.file.Index)
	}
	if first.Title() != "#1  b.zip" {
		t.Errorf("unexpected title %q", first.Title())
	}
	if !strings.Contains(items[1].(fileItem).Description(), "previewable") {
		t.Error("text files should be marked previewable")
	}
	if strings.Contains(first.Description(), "previewable") {
		t.Error("zip files are not previewable")
	}
}
