package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/droplet/internal/shared"
	th "github.com/desertthunder/droplet/internal/testing"
)

func stubResolve(iface string, port int) string {
	return fmt.Sprintf("http://192.0.2.10:%d", port)
}

func newTestRunner(t *testing.T, opts RunnerOpts) (*Runner, *bytes.Buffer) {
	t.Helper()

	output := &bytes.Buffer{}
	opts.Output = output
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Resolve == nil {
		opts.Resolve = stubResolve
	}
	return NewRunner(opts), output
}

// writeConfig writes a config enabling history in a temp directory and returns its path.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("[history]\nenabled = true\npath = %q\n", filepath.Join(dir, "history.db"))
	th.MustWriteFile(t, path, []byte(content))
	return path
}

func run(ctx context.Context, r *Runner, args ...string) error {
	return r.app().Run(ctx, append([]string{"droplet"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.resolve == nil || runner.copy == nil || runner.open == nil {
				t.Error("expected default resolver, clipboard and browser")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes compact JSON with a newline", func(t *testing.T) {
			runner, output := newTestRunner(t, RunnerOpts{})

			if err := runner.writeJSON(map[string]int{"port": 8080}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := output.String(); got != `{"port":8080}`+"\n" {
				t.Errorf("unexpected output %q", got)
			}
		})

		t.Run("handles marshal failure", func(t *testing.T) {
			runner, _ := newTestRunner(t, RunnerOpts{})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &th.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limited := th.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limited})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes formatted text", func(t *testing.T) {
			runner, output := newTestRunner(t, RunnerOpts{})

			if err := runner.writePlain("port %d", 8080); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := output.String(); got != "port 8080" {
				t.Errorf("expected 'port 8080', got %q", got)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &th.FWriter{}})

			if err := runner.writePlain("test"); err == nil {
				t.Fatal("expected error from failing writer")
			}
			if err := runner.writePlainln("test"); err == nil {
				t.Fatal("expected error from failing writer")
			}
		})

		t.Run("writePlainln surrounds text with newlines", func(t *testing.T) {
			runner, output := newTestRunner(t, RunnerOpts{})

			if err := runner.writePlainln("done"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := output.String(); got != "\ndone\n" {
				t.Errorf("unexpected output %q", got)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{})
		names := map[string]bool{}
		for _, cmd := range runner.register() {
			names[cmd.Name] = true
		}
		for _, want := range []string{"serve", "tui", "addr", "history", "setup"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})

	t.Run("loadConfig", func(t *testing.T) {
		t.Run("missing default file keeps defaults", func(t *testing.T) {
			th.MustChdir(t, t.TempDir())
			runner, _ := newTestRunner(t, RunnerOpts{})

			if err := run(context.Background(), runner, "addr"); err != nil {
				t.Fatalf("expected defaults without config.toml, got %v", err)
			}
			if runner.configPath != "" {
				t.Errorf("no config should be recorded, got %s", runner.configPath)
			}
		})

		t.Run("explicit missing file fails", func(t *testing.T) {
			runner, _ := newTestRunner(t, RunnerOpts{})
			err := run(context.Background(), runner, "--config", filepath.Join(t.TempDir(), "nope.toml"), "addr")

			if !errors.Is(err, shared.ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("reads values", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			th.MustWriteFile(t, path, []byte("[server]\nport = 9123\n"))

			runner, output := newTestRunner(t, RunnerOpts{})
			if err := run(context.Background(), runner, "--config", path, "addr"); err != nil {
				t.Fatalf("addr failed: %v", err)
			}
			if runner.configPath != path {
				t.Errorf("expected configPath %s, got %s", path, runner.configPath)
			}
			if got := strings.TrimSpace(output.String()); got != "http://192.0.2.10:9123" {
				t.Errorf("expected configured port in address, got %q", got)
			}
		})
	})
}

func TestAddr(t *testing.T) {
	t.Run("prints address", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{})
		if err := run(context.Background(), runner, "--config", "", "addr", "--port", "9000"); err != nil {
			t.Fatalf("addr failed: %v", err)
		}
		if got := strings.TrimSpace(output.String()); got != "http://192.0.2.10:9000" {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("prints qr code", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{})
		if err := run(context.Background(), runner, "--config", "", "addr", "--qr"); err != nil {
			t.Fatalf("addr failed: %v", err)
		}
		if lines := strings.Count(output.String(), "\n"); lines < 10 {
			t.Errorf("expected a multi-line qr code, got %d lines", lines)
		}
	})

	t.Run("no address", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Resolve: func(string, int) string { return "" }})
		err := run(context.Background(), runner, "--config", "", "addr", "--interface", "wlan9")

		if !errors.Is(err, shared.ErrAddressUnavailable) {
			t.Errorf("expected ErrAddressUnavailable, got %v", err)
		}
		if !strings.Contains(err.Error(), "wlan9") {
			t.Errorf("error should name the interface, got %v", err)
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "droplet.toml")
		runner, output := newTestRunner(t, RunnerOpts{})

		if err := run(context.Background(), runner, "--config", "", "setup", "config", "--output", path); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}
		th.AssertFileExists(t, path)
		if !strings.Contains(output.String(), path) {
			t.Error("output should mention the written path")
		}

		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("written config should load: %v", err)
		}
		if err := run(context.Background(), runner, "--config", "", "setup", "config", "--output", path); err == nil {
			t.Error("expected error when the file already exists")
		}
	})

	t.Run("database", func(t *testing.T) {
		dir := t.TempDir()
		path := writeConfig(t, dir)
		runner, output := newTestRunner(t, RunnerOpts{})

		if err := run(context.Background(), runner, "--config", path, "setup", "database"); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}
		th.AssertFileExists(t, filepath.Join(dir, "history.db"))
		if !strings.Contains(output.String(), "schema version 1") {
			t.Errorf("expected schema version in output, got %q", output.String())
		}
	})
}

func TestServe(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir)
	filePath := filepath.Join(dir, "notes.md")
	th.MustWriteFile(t, filePath, []byte("# notes"))

	var copied string
	runner, output := newTestRunner(t, RunnerOpts{
		Clipboard: func(s string) error { copied = s; return nil },
	})

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := run(ctx, runner,
		"--config", configPath,
		"serve", "--host", "127.0.0.1", "--port", "0", "--no-qr", "--copy", "--text", "hello", filePath,
	)
	if err != nil {
		t.Fatalf("serve failed: %v", err)
	}

	if !strings.Contains(output.String(), "Open:   http://192.0.2.10:") {
		t.Errorf("expected address in output, got %q", output.String())
	}
	if !strings.HasPrefix(copied, "http://192.0.2.10:") {
		t.Errorf("expected address on clipboard, got %q", copied)
	}

	t.Run("history records uploads", func(t *testing.T) {
		output.Reset()
		if err := run(context.Background(), runner, "--config", configPath, "history", "list", "--json"); err != nil {
			t.Fatalf("history list failed: %v", err)
		}

		var rows []map[string]any
		if err := json.Unmarshal(output.Bytes(), &rows); err != nil {
			t.Fatalf("history output should be JSON: %v\n%s", err, output.String())
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 uploads, got %d", len(rows))
		}
		if !strings.Contains(output.String(), "notes.md") || !strings.Contains(output.String(), "text_") {
			t.Errorf("expected text and file uploads, got %s", output.String())
		}
	})

	t.Run("history records a stopped session", func(t *testing.T) {
		output.Reset()
		if err := run(context.Background(), runner, "--config", configPath, "history", "sessions", "--json"); err != nil {
			t.Fatalf("history sessions failed: %v", err)
		}

		var rows []sessionRow
		if err := json.Unmarshal(output.Bytes(), &rows); err != nil {
			t.Fatalf("sessions output should be JSON: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("expected 1 session, got %d", len(rows))
		}
		if rows[0].StoppedAt == nil {
			t.Error("session should be marked stopped after serve returns")
		}
		if rows[0].Uploads != 2 {
			t.Errorf("expected 2 uploads in session, got %d", rows[0].Uploads)
		}
	})

	t.Run("history export", func(t *testing.T) {
		exportPath := filepath.Join(dir, "history.csv")
		if err := run(context.Background(), runner, "--config", configPath, "history", "export", "--output", exportPath); err != nil {
			t.Fatalf("history export failed: %v", err)
		}

		data := th.MustReadFile(t, exportPath)
		if lines := strings.Count(strings.TrimSpace(data), "\n"); lines != 2 {
			t.Errorf("expected header and 2 rows, got %d lines after the header", lines)
		}
	})
}

func TestServeErrors(t *testing.T) {
	t.Run("unreadable files", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{})
		err := run(context.Background(), runner,
			"--config", "", "serve", "--host", "127.0.0.1", "--port", "0", "--no-qr", filepath.Join(t.TempDir(), "missing.txt"),
		)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("invalid port", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{})
		err := run(context.Background(), runner, "--config", "", "serve", "--port=-1")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("ports exhausted", func(t *testing.T) {
		port := th.ConsecutivePorts(t, 1)
		th.Occupy(t, port)

		runner, _ := newTestRunner(t, RunnerOpts{})
		err := run(context.Background(), runner,
			"--config", "", "serve", "--host", "127.0.0.1", "--port", fmt.Sprint(port), "--retries", "0",
		)
		if !errors.Is(err, shared.ErrPortsExhausted) {
			t.Errorf("expected ErrPortsExhausted, got %v", err)
		}
	})
}
