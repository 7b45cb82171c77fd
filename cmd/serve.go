package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/droplet/internal/repositories"
	"github.com/desertthunder/droplet/internal/shared"
	"github.com/desertthunder/droplet/internal/tasks"
	"github.com/desertthunder/droplet/internal/transfer"
	"github.com/urfave/cli/v3"
)

// session bundles a server with the resources opened for it.
type session struct {
	server  *transfer.Server
	db      *sql.DB
	watcher *tasks.DirWatcher
}

// close stops the watcher and server, then closes the history database.
func (s *session) close() {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.server.Stop()
	if s.db != nil {
		s.db.Close()
	}
}

// serverConfig merges the config file with flags set on cmd.
func (r *Runner) serverConfig(cmd *cli.Command) transfer.Config {
	cfg := transfer.ConfigFrom(r.config.Server)

	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}
	if cmd.IsSet("retries") {
		cfg.PortRetries = cmd.Int("retries")
	}
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("interface") {
		cfg.Interface = cmd.String("interface")
	}
	if cmd.IsSet("name") {
		cfg.AppName = cmd.String("name")
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("rate-limit") {
		cfg.RateLimit = cmd.Float("rate-limit")
	}
	return cfg
}

// newSession creates a stopped server wired to the history database when it is enabled.
func (r *Runner) newSession(cmd *cli.Command, logger *log.Logger) (*session, error) {
	cfg := r.serverConfig(cmd)
	if cfg.Port < 0 || cfg.Port > 65535 || cfg.PortRetries < 0 {
		return nil, fmt.Errorf("%w: port %d with %d retries", shared.ErrInvalidFlag, cfg.Port, cfg.PortRetries)
	}

	opts := transfer.Options{Config: cfg, Logger: logger, Resolve: r.resolve}
	s := &session{}

	history := r.config.History
	if cmd.Bool("history") {
		history.Enabled = true
	}
	if history.Enabled {
		db, err := shared.OpenHistory(history)
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		s.db = db
		opts.Recorder = repositories.NewHistoryRecorder(
			repositories.NewUploadRepository(db),
			repositories.NewSessionRepository(db),
		)
		logger.Debug("recording history", "path", history.Path)
	}

	s.server = transfer.New(opts)
	return s, nil
}

// watch starts a directory watcher feeding the session's server when a directory is configured.
func (r *Runner) watch(cmd *cli.Command, s *session, logger *log.Logger, progress chan<- tasks.ProgressUpdate) error {
	dir := r.config.Watch.Dir
	if cmd.IsSet("watch") {
		dir = cmd.String("watch")
	}
	if dir == "" {
		return nil
	}

	w, err := tasks.NewDirWatcher(dir, s.server, tasks.WatchOpts{
		Debounce: time.Duration(r.config.Watch.DebounceMS) * time.Millisecond,
		Logger:   logger,
		Progress: progress,
	})
	if err != nil {
		return err
	}
	w.Start()
	s.watcher = w
	return nil
}

// Serve starts the server, publishes the requested files and blocks until ctx is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	s, err := r.newSession(cmd, r.logger)
	if err != nil {
		return err
	}
	defer s.close()

	address, err := s.server.Start(ctx)
	if err != nil {
		return err
	}

	if text := cmd.String("text"); text != "" {
		index := s.server.UploadText(text)
		r.logger.Info("shared text", "index", index)
	}

	paths := append(cmd.StringSlice("file"), cmd.Args().Slice()...)
	if len(paths) > 0 {
		if err := r.uploadPaths(ctx, s.server, paths); err != nil {
			return err
		}
	}

	if err := r.watch(cmd, s, r.logger, nil); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	r.announce(address, s.server.Port(), !cmd.Bool("no-qr"))

	if address != "" {
		if cmd.Bool("copy") {
			if err := r.copy(address); err != nil {
				r.logger.Warn("failed to copy address", "err", err)
			} else {
				r.logger.Info("address copied to clipboard")
			}
		}
		if cmd.Bool("open") {
			if err := r.open(address); err != nil {
				r.logger.Warn("failed to open browser", "err", err)
			}
		}
	}

	<-ctx.Done()
	r.logger.Info("shutting down")
	return nil
}

// uploadPaths reads paths concurrently and logs each result as it is uploaded.
func (r *Runner) uploadPaths(ctx context.Context, srv *transfer.Server, paths []string) error {
	progress := make(chan tasks.ProgressUpdate, len(paths)*2)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			switch update.Phase {
			case tasks.UploadFile:
				r.logger.Info(update.Message)
			case tasks.UploadFailed:
				r.logger.Warn(update.Message)
			default:
				r.logger.Debug(update.Message, "step", update.Step, "total", update.Total)
			}
		}
	}()

	result, err := tasks.BulkUpload(ctx, progress, srv, paths, tasks.BulkUploadOpts{})
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("failed to upload files: %w", err)
	}
	if result.Succeeded == 0 {
		return fmt.Errorf("%w: none of the %d files could be read", shared.ErrInvalidArgument, result.Total)
	}
	return nil
}

// announce prints where the server can be reached.
func (r *Runner) announce(address string, port int, qr bool) {
	r.writePlainHeader("droplet is sharing")

	if address == "" {
		r.logger.Warn("no wi-fi address found, other devices may not reach this server", "err", shared.ErrAddressUnavailable)
		r.writePlain("Local:  http://127.0.0.1:%d\n", port)
		return
	}

	r.writePlain("Open:   %s\n", address)
	if qr {
		code, err := shared.QRTerminal(address)
		if err != nil {
			r.logger.Warn("failed to render qr code", "err", err)
			return
		}
		r.writePlain("\n%s", code)
	}
	r.writePlain("\nPress Ctrl+C to stop.\n")
}
