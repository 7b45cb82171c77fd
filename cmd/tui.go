package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/droplet/internal/shared"
	"github.com/desertthunder/droplet/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive dashboard around a fresh transfer server.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	s, err := r.newSession(cmd, fileLogger)
	if err != nil {
		return err
	}
	defer s.close()

	if err := r.watch(cmd, s, fileLogger, nil); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	model := ui.NewModel(ctx, s.server)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
