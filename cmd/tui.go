package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/qpm/internal/shared"
	"github.com/desertthunder/qpm/internal/tasks"
	"github.com/desertthunder/qpm/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive playlist form.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	var recorder tasks.RunRecorder
	if repo, db := r.openHistory(); repo != nil {
		defer db.Close()
		recorder = repo
	}

	settings := tasks.SettingsFromConfig(r.config.Playlist)
	model := ui.NewModel(ctx, r.newGenerator(settings, recorder, true))
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
