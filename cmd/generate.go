package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/qpm/internal/formatter"
	"github.com/desertthunder/qpm/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Generate builds a playlist from the ranking queue and writes it to disk.
//
// Flags override the [playlist] config section. With --stdout the document is printed and nothing
// is written or recorded.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	settings := r.settingsFromFlags(cmd)

	if cmd.Bool("stdout") {
		gen := r.newGenerator(settings, nil, false)
		playlist, err := gen.Generate(ctx, nil)
		if err != nil {
			return err
		}
		gen.Finish(ctx, tasks.Success, nil)
		return r.writePlain("%s\n", formatter.Serialize(playlist))
	}

	var recorder tasks.RunRecorder
	if !cmd.Bool("no-history") {
		if repo, db := r.openHistory(); repo != nil {
			defer db.Close()
			recorder = repo
		}
	}

	gen := r.newGenerator(settings, recorder, false)

	progress := make(chan tasks.ProgressUpdate, 100)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.logProgress(progress)
	}()

	result, err := gen.Run(ctx, progress)
	close(progress)
	<-done

	if result == nil {
		return err
	}
	if err != nil {
		return fmt.Errorf("%s: %w", tasks.StatusMessage(100, result.Status), err)
	}

	return r.writePlain("✓ %s %d songs written to %s\n", tasks.StatusMessage(100, result.Status), result.Songs, result.Path)
}

// settingsFromFlags starts from the config and applies any flag that was set explicitly.
func (r *Runner) settingsFromFlags(cmd *cli.Command) tasks.Settings {
	settings := tasks.SettingsFromConfig(r.config.Playlist)

	overrides := []struct {
		flag  string
		value *string
	}{
		{"title", &settings.Title},
		{"author", &settings.Author},
		{"description", &settings.Description},
		{"image", &settings.ImagePath},
		{"output", &settings.OutputPath},
	}
	for _, o := range overrides {
		if cmd.IsSet(o.flag) {
			*o.value = cmd.String(o.flag)
		}
	}
	return settings
}

// logProgress logs updates until progress is closed.
func (r *Runner) logProgress(progress <-chan tasks.ProgressUpdate) {
	for update := range progress {
		switch update.Phase {
		case tasks.EnrichSongs:
			r.logger.Debug(update.Message, "progress", fmt.Sprintf("%.0f%%", update.Progress))
		case tasks.Reset:
		default:
			r.logger.Info(update.Message, "phase", update.Phase, "progress", fmt.Sprintf("%.0f%%", update.Progress))
		}
	}
}
