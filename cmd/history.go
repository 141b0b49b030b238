package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/qpm/internal/models"
	"github.com/desertthunder/qpm/internal/repositories"
	"github.com/desertthunder/qpm/internal/shared"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

// runView is the JSON shape of a [models.GenerationRun].
type runView struct {
	ID           string    `json:"id"`
	Sequence     int       `json:"sequence"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	OutputPath   string    `json:"outputPath"`
	SongCount    int       `json:"songCount"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newRunView(run *models.GenerationRun, _ int) runView {
	return runView{
		ID:           run.ID(),
		Sequence:     run.Sequence(),
		Title:        run.Title(),
		Author:       run.Author(),
		OutputPath:   run.OutputPath(),
		SongCount:    run.SongCount(),
		Status:       string(run.Status()),
		ErrorMessage: run.ErrorMessage(),
		CreatedAt:    run.CreatedAt(),
	}
}

// History lists recorded generation runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	status := cmd.String("status")
	if status != "" && status != string(models.RunSucceeded) && status != string(models.RunFailed) {
		return fmt.Errorf("%w: --status must be %q or %q", shared.ErrInvalidFlag, models.RunSucceeded, models.RunFailed)
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := repositories.NewRunRepository(db).List(map[string]any{
		"status": status,
		"limit":  int(cmd.Int("limit")),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(lo.Map(runs, newRunView), true)
	}

	if len(runs) == 0 {
		return r.writePlain("No playlist generations recorded yet.\n")
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.output)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Created", "Title", "Songs", "Status", "Output"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	for _, run := range runs {
		state := string(run.Status())
		if run.ErrorMessage() != "" {
			state += ": " + run.ErrorMessage()
		}
		t.AppendRow(table.Row{
			run.Sequence(),
			run.CreatedAt().Local().Format("2006-01-02 15:04"),
			run.Title(),
			run.SongCount(),
			text.WrapSoft(state, 40),
			run.OutputPath(),
		})
	}
	t.Render()
	return nil
}
