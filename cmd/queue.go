package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/desertthunder/qpm/internal/models"
	"github.com/desertthunder/qpm/internal/services"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

// Queue prints the maps currently in the ranking queue.
func (r *Runner) Queue(ctx context.Context, cmd *cli.Command) error {
	entries := r.rankingClient().FetchQueue(ctx)
	r.logger.Debug("fetched queue", "entries", len(entries))

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	if len(entries) == 0 {
		return r.writePlain("The ranking queue is empty (or the ranking service could not be reached).\n")
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.output)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Request", "Song", "Mapper", "Hash", "Difficulties"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})

	for _, e := range entries {
		t.AppendRow(table.Row{e.RequestID, e.Map.SongName, e.Map.LevelAuthor, e.Map.SongHash, difficultyNames(e.Difficulties)})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", strconv.Itoa(len(entries))})
	t.Render()
	return nil
}

func difficultyNames(difficulties []services.QueueDifficulty) string {
	names := lo.Map(difficulties, func(d services.QueueDifficulty, _ int) string {
		return models.DifficultyName(d.Rank)
	})
	return text.WrapSoft(strings.Join(names, ", "), 40)
}
