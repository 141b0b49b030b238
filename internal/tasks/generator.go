// package tasks implements the playlist generation pipeline.
//
// The core abstraction is [Generator], which fetches the ranking queue, enriches every entry with its
// difficulties and assembles the playlist document. Progress is written into a shared [State] and
// announced through a non-blocking channel of [ProgressUpdate].
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/qpm/internal/formatter"
	"github.com/desertthunder/qpm/internal/models"
	"github.com/desertthunder/qpm/internal/services"
	"github.com/desertthunder/qpm/internal/shared"
	"github.com/samber/lo"
)

const defaultWorkers = 8

// RankingClient defines the ranking service reads used by the pipeline.
// [services.RankingService] is the production implementation.
type RankingClient interface {
	FetchQueue(ctx context.Context) []services.QueueEntry
	FetchRequest(ctx context.Context, requestID int) (*services.QueueEntry, bool)
}

// RunRecorder persists finished runs. repositories.RunRepository implements it.
type RunRecorder interface {
	Create(run *models.GenerationRun) error
}

// GeneratorOpts contains configuration for a [Generator].
type GeneratorOpts struct {
	Ranking      RankingClient
	State        *State        // Defaults to an empty idle state
	Recorder     RunRecorder   // Optional; failures are logged and ignored
	Logger       *log.Logger   // Defaults to [shared.NewLogger]
	Workers      int           // Concurrent enrichments (default: 8)
	DisplayDelay time.Duration // How long Success/Failed stays visible before resetting
}

// Generator builds playlists from the ranking queue.
type Generator struct {
	ranking      RankingClient
	state        *State
	recorder     RunRecorder
	logger       *log.Logger
	workers      int
	displayDelay time.Duration
}

// RunResult describes a finished [Generator.Run].
type RunResult struct {
	Playlist *models.Playlist
	Path     string // Resolved output path
	Status   Status // [Success] or [Failed]
	Songs    int
}

// NewGenerator creates a [Generator] from opts.
func NewGenerator(opts GeneratorOpts) *Generator {
	if opts.State == nil {
		opts.State = NewState(Settings{})
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}

	return &Generator{
		ranking:      opts.Ranking,
		state:        opts.State,
		recorder:     opts.Recorder,
		logger:       shared.WithLogger(opts.Logger, "component", "generator"),
		workers:      opts.Workers,
		displayDelay: opts.DisplayDelay,
	}
}

// State returns the shared state the generator reports into.
func (g *Generator) State() *State {
	return g.state
}

// sendProgress sends a progress update through the channel without blocking.
func (g *Generator) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Generate builds the playlist document.
//
// Fetch failures never fail generation: missing partitions add no songs, missing details leave a song
// without difficulties and an unreadable image embeds as "". The only error is
// [shared.ErrGenerationInProgress] when the state is not idle. The state stays in [Generating] until
// [Generator.Finish] is called.
func (g *Generator) Generate(ctx context.Context, progress chan<- ProgressUpdate) (*models.Playlist, error) {
	if g.ranking == nil {
		return nil, fmt.Errorf("%w: ranking client not initialized", shared.ErrServiceUnavailable)
	}
	if err := g.state.begin(); err != nil {
		return nil, err
	}
	g.sendProgress(progress, startedUpdate())

	entries := g.ranking.FetchQueue(ctx)
	g.state.setTotal(len(entries))
	g.logger.Info("fetched ranking queue", "entries", len(entries))
	g.sendProgress(progress, queueFetchedUpdate(len(entries)))

	songs := g.enrichAll(ctx, entries, progress)

	settings := g.state.Settings()
	g.sendProgress(progress, embedImageUpdate(g.state.Progress(), settings.ImagePath))
	image := g.resolveImage(settings.ImagePath)

	return &models.Playlist{
		Title:       settings.Title,
		Author:      settings.Author,
		Description: settings.Description,
		Image:       image,
		Songs:       songs,
	}, nil
}

// Enrich builds the song for one queue entry and advances the shared progress by one increment.
//
// Difficulties come from the request detail endpoint in response order; if it is unavailable the song
// has none.
func (g *Generator) Enrich(ctx context.Context, entry services.QueueEntry, progress chan<- ProgressUpdate) models.Song {
	song := models.Song{
		SongName:    entry.Map.SongName,
		LevelAuthor: entry.Map.LevelAuthor,
		Hash:        entry.Map.SongHash,
	}

	if detail, ok := g.ranking.FetchRequest(ctx, entry.RequestID); ok {
		song.Difficulties = lo.Map(detail.Difficulties, func(d services.QueueDifficulty, _ int) models.Difficulty {
			return models.NewDifficulty(d.Rank)
		})
	} else {
		g.logger.Debug("request details unavailable", "request_id", entry.RequestID, "song", song.SongName)
	}

	pct, done := g.state.advance()
	g.sendProgress(progress, songEnrichedUpdate(done, g.state.Snapshot().Total, pct, song))
	return song
}

// enrichAll runs [Generator.Enrich] over entries with a bounded worker pool.
//
// Songs are collected in completion order.
func (g *Generator) enrichAll(ctx context.Context, entries []services.QueueEntry, progress chan<- ProgressUpdate) []models.Song {
	songs := make([]models.Song, 0, len(entries))
	if len(entries) == 0 {
		return songs
	}

	jobs := make(chan services.QueueEntry, len(entries))
	results := make(chan models.Song, len(entries))

	var wg sync.WaitGroup
	for range min(g.workers, len(entries)) {
		wg.Add(1)
		go g.enrichWorker(ctx, &wg, jobs, results, progress)
	}

	for _, entry := range entries {
		jobs <- entry
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for song := range results {
		songs = append(songs, song)
	}
	return songs
}

// enrichWorker is a worker goroutine that enriches entries from the jobs channel.
func (g *Generator) enrichWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan services.QueueEntry,
	results chan<- models.Song,
	progress chan<- ProgressUpdate,
) {
	defer wg.Done()
	for entry := range jobs {
		results <- g.Enrich(ctx, entry, progress)
	}
}

func (g *Generator) resolveImage(path string) string {
	if path == "" {
		return DefaultImage()
	}
	image, err := EncodeImageFile(path)
	if err != nil {
		g.logger.Warn("embedding empty image", "path", path, "err", err)
		return ""
	}
	return image
}

// Run generates the playlist, writes it to the configured output path and finishes the run.
//
// The write outcome decides between [Success] and [Failed]; a write failure is also returned wrapped
// in [shared.ErrWriteFailed]. Finished runs are recorded when a [RunRecorder] is configured. Run
// returns after the display delay, with the state back at [Idle].
func (g *Generator) Run(ctx context.Context, progress chan<- ProgressUpdate) (*RunResult, error) {
	pl, err := g.Generate(ctx, progress)
	if err != nil {
		return nil, err
	}

	settings := g.state.Settings()
	outputPath := shared.GetFilePath(settings.OutputPath)
	g.sendProgress(progress, writePlaylistUpdate(g.state.Progress(), outputPath))

	path, writeErr := formatter.WritePlaylist(pl, outputPath)
	result := &RunResult{Playlist: pl, Path: path, Status: Success, Songs: len(pl.Songs)}
	if writeErr != nil {
		result.Status = Failed
		g.logger.Error("failed to write playlist", "path", path, "err", writeErr)
	} else {
		g.logger.Info("wrote playlist", "path", path, "songs", len(pl.Songs))
	}

	g.record(settings, result, writeErr)
	g.Finish(ctx, result.Status, progress)
	return result, writeErr
}

// Finish moves a generating state to status, waits for the display delay and resets it to [Idle].
//
// A cancelled ctx cuts the delay short; the reset still happens.
func (g *Generator) Finish(ctx context.Context, status Status, progress chan<- ProgressUpdate) {
	g.state.finish(status)
	g.sendProgress(progress, completedUpdate(g.state.Progress(), status))

	if g.displayDelay > 0 {
		timer := time.NewTimer(g.displayDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	g.state.reset()
	g.sendProgress(progress, resetUpdate())
}

func (g *Generator) record(settings Settings, result *RunResult, writeErr error) {
	if g.recorder == nil {
		return
	}

	status := models.RunSucceeded
	if result.Status == Failed {
		status = models.RunFailed
	}

	run := models.NewGenerationRun(settings.Title, settings.Author, result.Path, result.Songs, status)
	if writeErr != nil {
		run.SetErrorMessage(writeErr.Error())
	}

	if err := g.recorder.Create(run); err != nil {
		g.logger.Warn("failed to record generation run", "err", err)
	}
}

// IsInProgress reports whether err was caused by a concurrent generation.
func IsInProgress(err error) bool {
	return errors.Is(err, shared.ErrGenerationInProgress)
}
