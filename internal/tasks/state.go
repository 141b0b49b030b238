package tasks

import (
	"fmt"
	"sync"

	"github.com/desertthunder/qpm/internal/shared"
)

// Status is the phase of the current playlist generation.
type Status int

const (
	Idle Status = iota
	Generating
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

const (
	// StartedProgress marks a run as started before any song has completed.
	StartedProgress = 1.0
	// EnrichmentSpan is the share of progress spread across all songs.
	EnrichmentSpan = 99.0
)

// Settings are the user editable playlist fields.
type Settings struct {
	Title       string
	Author      string
	Description string
	ImagePath   string // Blank embeds the bundled cover
	OutputPath  string // Resolved with [shared.GetFilePath]
}

// SettingsFromConfig copies the [shared.PlaylistConfig] section into [Settings].
func SettingsFromConfig(cfg shared.PlaylistConfig) Settings {
	return Settings{
		Title:       cfg.Title,
		Author:      cfg.Author,
		Description: cfg.Description,
		ImagePath:   cfg.ImagePath,
		OutputPath:  cfg.OutputPath,
	}
}

// Snapshot is a consistent copy of [State].
type Snapshot struct {
	Settings
	Progress  float64
	Status    Status
	Completed int // Songs enriched so far
	Total     int // Songs in the current run
}

// State is the shared generation state read by the view and written by the pipeline.
//
// One mutex guards every field and is held only for the duration of a single read or mutation,
// never across network I/O.
type State struct {
	mu        sync.Mutex
	settings  Settings
	progress  float64
	increment float64
	status    Status
	completed int
	total     int
}

// NewState creates an idle [State] holding settings.
func NewState(settings Settings) *State {
	return &State{settings: settings}
}

// Settings returns the current playlist settings.
func (s *State) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetSettings replaces the playlist settings.
func (s *State) SetSettings(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// Snapshot returns a copy of the whole state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Settings:  s.settings,
		Progress:  s.progress,
		Status:    s.status,
		Completed: s.completed,
		Total:     s.total,
	}
}

// Progress returns the percent complete.
func (s *State) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Status returns the generation status.
func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// begin moves an idle state to [Generating] with progress at [StartedProgress].
func (s *State) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != Idle {
		return fmt.Errorf("%w: status is %s", shared.ErrGenerationInProgress, s.status)
	}
	s.status = Generating
	s.progress = StartedProgress
	s.increment = 0
	s.completed = 0
	s.total = 0
	return nil
}

// setTotal records the queue size and derives the per-song increment.
//
// An empty queue uses a divisor of 1.
func (s *State) setTotal(total int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = total
	s.increment = EnrichmentSpan / float64(max(1, total))
	return s.increment
}

// advance adds one song's increment and returns the new progress and completed count.
func (s *State) advance() (float64, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress += s.increment
	s.completed++
	return s.progress, s.completed
}

// finish records the terminal status of a run.
func (s *State) finish(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// reset returns the state to [Idle] with zero progress.
func (s *State) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = Idle
	s.progress = 0
	s.increment = 0
	s.completed = 0
	s.total = 0
}

// StatusMessage renders the status line shown under the progress bar.
func StatusMessage(progress float64, status Status) string {
	switch status {
	case Failed:
		return "Failed to write to file!"
	case Success:
		return "Generation Complete!"
	default:
		return fmt.Sprintf("%d%%", int(progress))
	}
}
