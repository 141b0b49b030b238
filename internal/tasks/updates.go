package tasks

import (
	"fmt"

	"github.com/desertthunder/qpm/internal/models"
)

// ProgressUpdate represents a progress event during playlist generation.
//
// Used to tell the CLI or UI layer to refresh.
type ProgressUpdate struct {
	Phase    Phase   // Operation phase
	Step     int     // Current step number within phase
	Total    int     // Total steps in this phase
	Progress float64 // Overall percent complete
	Status   Status  // Generation status at the time of the update
	Message  string  // Human-readable message for display
	Data     any     // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Started Phase = iota
	FetchQueue
	EnrichSongs
	EmbedImage
	WritePlaylist
	Completed
	Reset
)

func (p Phase) String() string {
	switch p {
	case Started:
		return "started"
	case FetchQueue:
		return "fetch_queue"
	case EnrichSongs:
		return "enrich_songs"
	case EmbedImage:
		return "embed_image"
	case WritePlaylist:
		return "write_playlist"
	case Completed:
		return "completed"
	case Reset:
		return "reset"
	default:
		return ""
	}
}

func startedUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:    Started,
		Progress: StartedProgress,
		Status:   Generating,
		Message:  "Fetching ranking queue...",
	}
}

func queueFetchedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:    FetchQueue,
		Step:     1,
		Total:    1,
		Progress: StartedProgress,
		Status:   Generating,
		Message:  fmt.Sprintf("Found %d queued maps", total),
		Data:     total,
	}
}

func songEnrichedUpdate(step, total int, progress float64, song models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:    EnrichSongs,
		Step:     step,
		Total:    total,
		Progress: progress,
		Status:   Generating,
		Message:  fmt.Sprintf("[%d/%d] %s - %s (%d difficulties)", step, total, song.LevelAuthor, song.SongName, len(song.Difficulties)),
		Data:     song,
	}
}

func embedImageUpdate(progress float64, path string) ProgressUpdate {
	msg := "Embedding default cover..."
	if path != "" {
		msg = fmt.Sprintf("Embedding cover %s...", path)
	}
	return ProgressUpdate{
		Phase:    EmbedImage,
		Step:     1,
		Total:    1,
		Progress: progress,
		Status:   Generating,
		Message:  msg,
	}
}

func writePlaylistUpdate(progress float64, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:    WritePlaylist,
		Step:     1,
		Total:    1,
		Progress: progress,
		Status:   Generating,
		Message:  fmt.Sprintf("Writing %s...", path),
		Data:     path,
	}
}

func completedUpdate(progress float64, status Status) ProgressUpdate {
	return ProgressUpdate{
		Phase:    Completed,
		Progress: progress,
		Status:   status,
		Message:  StatusMessage(progress, status),
	}
}

func resetUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Reset,
		Status:  Idle,
		Message: StatusMessage(0, Idle),
	}
}
