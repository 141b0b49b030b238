package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/qpm/internal/models"
	"github.com/desertthunder/qpm/internal/services"
	"github.com/desertthunder/qpm/internal/shared"
	tu "github.com/desertthunder/qpm/internal/testing"
)

// fakeRanking is an in-memory [RankingClient].
type fakeRanking struct {
	queue   []services.QueueEntry
	details map[int][]int // request ID -> ranks; missing IDs are absent
	gate    chan struct{} // when set, FetchQueue blocks until closed

	mu      sync.Mutex
	fetched []int
}

func (f *fakeRanking) FetchQueue(ctx context.Context) []services.QueueEntry {
	if f.gate != nil {
		<-f.gate
	}
	return f.queue
}

func (f *fakeRanking) FetchRequest(ctx context.Context, requestID int) (*services.QueueEntry, bool) {
	f.mu.Lock()
	f.fetched = append(f.fetched, requestID)
	f.mu.Unlock()

	ranks, ok := f.details[requestID]
	if !ok {
		return nil, false
	}
	entry := &services.QueueEntry{RequestID: requestID}
	for _, r := range ranks {
		entry.Difficulties = append(entry.Difficulties, services.QueueDifficulty{Rank: r})
	}
	return entry, true
}

// fakeRecorder captures recorded runs.
type fakeRecorder struct {
	mu   sync.Mutex
	runs []*models.GenerationRun
	err  error
}

func (r *fakeRecorder) Create(run *models.GenerationRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return r.err
}

func queueEntry(id int, name string) services.QueueEntry {
	return services.QueueEntry{
		RequestID: id,
		Map: services.MapInfo{
			SongName:    name,
			SongHash:    fmt.Sprintf("HASH%d", id),
			LevelAuthor: "mapper",
		},
	}
}

func newTestGenerator(ranking RankingClient, settings Settings, recorder RunRecorder) *Generator {
	return NewGenerator(GeneratorOpts{
		Ranking:  ranking,
		State:    NewState(settings),
		Recorder: recorder,
		Logger:   shared.NewLogger(io.Discard),
		Workers:  4,
	})
}

func drain(ch chan ProgressUpdate) []ProgressUpdate {
	var updates []ProgressUpdate
	for {
		select {
		case u := <-ch:
			updates = append(updates, u)
		default:
			return updates
		}
	}
}

func mustMkdirAll(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}
}

func TestGenerator(t *testing.T) {
	t.Run("End To End Against Ranking API", func(t *testing.T) {
		fixture := &tu.RankingFixture{
			Top:      "[" + tu.QueueEntryJSON(1, "A", "H1", "X") + "]",
			BelowTop: "[]",
			Details:  map[int]string{1: `{"difficulties":[{"difficulty":5}]}`},
		}
		ranking := services.NewRankingService(services.RankingOpts{
			BaseURL: tu.NewRankingServer(t, fixture).URL,
			Logger:  shared.NewLogger(io.Discard),
		})

		output := filepath.Join(t.TempDir(), "queue")
		recorder := &fakeRecorder{}
		gen := NewGenerator(GeneratorOpts{
			Ranking:      ranking,
			State:        NewState(Settings{Title: "Queue", Author: "me", Description: "desc", OutputPath: output}),
			Recorder:     recorder,
			Logger:       shared.NewLogger(io.Discard),
			DisplayDelay: 10 * time.Millisecond,
		})

		if gen.State().Status() != Idle {
			t.Fatal("expected idle state before running")
		}

		progress := make(chan ProgressUpdate, 100)
		result, err := gen.Run(context.Background(), progress)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Status != Success || result.Path != output+".json" || result.Songs != 1 {
			t.Errorf("unexpected result %+v", result)
		}

		var doc models.Playlist
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, result.Path)), &doc); err != nil {
			t.Fatalf("written playlist is not valid JSON: %v", err)
		}
		if doc.Title != "Queue" || doc.Author != "me" || doc.Description != "desc" {
			t.Errorf("unexpected metadata %+v", doc)
		}
		if doc.Image != DefaultImage() {
			t.Error("expected the bundled cover to be embedded")
		}
		if len(doc.Songs) != 1 {
			t.Fatalf("expected one song, got %d", len(doc.Songs))
		}
		song := doc.Songs[0]
		if song.SongName != "A" || song.Hash != "H1" || song.LevelAuthor != "X" {
			t.Errorf("unexpected song %+v", song)
		}
		if len(song.Difficulties) != 1 || song.Difficulties[0] != (models.Difficulty{Characteristic: "Standard", Name: "Hard"}) {
			t.Errorf("unexpected difficulties %+v", song.Difficulties)
		}

		var statuses []Status
		for _, u := range drain(progress) {
			if len(statuses) == 0 || statuses[len(statuses)-1] != u.Status {
				statuses = append(statuses, u.Status)
			}
		}
		want := []Status{Generating, Success, Idle}
		if fmt.Sprint(statuses) != fmt.Sprint(want) {
			t.Errorf("expected status transitions %v, got %v", want, statuses)
		}

		if snap := gen.State().Snapshot(); snap.Status != Idle || snap.Progress != 0 {
			t.Errorf("expected reset state, got %+v", snap)
		}

		if len(recorder.runs) != 1 || recorder.runs[0].Status() != models.RunSucceeded || recorder.runs[0].SongCount() != 1 {
			t.Errorf("expected one successful recorded run, got %+v", recorder.runs)
		}
	})

	t.Run("Progress Sums To One Hundred", func(t *testing.T) {
		ranking := &fakeRanking{details: map[int][]int{}}
		for i := 1; i <= 37; i++ {
			ranking.queue = append(ranking.queue, queueEntry(i, fmt.Sprintf("song-%d", i)))
			ranking.details[i] = []int{1, 9}
		}
		gen := newTestGenerator(ranking, Settings{}, nil)

		pl, err := gen.Generate(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(pl.Songs) != 37 {
			t.Errorf("expected 37 songs, got %d", len(pl.Songs))
		}
		if p := gen.State().Progress(); math.Abs(p-100) > 1e-9 {
			t.Errorf("expected progress 100, got %v", p)
		}
		if gen.State().Status() != Generating {
			t.Error("expected state to stay generating until finished")
		}
		if len(ranking.fetched) != 37 {
			t.Errorf("expected 37 detail fetches, got %d", len(ranking.fetched))
		}

		seen := map[string]bool{}
		for _, s := range pl.Songs {
			seen[s.Hash] = true
			if len(s.Difficulties) != 2 || s.Difficulties[0].Name != "Easy" || s.Difficulties[1].Name != "ExpertPlus" {
				t.Errorf("unexpected difficulties for %s: %+v", s.SongName, s.Difficulties)
			}
		}
		if len(seen) != 37 {
			t.Errorf("expected 37 distinct songs, got %d", len(seen))
		}
	})

	t.Run("Empty Queue", func(t *testing.T) {
		gen := newTestGenerator(&fakeRanking{}, Settings{}, nil)

		pl, err := gen.Generate(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pl.Songs == nil || len(pl.Songs) != 0 {
			t.Errorf("expected an empty, non-nil song list, got %#v", pl.Songs)
		}
		if p := gen.State().Progress(); p != StartedProgress {
			t.Errorf("expected progress to stay at %v, got %v", StartedProgress, p)
		}
	})

	t.Run("Missing Details Leave Difficulties Empty", func(t *testing.T) {
		ranking := &fakeRanking{
			queue:   []services.QueueEntry{queueEntry(1, "with"), queueEntry(2, "without")},
			details: map[int][]int{1: {7}},
		}
		gen := newTestGenerator(ranking, Settings{}, nil)

		pl, err := gen.Generate(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, s := range pl.Songs {
			switch s.SongName {
			case "with":
				if len(s.Difficulties) != 1 || s.Difficulties[0].Name != "Expert" {
					t.Errorf("unexpected difficulties %+v", s.Difficulties)
				}
			case "without":
				if len(s.Difficulties) != 0 {
					t.Errorf("expected no difficulties, got %+v", s.Difficulties)
				}
			default:
				t.Errorf("unexpected song %s", s.SongName)
			}
		}
	})

	t.Run("Enrich Reports Progress", func(t *testing.T) {
		ranking := &fakeRanking{details: map[int][]int{4: {3, 5}}}
		gen := newTestGenerator(ranking, Settings{}, nil)
		progress := make(chan ProgressUpdate, 1)

		song := gen.Enrich(context.Background(), queueEntry(4, "four"), progress)
		if song.Hash != "HASH4" || len(song.Difficulties) != 2 || song.Difficulties[0].Name != "Normal" {
			t.Errorf("unexpected song %+v", song)
		}

		select {
		case u := <-progress:
			if u.Phase != EnrichSongs || u.Step != 1 {
				t.Errorf("unexpected update %+v", u)
			}
		default:
			t.Error("expected a progress update")
		}
	})

	t.Run("Unreadable Image Embeds Empty String", func(t *testing.T) {
		settings := Settings{ImagePath: filepath.Join(t.TempDir(), "missing.png")}
		gen := newTestGenerator(&fakeRanking{}, settings, nil)

		pl, err := gen.Generate(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pl.Image != "" {
			t.Errorf("expected empty image, got %q", pl.Image)
		}
	})

	t.Run("Custom Image", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cover.jpeg")
		tu.MustWriteFile(t, path, []byte{0xff, 0xd8})
		gen := newTestGenerator(&fakeRanking{}, Settings{ImagePath: path}, nil)

		pl, err := gen.Generate(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pl.Image != "data:image/jpeg;base64,/9g=" {
			t.Errorf("unexpected image %q", pl.Image)
		}
	})

	t.Run("Concurrent Generation Rejected", func(t *testing.T) {
		ranking := &fakeRanking{gate: make(chan struct{})}
		gen := newTestGenerator(ranking, Settings{}, nil)

		done := make(chan error, 1)
		go func() {
			_, err := gen.Generate(context.Background(), nil)
			done <- err
		}()

		deadline := time.Now().Add(2 * time.Second)
		for gen.State().Status() != Generating {
			if time.Now().After(deadline) {
				t.Fatal("first generation never started")
			}
			time.Sleep(time.Millisecond)
		}

		_, err := gen.Generate(context.Background(), nil)
		if !IsInProgress(err) {
			t.Errorf("expected ErrGenerationInProgress, got %v", err)
		}

		close(ranking.gate)
		if err := <-done; err != nil {
			t.Errorf("first generation failed: %v", err)
		}
	})

	t.Run("Write Failure Marks Failed", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		tu.MustWriteFile(t, blocker, []byte("x"))

		recorder := &fakeRecorder{err: errors.New("db down")}
		gen := newTestGenerator(&fakeRanking{}, Settings{OutputPath: filepath.Join(blocker, "out")}, recorder)
		progress := make(chan ProgressUpdate, 100)

		result, err := gen.Run(context.Background(), progress)
		if !errors.Is(err, shared.ErrWriteFailed) {
			t.Fatalf("expected ErrWriteFailed, got %v", err)
		}
		if result.Status != Failed {
			t.Errorf("expected failed status, got %s", result.Status)
		}

		var sawFailed bool
		for _, u := range drain(progress) {
			if u.Phase == Completed && u.Status == Failed && u.Message == "Failed to write to file!" {
				sawFailed = true
			}
		}
		if !sawFailed {
			t.Error("expected a failed completion update")
		}

		if len(recorder.runs) != 1 || recorder.runs[0].Status() != models.RunFailed || recorder.runs[0].ErrorMessage() == "" {
			t.Errorf("expected a failed recorded run, got %+v", recorder.runs)
		}
		if gen.State().Status() != Idle {
			t.Error("expected state to reset after failure")
		}
	})

	t.Run("Finish Honors Cancelled Context", func(t *testing.T) {
		gen := NewGenerator(GeneratorOpts{
			Ranking:      &fakeRanking{},
			Logger:       shared.NewLogger(io.Discard),
			DisplayDelay: time.Hour,
		})
		_ = gen.State().begin()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		gen.Finish(ctx, Success, nil)
		if time.Since(start) > time.Second {
			t.Error("expected Finish to return promptly for a cancelled context")
		}
		if gen.State().Status() != Idle {
			t.Error("expected state to reset")
		}
	})

	t.Run("Nil Ranking Client", func(t *testing.T) {
		gen := NewGenerator(GeneratorOpts{Logger: shared.NewLogger(io.Discard)})
		if _, err := gen.Generate(context.Background(), nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}
