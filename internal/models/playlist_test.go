package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDifficultyName(t *testing.T) {
	tc := []struct {
		rank int
		want string
	}{
		{rank: 1, want: Easy},
		{rank: 3, want: Normal},
		{rank: 5, want: Hard},
		{rank: 7, want: Expert},
		{rank: 9, want: ExpertPlus},
		{rank: 0, want: ExpertPlus},
		{rank: 2, want: ExpertPlus},
		{rank: 8, want: ExpertPlus},
		{rank: -1, want: ExpertPlus},
		{rank: 11, want: ExpertPlus},
	}

	for _, tt := range tc {
		if got := DifficultyName(tt.rank); got != tt.want {
			t.Errorf("DifficultyName(%d) = %v, want %v", tt.rank, got, tt.want)
		}
	}
}

func TestNewDifficulty(t *testing.T) {
	d := NewDifficulty(5)
	if d.Characteristic != "Standard" || d.Name != "Hard" {
		t.Errorf("unexpected difficulty %+v", d)
	}
}

func TestSongJSON(t *testing.T) {
	t.Run("omits empty difficulties", func(t *testing.T) {
		data, err := json.Marshal(Song{SongName: "A", LevelAuthor: "X", Hash: "H1"})
		if err != nil {
			t.Fatalf("failed to marshal song: %v", err)
		}
		if strings.Contains(string(data), "difficulties") {
			t.Errorf("expected difficulties key to be omitted, got %s", data)
		}
		for _, key := range []string{`"songName"`, `"levelAuthorName"`, `"hash"`} {
			if !strings.Contains(string(data), key) {
				t.Errorf("expected %s in %s", key, data)
			}
		}
	})

	t.Run("keeps difficulties", func(t *testing.T) {
		data, err := json.Marshal(Song{SongName: "A", Difficulties: []Difficulty{NewDifficulty(9)}})
		if err != nil {
			t.Fatalf("failed to marshal song: %v", err)
		}
		if !strings.Contains(string(data), `"difficulties":[{"characteristic":"Standard","name":"ExpertPlus"}]`) {
			t.Errorf("unexpected JSON %s", data)
		}
	})
}

func TestGenerationRunValidate(t *testing.T) {
	tc := []struct {
		name    string
		run     *GenerationRun
		wantErr bool
	}{
		{name: "valid", run: NewGenerationRun("t", "a", "playlist.json", 3, RunSucceeded)},
		{name: "missing path", run: NewGenerationRun("t", "a", "", 3, RunSucceeded), wantErr: true},
		{name: "bad status", run: NewGenerationRun("t", "a", "p.json", 3, RunStatus("pending")), wantErr: true},
		{name: "negative count", run: NewGenerationRun("t", "a", "p.json", -1, RunFailed), wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
