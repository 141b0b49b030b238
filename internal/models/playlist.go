package models

// StandardCharacteristic is the only beatmap characteristic emitted in playlists.
const StandardCharacteristic = "Standard"

// Difficulty tier names understood by the game client.
const (
	Easy       = "Easy"
	Normal     = "Normal"
	Hard       = "Hard"
	Expert     = "Expert"
	ExpertPlus = "ExpertPlus"
)

// Playlist is the document consumed by the game client.
type Playlist struct {
	Title       string `json:"playlistTitle"`
	Author      string `json:"playlistAuthor"`
	Description string `json:"playlistDescription"`
	Image       string `json:"image"` // data URI
	Songs       []Song `json:"songs"`
}

// Song is one playlist entry. An empty Difficulties slice is left out of the JSON.
type Song struct {
	SongName     string       `json:"songName"`
	LevelAuthor  string       `json:"levelAuthorName"`
	Hash         string       `json:"hash"`
	Difficulties []Difficulty `json:"difficulties,omitempty"`
}

// Difficulty highlights one chart of a song.
type Difficulty struct {
	Characteristic string `json:"characteristic"`
	Name           string `json:"name"`
}

// DifficultyName maps a ranking service difficulty rank to its tier name.
//
// Unknown ranks map to [ExpertPlus].
func DifficultyName(rank int) string {
	switch rank {
	case 1:
		return Easy
	case 3:
		return Normal
	case 5:
		return Hard
	case 7:
		return Expert
	default:
		return ExpertPlus
	}
}

// NewDifficulty builds a Standard [Difficulty] for rank.
func NewDifficulty(rank int) Difficulty {
	return Difficulty{Characteristic: StandardCharacteristic, Name: DifficultyName(rank)}
}
