// package formatter renders playlist documents to the game client's JSON format
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/qpm/internal/models"
	"github.com/desertthunder/qpm/internal/shared"
)

// EmptyDocument is returned by [Serialize] when a playlist cannot be encoded.
const EmptyDocument = "{}"

const indent = "    "

// MarshalPlaylist encodes the playlist as 4-space-indented JSON.
//
// HTML characters are left unescaped so song names round-trip verbatim.
// A nil song list is written as an empty array.
func MarshalPlaylist(pl *models.Playlist) ([]byte, error) {
	if pl == nil {
		return nil, fmt.Errorf("%w: nil playlist", shared.ErrInvalidInput)
	}

	doc := *pl
	if doc.Songs == nil {
		doc.Songs = []models.Song{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to marshal playlist: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Serialize renders the playlist as pretty-printed JSON and never fails: on error it returns [EmptyDocument].
func Serialize(pl *models.Playlist) string {
	data, err := MarshalPlaylist(pl)
	if err != nil {
		return EmptyDocument
	}
	return string(data)
}

// WritePlaylist serializes the playlist to the path resolved by [shared.GetFilePath] and returns that path.
func WritePlaylist(pl *models.Playlist, path string) (string, error) {
	path = shared.GetFilePath(path)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return path, fmt.Errorf("%w: failed to create directory: %v", shared.ErrWriteFailed, err)
		}
	}

	if err := os.WriteFile(path, []byte(Serialize(pl)), 0644); err != nil {
		return path, fmt.Errorf("%w: %v", shared.ErrWriteFailed, err)
	}
	return path, nil
}
