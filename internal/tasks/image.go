package tasks

import (
	_ "embed"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed assets/queue.png
var defaultCover []byte

const defaultImageSubtype = "png"

// EncodeImage builds a base64 data URI for image bytes of the given MIME subtype.
func EncodeImage(data []byte, subtype string) string {
	return fmt.Sprintf("data:image/%s;base64,%s", subtype, base64.StdEncoding.EncodeToString(data))
}

// DefaultImage returns the bundled cover as a data URI.
func DefaultImage() string {
	return EncodeImage(defaultCover, defaultImageSubtype)
}

// EncodeImageFile reads path and encodes it as a data URI.
//
// The MIME subtype is the lower-cased file extension, or png when there is none.
func EncodeImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return EncodeImage(data, imageSubtype(path)), nil
}

func imageSubtype(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return defaultImageSubtype
	}
	return ext
}
