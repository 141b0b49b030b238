package tasks

import (
	"encoding/base64"
	"path/filepath"
	"strings"
	"testing"

	tu "github.com/desertthunder/qpm/internal/testing"
)

func TestImages(t *testing.T) {
	t.Run("DefaultImage", func(t *testing.T) {
		img := DefaultImage()
		data, found := strings.CutPrefix(img, "data:image/png;base64,")
		if !found {
			t.Fatalf("unexpected prefix in %q", img[:min(40, len(img))])
		}
		raw, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			t.Fatalf("invalid base64: %v", err)
		}
		if !strings.HasPrefix(string(raw), "\x89PNG") {
			t.Error("expected bundled cover to be a PNG")
		}
	})

	t.Run("EncodeImageFile", func(t *testing.T) {
		tc := []struct {
			name   string
			file   string
			prefix string
		}{
			{name: "jpg", file: "cover.jpg", prefix: "data:image/jpg;base64,"},
			{name: "upper case extension", file: "cover.PNG", prefix: "data:image/png;base64,"},
			{name: "dotted directory", file: filepath.Join("my.covers", "cover.gif"), prefix: "data:image/gif;base64,"},
			{name: "no extension", file: "cover", prefix: "data:image/png;base64,"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), tt.file)
				if dir := filepath.Dir(path); dir != "" {
					mustMkdirAll(t, dir)
				}
				tu.MustWriteFile(t, path, []byte("img"))

				got, err := EncodeImageFile(path)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				want := tt.prefix + base64.StdEncoding.EncodeToString([]byte("img"))
				if got != want {
					t.Errorf("EncodeImageFile() = %q, want %q", got, want)
				}
			})
		}
	})

	t.Run("EncodeImageFile Missing", func(t *testing.T) {
		if _, err := EncodeImageFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
			t.Error("expected error for a missing file")
		}
	})
}
