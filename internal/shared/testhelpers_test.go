package shared

import (
	"fmt"
	"os"
	"strings"
)

func logFileContains(path, want string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}
	if !strings.Contains(string(content), want) {
		return fmt.Errorf("log file %s does not contain %q", path, want)
	}
	return nil
}
