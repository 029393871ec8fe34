package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink persists one named pipeline artifact as a full-content overwrite.
type Sink interface {
	Write(name string, content []byte) error
}

// FileSink writes artifacts into a directory, creating it if needed.
type FileSink struct {
	Dir string
}

// Write implements Sink.
func (s FileSink) Write(name string, content []byte) error {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
