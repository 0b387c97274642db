// Package checkpointer implements functionality for periodically
// saving agents during an experiment
package checkpointer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Serializable is an object that can be saved/serialized
type Serializable interface {
	Save(w io.Writer) error
}

// Checkpointer checkpoints/saves serializable objects based on the
// number of finished episodes
type Checkpointer interface {
	Checkpoint(episode int) error
}

// SaveFile saves object to the file at path, creating any missing
// parent directories
func SaveFile(object Serializable, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("saveFile: could not create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saveFile: could not create file: %w", err)
	}

	if err := object.Save(file); err != nil {
		file.Close()
		return fmt.Errorf("saveFile: %w", err)
	}
	return file.Close()
}
