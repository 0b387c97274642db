package checkpointer

import (
	"fmt"
	"path/filepath"
)

const (
	// Defaults for the names of saved models
	ModelDir    string = "models"
	ModelPrefix string = "dqn_agent_episodes_"
	ModelExt    string = ".bin"
)

// EpisodeFilename returns a function which names a file in dir by the
// episode it was saved at, e.g. dir/prefix100.ext
func EpisodeFilename(dir, prefix, extension string) func(int) string {
	return func(episode int) string {
		return filepath.Join(dir, fmt.Sprintf("%v%v%v", prefix, episode,
			extension))
	}
}

// ModelFilename names agent models saved under root
func ModelFilename(root string) func(int) string {
	return EpisodeFilename(filepath.Join(root, ModelDir), ModelPrefix,
		ModelExt)
}
