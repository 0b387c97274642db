package checkpointer

// nStep implements checkpointing every N episodes
type nStep struct {
	interval int
	object   Serializable // Object to save

	// filename returns the name of the file to save the object in
	// after the argument number of episodes. Use EpisodeFilename or
	// ModelFilename to enumerate files by episode.
	filename func(int) string
}

// NewNStep returns a checkpointer that checkpoints every n episodes.
// If n < 1, the checkpointer never saves.
func NewNStep(n int, object Serializable,
	filename func(int) string) Checkpointer {
	return &nStep{
		interval: n,
		object:   object,
		filename: filename,
	}
}

// Checkpoint checkpoints the Checkpointer's tracked object by calling
// its Save() method
func (n *nStep) Checkpoint(episode int) error {
	if n.interval < 1 || episode == 0 || episode%n.interval != 0 {
		return nil
	}
	return SaveFile(n.object, n.filename(episode))
}
