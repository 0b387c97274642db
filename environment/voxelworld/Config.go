package voxelworld

import "fmt"

const (
	// ActionScale scales every action component before it is added to
	// the robot pose
	ActionScale float64 = 0.1

	// MinSize is the smallest grid side that fits the human figure with
	// room to move
	MinSize int = HumanHeight + 1
)

// Config configures a VoxelWorld
type Config struct {
	// ActionScale multiplies actions before they are applied
	ActionScale float64 `yaml:"action_scale" json:"action_scale"`

	// Discount is the discount of every step that does not end the
	// episode
	Discount float64 `yaml:"discount" json:"discount"`

	// PersistentBackground keeps the background sampled at reset for
	// the whole episode instead of drawing a new one on every
	// observation
	PersistentBackground bool `yaml:"persistent_background" json:"persistent_background"`
}

// DefaultConfig returns the default VoxelWorld configuration
func DefaultConfig() Config {
	return Config{
		ActionScale:          ActionScale,
		Discount:             1.0,
		PersistentBackground: false,
	}
}

// Validate returns an error if the configuration cannot be used
func (c Config) Validate() error {
	if c.ActionScale <= 0 {
		return fmt.Errorf("validate: action scale must be positive, have "+
			"%v", c.ActionScale)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount %v ∉ [0, 1]", c.Discount)
	}
	return nil
}
