// Package dataset loads the 3D shapes dataset which provides background
// scenes for the voxel world. A dataset is a set of cubic RGB voxel
// images paired with label vectors describing the generating factors of
// each image.
package dataset

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samuelfneumann/robotworld/voxel"
	"go.uber.org/zap"
)

const (
	// Shape of the dummy data used when no dataset file exists
	DefaultCount int = 100
	DefaultSize  int = 64

	// Number of generating factors in each label
	LabelDims int = 6
)

// Shapes holds a dataset of Count cubic images, each Size × Size × Size
// voxels with voxel.Channels colour channels, and one label of
// LabelDims factors per image. Images and Labels are flattened in
// row-major order.
type Shapes struct {
	Count  int
	Size   int
	Images []uint8
	Labels []float64
}

// Len returns the number of images in the dataset
func (s *Shapes) Len() int {
	return s.Count
}

// Image returns image i as a voxel grid which shares its storage with
// the dataset. Callers that modify the grid should Clone it first.
func (s *Shapes) Image(i int) *voxel.Grid {
	n := s.imageLen()
	g, err := voxel.FromData(s.Size, s.Size, s.Size, s.Images[i*n:(i+1)*n])
	if err != nil {
		panic(fmt.Sprintf("image: %v", err))
	}
	return g
}

// Label returns the label of image i
func (s *Shapes) Label(i int) []float64 {
	return s.Labels[i*LabelDims : (i+1)*LabelDims]
}

// Validate ensures the dataset's arrays match its declared shape
func (s *Shapes) Validate() error {
	if s.Count <= 0 {
		return fmt.Errorf("validate: dataset must hold at least one image")
	}
	if s.Size <= 0 {
		return fmt.Errorf("validate: illegal image size %d", s.Size)
	}
	if len(s.Images) != s.Count*s.imageLen() {
		return fmt.Errorf("validate: images length %d does not match shape "+
			"(%d, %d, %d, %d, %d)", len(s.Images), s.Count, s.Size, s.Size,
			s.Size, voxel.Channels)
	}
	if len(s.Labels) != s.Count*LabelDims {
		return fmt.Errorf("validate: labels length %d does not match shape "+
			"(%d, %d)", len(s.Labels), s.Count, LabelDims)
	}
	return nil
}

func (s *Shapes) imageLen() int {
	return s.Size * s.Size * s.Size * voxel.Channels
}

// Dummy returns an all-zero dataset of count images of the given size
func Dummy(count, size int) *Shapes {
	return &Shapes{
		Count:  count,
		Size:   size,
		Images: make([]uint8, count*size*size*size*voxel.Channels),
		Labels: make([]float64, count*LabelDims),
	}
}

// Option configures Load
type Option func(*loader)

type loader struct {
	logger     *zap.Logger
	dummyCount int
	dummySize  int
}

// WithLogger sets the logger used to report a missing dataset file
func WithLogger(l *zap.Logger) Option {
	return func(ld *loader) {
		ld.logger = l
	}
}

// WithDummyShape sets the shape of the dummy data substituted when the
// dataset file does not exist
func WithDummyShape(count, size int) Option {
	return func(ld *loader) {
		ld.dummyCount = count
		ld.dummySize = size
	}
}

// Load loads a gob-encoded dataset from path. If the file does not
// exist, a warning is logged and a zero-filled dummy dataset is
// returned instead; every other failure is returned as an error.
func Load(path string, opts ...Option) (*Shapes, error) {
	ld := loader{
		logger:     zap.NewNop(),
		dummyCount: DefaultCount,
		dummySize:  DefaultSize,
	}
	for _, opt := range opts {
		opt(&ld)
	}

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		ld.logger.Warn("3D shapes file not found, using dummy data",
			zap.String("path", path),
			zap.Int("count", ld.dummyCount),
			zap.Int("size", ld.dummySize))
		return Dummy(ld.dummyCount, ld.dummySize), nil
	} else if err != nil {
		return nil, fmt.Errorf("load: could not open dataset: %w", err)
	}
	defer file.Close()

	var shapes Shapes
	if err := gob.NewDecoder(file).Decode(&shapes); err != nil {
		return nil, fmt.Errorf("load: could not decode dataset %v: %w", path,
			err)
	}
	if err := shapes.Validate(); err != nil {
		return nil, fmt.Errorf("load: %v: %w", path, err)
	}

	ld.logger.Debug("loaded 3D shapes dataset", zap.String("path", path),
		zap.Int("count", shapes.Count), zap.Int("size", shapes.Size))
	return &shapes, nil
}

// Save gob-encodes the dataset to path, creating parent directories as
// needed
func Save(path string, s *Shapes) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save: could not create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save: could not create dataset file: %w", err)
	}

	if err := gob.NewEncoder(file).Encode(s); err != nil {
		file.Close()
		return fmt.Errorf("save: could not encode dataset: %w", err)
	}
	return file.Close()
}
