// Package wrappers provides wrappers for environments
package wrappers

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/robotworld/environment"
	ts "github.com/samuelfneumann/robotworld/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// Controls tiling offsets. For each dimension, tilings are offset by
// randomly sampling from a uniform distribution with support
// [- tiling width/OffsetDiv, tiling width/OffsetDiv]
const OffsetDiv float64 = 1.5

// TileCoder implements functionality for tile coding a subset of the
// features of a vector. Tile coding takes a low-dimensional vector and
// changes it into a large, sparse vector consisting of only 0's and
// 1's. Each 1 represents the coordinates of the original vector in some
// space of tilings. For example:
//
//	[0.5, 0.1] -> [0, 0, 0, 1, 0, 0, 1, 0]
//
// The number of nonzero elements in the tile-coded representation equals
// the number of tilings used to encode the vector. The number of total
// features in the tile-coded representation is the number of tilings
// times the number of tiles per tiling. Features outside their bounds
// are placed in the nearest tile.
type TileCoder struct {
	numTilings        int
	indices           []int
	bounds            []r1.Interval
	offsets           [][]float64
	bins              []int
	binLengths        []float64
	featuresPerTiling int
}

// NewTileCoder creates and returns a new TileCoder. Feature indices[i]
// of encoded vectors is tiled over bounds[i] with bins[i] tiles per
// tiling.
func NewTileCoder(numTilings int, indices []int, bounds []r1.Interval,
	bins []int, seed uint64) (*TileCoder, error) {
	if numTilings < 1 {
		return nil, fmt.Errorf("newTileCoder: at least one tiling "+
			"required, have %d", numTilings)
	}
	if len(indices) == 0 || len(indices) != len(bounds) ||
		len(indices) != len(bins) {
		return nil, fmt.Errorf("newTileCoder: indices (%d), bounds (%d) "+
			"and bins (%d) must have the same non-zero length", len(indices),
			len(bounds), len(bins))
	}

	// Calculate the length of bins and the tiling offset bounds
	offsetBounds := make([]r1.Interval, len(bins))
	binLengths := make([]float64, len(bins))
	for i := range bins {
		if bins[i] < 1 || bounds[i].Max <= bounds[i].Min {
			return nil, fmt.Errorf("newTileCoder: dimension %d has %d "+
				"bins over %v", i, bins[i], bounds[i])
		}

		binLength := (bounds[i].Max - bounds[i].Min) / float64(bins[i])
		bound := binLength / OffsetDiv

		binLengths[i] = binLength
		offsetBounds[i] = r1.Interval{Min: -bound, Max: bound}
	}

	// Sample the offset of each tiling
	source := rand.NewSource(seed)
	u := distmv.NewUniform(offsetBounds, source)
	offsets := make([][]float64, numTilings)
	for i := range offsets {
		offsets[i] = u.Rand(nil)
	}

	featuresPerTiling := 1
	for _, b := range bins {
		featuresPerTiling *= b
	}

	return &TileCoder{
		numTilings:        numTilings,
		indices:           append([]int(nil), indices...),
		bounds:            append([]r1.Interval(nil), bounds...),
		offsets:           offsets,
		bins:              append([]int(nil), bins...),
		binLengths:        binLengths,
		featuresPerTiling: featuresPerTiling,
	}, nil
}

// Encode returns the tile-coded representation of v
func (t *TileCoder) Encode(v mat.Vector) *mat.VecDense {
	tileCoded := mat.NewVecDense(t.VecLength(), nil)

	for j := 0; j < t.numTilings; j++ {
		indexOffset := j * t.featuresPerTiling
		index := 0

		for i := len(t.bins) - 1; i > -1; i-- {
			// Offset the tiling
			data := v.AtVec(t.indices[i]) + t.offsets[j][i]

			tile := math.Floor((data - t.bounds[i].Min) / t.binLengths[i])

			// Clip tile to within tiling bounds
			tile = math.Min(tile, float64(t.bins[i]-1))
			tile = math.Max(tile, 0)

			// Row-major index with the last dimension varying fastest
			stride := 1
			for k := i + 1; k < len(t.bins); k++ {
				stride *= t.bins[k]
			}
			index += int(tile) * stride
		}
		tileCoded.SetVec(indexOffset+index, 1.0)
	}
	return tileCoded
}

// VecLength returns the length of tile-coded vectors
func (t *TileCoder) VecLength() int {
	return t.numTilings * t.featuresPerTiling
}

// TileCoding wraps an environment and tile codes its observations.
//
// TileCoding itself implements the environment.Environment interface.
type TileCoding struct {
	environment.Environment
	coder    *TileCoder
	lastStep ts.TimeStep
}

// NewTileCoding returns a new TileCoding wrapping env, encoding
// observations with coder. The wrapped environment is reset.
func NewTileCoding(env environment.Environment, coder *TileCoder) (
	*TileCoding, ts.TimeStep, error) {
	obsLen := env.ObservationSpec().Len()
	for _, i := range coder.indices {
		if i < 0 || i >= obsLen {
			return nil, ts.TimeStep{}, fmt.Errorf("newTileCoding: index "+
				"%d out of range for %d-dimensional observations", i, obsLen)
		}
	}

	t := &TileCoding{Environment: env, coder: coder}
	step, err := t.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newTileCoding: %w", err)
	}
	return t, step, nil
}

// Reset resets the environment to some starting state
func (t *TileCoding) Reset() (ts.TimeStep, error) {
	step, err := t.Environment.Reset()
	if err != nil {
		return ts.TimeStep{}, err
	}

	step.Observation = t.coder.Encode(step.Observation)
	t.lastStep = step
	return step, nil
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended
func (t *TileCoding) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	step, done, err := t.Environment.Step(a)
	if err != nil {
		return ts.TimeStep{}, false, err
	}

	step.Observation = t.coder.Encode(step.Observation)
	t.lastStep = step
	return step, done, nil
}

// CurrentTimeStep returns the last timestep returned by the environment
func (t *TileCoding) CurrentTimeStep() ts.TimeStep {
	return t.lastStep
}

// ObservationSpec returns the observation specification of the
// environment
func (t *TileCoding) ObservationSpec() environment.Spec {
	lowerBound := mat.NewVecDense(1, []float64{0.0})
	upperBound := mat.NewVecDense(1, []float64{1.0})

	return environment.NewSpec([]int{t.coder.VecLength()},
		environment.Observation, lowerBound, upperBound,
		environment.Discrete)
}

// String returns a string representation of the TileCoding environment
func (t *TileCoding) String() string {
	return fmt.Sprintf("TileCoding: %v", t.Environment)
}
