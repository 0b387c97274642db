package environment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SpecType determines what kind of specification a Spec is. A Spec can
// specify the layout of an acion, an observation, a discount, or a reward
type SpecType int

const (
	Action SpecType = iota
	Observation
	Discount
	Reward
)

func (s SpecType) String() string {
	switch s {
	case Action:
		return "Action"
	case Observation:
		return "Observation"
	case Discount:
		return "Discount"
	default:
		return "Reward"
	}
}

// Cardinality determines the cardinality of a number (discrete or continuous)
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec implements an environment specification, which tells the type,
// shape, and bounds of an action, observation, discount, or reward in
// an environment.
//
// Shape holds the dimensions of the described data, e.g. [12] for a
// flat observation vector or [64, 64, 64, 3] for a voxel grid. The
// bounds either hold one value per component of the flattened data or
// a single value which bounds every component.
type Spec struct {
	Shape      []int
	Type       SpecType
	LowerBound mat.Vector
	UpperBound mat.Vector
	Cardinality
}

// NewSpec constructs a new environment specification
// The shape argument outlines the shape of the data described by the
// specification. The argument t outlines what the specification is
// describing (e.g. actions, observations, etc.). The cardinality
// arguments describes whether the values that the spec describes are
// continuous or discrete.
func NewSpec(shape []int, t SpecType, lowerBound,
	upperBound mat.Vector, cardinality Cardinality) Spec {
	s := Spec{
		Shape:       append([]int(nil), shape...),
		Type:        t,
		LowerBound:  lowerBound,
		UpperBound:  upperBound,
		Cardinality: cardinality,
	}

	n := s.Len()
	if l := lowerBound.Len(); l != 1 && l != n {
		panic(fmt.Sprintf("shape length %v must match lower bounds length %v",
			n, l))
	}
	if l := upperBound.Len(); l != 1 && l != n {
		panic(fmt.Sprintf("shape length %v must match upper bounds length %v",
			n, l))
	}
	return s
}

// Len returns the number of components in the flattened data described
// by the Spec
func (s Spec) Len() int {
	n := 1
	for _, d := range s.Shape {
		n *= d
	}
	return n
}

// Lower returns the lower bound of the i-th flattened component
func (s Spec) Lower(i int) float64 {
	if s.LowerBound.Len() == 1 {
		return s.LowerBound.AtVec(0)
	}
	return s.LowerBound.AtVec(i)
}

// Upper returns the upper bound of the i-th flattened component
func (s Spec) Upper(i int) float64 {
	if s.UpperBound.Len() == 1 {
		return s.UpperBound.AtVec(0)
	}
	return s.UpperBound.AtVec(i)
}

func (s Spec) String() string {
	return fmt.Sprintf("Spec | %v  |  Shape: %v  |  %v", s.Type, s.Shape,
		s.Cardinality)
}
