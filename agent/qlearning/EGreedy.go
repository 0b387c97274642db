package qlearning

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/robotworld/timestep"
	"github.com/samuelfneumann/robotworld/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// EGreedy implements an ε-greedy policy using linear function
// approximation. Ties between greedy actions are broken uniformly at
// random.
type EGreedy struct {
	weights *mat.Dense
	epsilon float64
	rng     *rand.Rand
	source  rand.Source
}

// NewEGreedy constructs a new EGreedy policy over the argument weights,
// where e=epsilon is the probability with which a random action is
// selected. Weights have one row per action and one column per
// feature.
func NewEGreedy(e float64, weights *mat.Dense, seed uint64) *EGreedy {
	source := rand.NewSource(seed)
	return &EGreedy{
		weights: weights,
		epsilon: e,
		rng:     rand.New(source),
		source:  source,
	}
}

// SelectAction selects an action from an ε-greedy policy
func (p *EGreedy) SelectAction(t timestep.TimeStep) *mat.VecDense {
	numActions, _ := p.weights.Dims()

	// Calculate all action values
	actionValues := mat.NewVecDense(numActions, nil)
	actionValues.MulVec(p.weights, t.Observation)

	// Find the greedy action
	_, greedy := floatutils.MaxSlice(actionValues.RawVector().Data)
	greedyAction := greedy[p.rng.Intn(len(greedy))]

	// Calculate the ε probability of choosing any action at random
	prob := p.epsilon / float64(numActions)
	actionProbabilites := make([]float64, numActions)
	for i := range actionProbabilites {
		actionProbabilites[i] = prob
	}

	// Adjust the probability of choosing the greedy action
	actionProbabilites[greedyAction] += 1.0 - p.epsilon

	// Sample an action given the action probabilites
	dist := distuv.NewCategorical(actionProbabilites, p.source)
	return mat.NewVecDense(1, []float64{dist.Rand()})
}

// Epsilon returns the probability of selecting a random action
func (p *EGreedy) Epsilon() float64 {
	return p.epsilon
}

// SetEpsilon sets the probability of selecting a random action
func (p *EGreedy) SetEpsilon(e float64) {
	p.epsilon = e
}
