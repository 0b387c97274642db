package qlearning

import (
	"gonum.org/v1/gonum/mat"
)

// QLearner implements the update functionality for the Q-Learning
// algorithm with linear function approximation.
type QLearner struct {
	weights      *mat.Dense
	learningRate float64
}

// NewQLearner creates a new QLearner struct
//
// weights are the weights of the policy to learn
func NewQLearner(weights *mat.Dense, learningRate float64) *QLearner {
	return &QLearner{weights, learningRate}
}

// TdError returns the TD error of a single transition
func (q *QLearner) TdError(state mat.Vector, action int, reward,
	discount float64, nextState mat.Vector) float64 {
	numActions, _ := q.weights.Dims()

	// Calculate the action values in the next state
	actionValues := mat.NewVecDense(numActions, nil)
	actionValues.MulVec(q.weights, nextState)

	// Create the update target
	target := reward + discount*mat.Max(actionValues)

	// Find the current estimate of the taken action
	currentEstimate := mat.Dot(q.weights.RowView(action), state)

	return target - currentEstimate
}

// Step performs one semi-gradient update of the weights on a batch of
// transitions held in flattened row-major slices. Updates are averaged
// over the batch.
func (q *QLearner) Step(states, actions, rewards, discounts,
	nextStates []float64) {
	numActions, features := q.weights.Dims()
	batch := len(rewards)

	// Accumulate the gradient of each action's weights
	grad := mat.NewDense(numActions, features, nil)
	for i := 0; i < batch; i++ {
		state := mat.NewVecDense(features, states[i*features:(i+1)*features])
		nextState := mat.NewVecDense(features,
			nextStates[i*features:(i+1)*features])
		action := int(actions[i])

		tdError := q.TdError(state, action, rewards[i], discounts[i],
			nextState)

		row := grad.RowView(action).(*mat.VecDense)
		row.AddScaledVec(row, tdError, state)
	}

	// Perform gradient descent: ∇weights = α/batch * δ * state
	grad.Scale(q.learningRate/float64(batch), grad)
	q.weights.Add(q.weights, grad)
}
