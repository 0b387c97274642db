package timestep

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestStepTypes(t *testing.T) {
	obs := mat.NewVecDense(2, []float64{1, 2})

	tests := []struct {
		stepType         StepType
		first, mid, last bool
	}{
		{First, true, false, false},
		{Mid, false, true, false},
		{Last, false, false, true},
	}

	for _, test := range tests {
		step := New(test.stepType, 1.0, 0.9, obs, 3)
		if step.First() != test.first || step.Mid() != test.mid ||
			step.Last() != test.last {
			t.Errorf("%v: first=%v mid=%v last=%v", test.stepType,
				step.First(), step.Mid(), step.Last())
		}
		if step.EndType() != Nil {
			t.Errorf("%v: new timestep should have no end type", test.stepType)
		}
		if len(step.Info) != 0 {
			t.Errorf("%v: info should be empty", test.stepType)
		}
	}
}

func TestSetEnd(t *testing.T) {
	step := New(Mid, 0, 1, mat.NewVecDense(1, nil), 1)
	step.StepType = Last
	step.SetEnd(OutOfBounds)

	if !step.Last() {
		t.Error("step should be last")
	}
	if step.EndType() != OutOfBounds {
		t.Errorf("end type: want %v, have %v", OutOfBounds, step.EndType())
	}
}

func TestNewTransition(t *testing.T) {
	s := New(First, 0, 1, mat.NewVecDense(1, []float64{1}), 0)
	next := New(Last, -10, 0, mat.NewVecDense(1, []float64{2}), 1)
	a := mat.NewVecDense(1, []float64{4})

	tr := NewTransition(s, a, next)
	if tr.Reward != -10 || tr.Discount != 0 || !tr.Done {
		t.Errorf("transition: unexpected %+v", tr)
	}
	if tr.State.AtVec(0) != 1 || tr.NextState.AtVec(0) != 2 ||
		tr.Action.AtVec(0) != 4 {
		t.Errorf("transition: wrong vectors %+v", tr)
	}
}
