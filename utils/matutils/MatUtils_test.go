package matutils

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMaxVec(t *testing.T) {
	v := mat.NewVecDense(4, []float64{1, 3, 3, -2})
	if i := MaxVec(v); i != 1 {
		t.Errorf("maxVec: want 1, have %v", i)
	}
}

func TestDist2(t *testing.T) {
	if d := Dist2(0, 0, 3, 4); d != 5 {
		t.Errorf("dist2: want 5, have %v", d)
	}
}

func TestVecClip(t *testing.T) {
	v := mat.NewVecDense(3, []float64{-2, 0.5, 2})
	VecClip(v, -1, 1)
	want := []float64{-1, 0.5, 1}
	for i, w := range want {
		if v.AtVec(i) != w {
			t.Errorf("vecClip[%d]: want %v, have %v", i, w, v.AtVec(i))
		}
	}
}
