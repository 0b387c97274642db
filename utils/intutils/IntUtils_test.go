package intutils

import "testing"

func TestMinMax(t *testing.T) {
	if m := Min(3, -1, 7); m != -1 {
		t.Errorf("min: want -1, have %v", m)
	}
	if m := Max(3, -1, 7); m != 7 {
		t.Errorf("max: want 7, have %v", m)
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		value, min, max, want int
	}{
		{5, 2, 61, 5},
		{0, 2, 61, 2},
		{70, 2, 61, 61},
		{-3, 0, 54, 0},
	}

	for _, test := range tests {
		if have := Clip(test.value, test.min, test.max); have != test.want {
			t.Errorf("clip(%v, %v, %v): want %v, have %v", test.value,
				test.min, test.max, test.want, have)
		}
	}
}
