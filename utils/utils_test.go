package utils

import "testing"

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{28.499999999, 28.50},
		{28.504, 28.50},
		{28.506, 28.51},
		{0, 0},
		{-1.005, -1.0},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestGenerateIDLength(t *testing.T) {
	id := GenerateID(14)
	if len(id) != 14 {
		t.Fatalf("len = %d", len(id))
	}
	if id == GenerateID(14) {
		t.Fatal("two generated ids collided")
	}
}
