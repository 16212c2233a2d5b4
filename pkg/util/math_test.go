package util

import "testing"

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{1.234, 1.23},
		{1.236, 1.24},
		{-3.333, -3.33},
		{10, 10},
	}
	for _, c := range cases {
		if got := Round2(c.in); got != c.want {
			t.Fatalf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Fatalf("unexpected mean %v", got)
	}
	if got := Mean(nil); got != 0 {
		t.Fatalf("expected 0 for empty, got %v", got)
	}
}
