package nnue

import (
	"testing"

	"github.com/kestrelchess/engine/internal/chess"
)

func TestClampedReLU(t *testing.T) {
	cases := []struct {
		in   int32
		want uint8
	}{
		{-100, 0},
		{0, 0},
		{64, 64},
		{127, 127},
		{200, 127},
	}
	for _, c := range cases {
		if got := clampedReLU(c.in); got != c.want {
			t.Errorf("clampedReLU(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestForwardRunsOnZeroWeights(t *testing.T) {
	net := NewNetwork()
	acc := &Accumulator{}
	pos := chess.NewPosition()
	acc.ComputeFull(pos, net)

	score := net.Forward(acc, chess.White)
	if score != 0 {
		t.Errorf("zero-weight network should score 0, got %d", score)
	}
}

func TestForwardNegatesForBlack(t *testing.T) {
	net := NewNetwork()
	net.L3.bias[0] = 1000

	acc := &Accumulator{}
	pos := chess.NewPosition()
	acc.ComputeFull(pos, net)

	white := net.Forward(acc, chess.White)
	black := net.Forward(acc, chess.Black)
	if white != -black {
		t.Errorf("Forward(White) = %d, Forward(Black) = %d; expected exact negation", white, black)
	}
}
