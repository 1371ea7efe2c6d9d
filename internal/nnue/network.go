package nnue

import "github.com/kestrelchess/engine/internal/chess"

// Network holds the loaded HalfKP weights: one input transform shared by
// both perspectives, followed by the three affine layers 512→32→32→1.
type Network struct {
	InputBias    [HalfDimensions]int16
	InputWeights [InputDimensions][HalfDimensions]int16

	L1 affineLayer // 512 -> 32
	L2 affineLayer // 32  -> 32
	L3 affineLayer // 32  -> 1
}

// affineLayer is a quantized y = Wx + b layer: weights row-major [out][in]
// int8, bias int32 per output.
type affineLayer struct {
	in, out int
	weights []int8
	bias    []int32
}

func newAffineLayer(in, out int) affineLayer {
	return affineLayer{in: in, out: out, weights: make([]int8, in*out), bias: make([]int32, out)}
}

func (l *affineLayer) weight(row, col int) int8 { return l.weights[row*l.in+col] }

// forward computes Wx+b for clipped-ReLU uint8 input, returning raw int32
// pre-activation sums.
func (l *affineLayer) forward(input []uint8) []int32 {
	out := make([]int32, l.out)
	for o := 0; o < l.out; o++ {
		sum := l.bias[o]
		for i := 0; i < l.in; i++ {
			sum += int32(l.weight(o, i)) * int32(input[i])
		}
		out[o] = sum
	}
	return out
}

// NewNetwork returns a Network with zero-valued weights; callers must load
// real weights via LoadNetwork before using it for evaluation.
func NewNetwork() *Network {
	return &Network{
		L1: newAffineLayer(2*HalfDimensions, L2Size),
		L2: newAffineLayer(L2Size, L3Size),
		L3: newAffineLayer(L3Size, 1),
	}
}

// Forward runs the full network on acc for the given side to move, putting
// that side's half first per the HalfKP perspective-concatenation rule.
func (n *Network) Forward(acc *Accumulator, sideToMove chess.Color) int {
	var stm, other *[HalfDimensions]int16
	if sideToMove == chess.White {
		stm, other = &acc.White, &acc.Black
	} else {
		stm, other = &acc.Black, &acc.White
	}

	input := make([]uint8, 2*HalfDimensions)
	for i := 0; i < HalfDimensions; i++ {
		input[i] = clampedReLU(int32(stm[i]))
		input[HalfDimensions+i] = clampedReLU(int32(other[i]))
	}

	l1 := n.L1.forward(input)
	l1Out := make([]uint8, L2Size)
	for i, v := range l1 {
		l1Out[i] = clampedReLU(v >> weightScaleBits)
	}

	l2 := n.L2.forward(l1Out)
	l2Out := make([]uint8, L3Size)
	for i, v := range l2 {
		l2Out[i] = clampedReLU(v >> weightScaleBits)
	}

	l3 := n.L3.forward(l2Out)
	raw := float64(l3[0]) * outputScale
	if sideToMove == chess.Black {
		raw = -raw
	}
	return int(raw)
}
