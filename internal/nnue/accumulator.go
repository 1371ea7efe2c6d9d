package nnue

import "github.com/kestrelchess/engine/internal/chess"

// maxPlyStack bounds the accumulator stack the same way the teacher's
// fixed-size ply stack did; search's MaxPly (internal/eval) matches it.
const maxPlyStack = 128

// Accumulator holds each perspective's partial sum over the input
// transform's bias and the weight rows of every active feature.
type Accumulator struct {
	White    [HalfDimensions]int16
	Black    [HalfDimensions]int16
	Computed bool
}

// AccumulatorStack mirrors search's ply stack so Push/Pop can ride
// alongside MakeMove/UnmakeMove without recomputing from scratch on every
// node.
type AccumulatorStack struct {
	stack [maxPlyStack]Accumulator
	top   int
}

// NewAccumulatorStack returns an empty stack positioned at ply 0.
func NewAccumulatorStack() *AccumulatorStack {
	return &AccumulatorStack{}
}

// Push copies the current accumulator to the next slot and descends into
// it; call before making a move.
func (s *AccumulatorStack) Push() {
	if s.top < len(s.stack)-1 {
		s.stack[s.top+1] = s.stack[s.top]
		s.top++
	}
}

// Pop ascends back to the previous slot; call after unmaking a move.
func (s *AccumulatorStack) Pop() {
	if s.top > 0 {
		s.top--
	}
}

// Current returns the accumulator at the stack's current depth.
func (s *AccumulatorStack) Current() *Accumulator { return &s.stack[s.top] }

// Reset returns the stack to ply 0 with an uncomputed accumulator.
func (s *AccumulatorStack) Reset() {
	s.top = 0
	s.stack[0].Computed = false
}

// ComputeFull rebuilds both perspectives from scratch by summing the
// input-transform bias with every active feature's weight row.
func (acc *Accumulator) ComputeFull(pos *chess.Position, net *Network) {
	white, black := activeFeatures(pos)

	copy(acc.White[:], net.InputBias[:])
	copy(acc.Black[:], net.InputBias[:])

	for _, idx := range white {
		row := &net.InputWeights[idx]
		for i := range acc.White {
			acc.White[i] += row[i]
		}
	}
	for _, idx := range black {
		row := &net.InputWeights[idx]
		for i := range acc.Black {
			acc.Black[i] += row[i]
		}
	}
	acc.Computed = true
}

// UpdateIncremental adjusts acc in place for a move already applied to
// pos, falling back to ComputeFull when the move can't be expressed as a
// small add/remove delta (king moves change every feature on that side).
func (acc *Accumulator) UpdateIncremental(pos *chess.Position, m chess.Move, captured chess.Piece, net *Network) {
	if !acc.Computed {
		acc.ComputeFull(pos, net)
		return
	}

	whiteAdd, whiteRem, blackAdd, blackRem, ok := changedFeatures(pos, m, captured)
	if !ok {
		acc.ComputeFull(pos, net)
		return
	}

	sub := func(half *[HalfDimensions]int16, idxs []int) {
		for _, idx := range idxs {
			row := &net.InputWeights[idx]
			for i := range half {
				half[i] -= row[i]
			}
		}
	}
	add := func(half *[HalfDimensions]int16, idxs []int) {
		for _, idx := range idxs {
			row := &net.InputWeights[idx]
			for i := range half {
				half[i] += row[i]
			}
		}
	}

	sub(&acc.White, whiteRem)
	sub(&acc.Black, blackRem)
	add(&acc.White, whiteAdd)
	add(&acc.Black, blackAdd)
}
