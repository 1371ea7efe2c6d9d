// Package nnue implements the HalfKP NNUE evaluator: an input feature
// transform keyed on king position, producing a 512-wide accumulator that
// feeds three quantized affine layers to a single centipawn score.
package nnue

import "github.com/kestrelchess/engine/internal/chess"

const (
	// KingBuckets is the number of perspective king squares.
	KingBuckets = 64
	// NonKingPieceTypes counts the ten (type, color) combinations a non-king
	// piece can take: pawn/knight/bishop/rook/queen for each side.
	NonKingPieceTypes = 10
	// PieceSquares is the number of squares a non-king piece feature spans.
	PieceSquares = 64
	// perKingBlock is the feature-index span reserved per king bucket: a
	// +1 offset (index 0 of the block is never set) followed by the full
	// piece-type x piece-square grid.
	perKingBlock = 1 + NonKingPieceTypes*PieceSquares // 641

	// InputDimensions is the total HalfKP feature count per perspective.
	InputDimensions = KingBuckets * perKingBlock // 41024

	// HalfDimensions is the accumulator width per perspective.
	HalfDimensions = 256
	// L2Size and L3Size are the two hidden affine layers' widths.
	L2Size = 32
	L3Size = 32

	weightScaleBits = 6
	outputScale     = 0.0301
)

func clampedReLU(x int32) uint8 {
	if x < 0 {
		return 0
	}
	if x > 127 {
		return 127
	}
	return uint8(x)
}

// Evaluator ties a loaded Network to a per-search-stack accumulator and
// exposes the Evaluate/Push/Pop/Refresh/Update contract the search package
// drives across make/unmake.
type Evaluator struct {
	net   *Network
	stack *AccumulatorStack
}

// NewEvaluator loads weights from path. An empty path is rejected: unlike
// the static evaluator, NNUE has no meaningful zero-weight fallback, so
// callers that want one should catch the IOError and use internal/eval
// instead, per the engine's error-handling policy for optional NNUE.
func NewEvaluator(path string) (*Evaluator, error) {
	net, err := LoadNetwork(path)
	if err != nil {
		return nil, err
	}
	return &Evaluator{net: net, stack: NewAccumulatorStack()}, nil
}

// Evaluate returns the position's score in centipawns from the side to
// move's perspective.
func (e *Evaluator) Evaluate(pos *chess.Position) int {
	acc := e.stack.Current()
	if !acc.Computed {
		acc.ComputeFull(pos, e.net)
	}
	return e.net.Forward(acc, pos.Turn.Active)
}

// Push duplicates the current accumulator onto the stack; call before
// MakeMove so Update can mutate the new top in place.
func (e *Evaluator) Push() { e.stack.Push() }

// Pop discards the top accumulator; call after UnmakeMove.
func (e *Evaluator) Pop() { e.stack.Pop() }

// Refresh forces a full feature recomputation, required after a king move
// since every HalfKP feature for that perspective depends on king square.
func (e *Evaluator) Refresh(pos *chess.Position) {
	e.stack.Current().ComputeFull(pos, e.net)
}

// Update incrementally adjusts the current accumulator for a move already
// applied to pos, falling back to a full recompute on king moves.
func (e *Evaluator) Update(pos *chess.Position, m chess.Move, captured chess.Piece) {
	e.stack.Current().UpdateIncremental(pos, m, captured, e.net)
}

// Reset clears the accumulator stack for a new game.
func (e *Evaluator) Reset() { e.stack.Reset() }
