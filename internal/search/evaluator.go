package search

import (
	"github.com/kestrelchess/engine/internal/chess"
	"github.com/kestrelchess/engine/internal/eval"
)

// PositionEvaluator scores positions for the side to move. Evaluators with
// per-ply state (NNUE's incremental accumulator) track the search's
// make/unmake traversal through Push/Pop/Update; stateless evaluators
// (the tapered static evaluator) implement these as no-ops.
type PositionEvaluator interface {
	Evaluate(pos *chess.Position) int
	Push()
	Pop()
	Update(pos *chess.Position, m chess.Move, captured chess.Piece)
	Reset()
}

// staticEvaluator adapts internal/eval's stateless tapered evaluator to
// PositionEvaluator.
type staticEvaluator struct{}

func (staticEvaluator) Evaluate(pos *chess.Position) int                { return eval.Evaluate(pos) }
func (staticEvaluator) Push()                                           {}
func (staticEvaluator) Pop()                                            {}
func (staticEvaluator) Update(*chess.Position, chess.Move, chess.Piece) {}
func (staticEvaluator) Reset()                                          {}
