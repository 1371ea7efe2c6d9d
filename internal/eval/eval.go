// Package eval implements the static position evaluator: tapered
// piece-square-table scoring, mobility, pawn structure, king safety, Static
// Exchange Evaluation, and mate-score encoding.
package eval

import (
	"github.com/kestrelchess/engine/internal/chess"
)

// MateScore is the score assigned to a checkmate at ply 0; search adjusts it
// by ply distance so that shorter mates always outscore longer ones.
const MateScore = 29000

// MaxPly bounds search depth and the mate-score ply adjustment window.
const MaxPly = 128

// IsMateScore reports whether score represents a forced mate (for either
// side) rather than a material/positional evaluation.
func IsMateScore(score int) bool {
	return score > MateScore-MaxPly || score < -MateScore+MaxPly
}

const tempoBonus = 10

// tapered phase weights per piece type; maxPhase is reached at the starting
// position's full complement of minors/rooks/queens.
var phaseWeight = [6]int{0, 1, 1, 2, 4, 0}

const maxPhase = 24

// Piece-square tables, White's perspective (rank 1 is the first row listed,
// index 0 = a1). Black values are looked up via Square.Mirror().
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 5, 5, 0, 0, 0,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	5, 10, 10, 10, 10, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-10, 5, 5, 5, 5, 5, 0, -10,
	0, 0, 5, 5, 5, 5, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMidgamePST = [64]int{
	20, 30, 10, 0, 0, 10, 30, 20,
	20, 20, 0, 0, 0, 0, 20, 20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
}

var kingEndgamePST = [64]int{
	-50, -30, -30, -30, -30, -30, -30, -50,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-50, -40, -30, -20, -20, -30, -40, -50,
}

var pstByType = [6]*[64]int{&pawnPST, &knightPST, &bishopPST, &rookPST, &queenPST, nil}

// Evaluate returns the score of pos in centipawns from the side-to-move's
// perspective: positive favors the side to move.
func Evaluate(pos *chess.Position) int {
	var mg, eg, phase int

	for c := chess.White; c <= chess.Black; c++ {
		sign := 1
		if c == chess.Black {
			sign = -1
		}
		for pt := chess.Pawn; pt <= chess.King; pt++ {
			bb := pos.Board.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				mg += sign * chess.PieceValue[pt]
				eg += sign * chess.PieceValue[pt]

				pstSq := sq
				if c == chess.Black {
					pstSq = sq.Mirror()
				}
				if pt == chess.King {
					mg += sign * kingMidgamePST[pstSq]
					eg += sign * kingEndgamePST[pstSq]
				} else {
					v := pstByType[pt][pstSq]
					mg += sign * v
					eg += sign * v
				}
				phase += phaseWeight[pt]
			}
		}
	}

	mobMg, mobEg := evaluateMobility(pos)
	mg += mobMg
	eg += mobEg

	bpMg, bpEg := evaluateBishopPair(pos)
	mg += bpMg
	eg += bpEg

	rfMg, rfEg := evaluateRooksOnOpenFiles(pos)
	mg += rfMg
	eg += rfEg

	ppMg, ppEg := evaluatePassedPawns(pos)
	mg += ppMg
	eg += ppEg

	mg += evaluateKingSafety(pos)

	if phase > maxPhase {
		phase = maxPhase
	}
	score := (mg*phase + eg*(maxPhase-phase)) / maxPhase
	score += tempoBonus

	if pos.Turn.Active == chess.Black {
		return -score
	}
	return score
}

// EvaluateMaterial returns material balance only (White-positive).
func EvaluateMaterial(pos *chess.Position) int { return pos.Material() }

// IsEndgame reports whether pos has dropped to or below the queen+rook
// phase threshold: a binary rather than tapered endgame signal.
func IsEndgame(pos *chess.Position) bool {
	phase := 0
	for c := chess.White; c <= chess.Black; c++ {
		for pt := chess.Knight; pt <= chess.Queen; pt++ {
			phase += pos.Board.Pieces[c][pt].PopCount() * phaseWeight[pt]
		}
	}
	return phase <= 6
}
