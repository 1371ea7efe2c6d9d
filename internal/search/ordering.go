package search

import (
	"github.com/kestrelchess/engine/internal/chess"
	"github.com/kestrelchess/engine/internal/eval"
)

const (
	ttMoveScore    = 10_000_000
	goodCaptureBase = 1_000_000
	killerScore1   = 900_000
	killerScore2   = 800_000
)

// mvvLva scores victim-over-attacker priority: [victim][attacker], higher
// searched first. Kings never appear as victims.
var mvvLva = [6][6]int{
	/* P */ {15, 14, 14, 13, 12, 11},
	/* N */ {25, 24, 24, 23, 22, 21},
	/* B */ {35, 34, 34, 33, 32, 31},
	/* R */ {45, 44, 44, 43, 42, 41},
	/* Q */ {55, 54, 54, 53, 52, 51},
	/* K */ {0, 0, 0, 0, 0, 0},
}

// MoveOrderer holds the per-search killer table and the persistent
// history heuristic, indexed [side][from][to].
type MoveOrderer struct {
	killers [eval.MaxPly][2]chess.Move
	history [2][64][64]int
}

// NewMoveOrderer returns an orderer with empty killers and history.
func NewMoveOrderer() *MoveOrderer {
	mo := &MoveOrderer{}
	mo.clearKillers()
	return mo
}

func (mo *MoveOrderer) clearKillers() {
	for i := range mo.killers {
		mo.killers[i][0] = chess.NoMove
		mo.killers[i][1] = chess.NoMove
	}
}

// NewSearch clears killers (ply-scoped, stale across searches) but keeps
// history, aged by halving so older games stop dominating.
func (mo *MoveOrderer) NewSearch() {
	mo.clearKillers()
	for s := range mo.history {
		for f := range mo.history[s] {
			for t := range mo.history[s][f] {
				mo.history[s][f][t] /= 2
			}
		}
	}
}

// ClearHistory wipes the history table entirely, for UCI's "ucinewgame".
func (mo *MoveOrderer) ClearHistory() {
	mo.history = [2][64][64]int{}
}

// scoreMove returns the ordering score for one move, following the
// precedence TT move > winning/losing captures (MVV-LVA) > promotions >
// killers > history.
func (mo *MoveOrderer) scoreMove(pos *chess.Position, m chess.Move, ply int, ttMove chess.Move) int {
	if m == ttMove {
		return ttMoveScore
	}

	kind := m.Kind()
	if kind.IsCapture() {
		attacker := pos.Board.PieceAt(m.From())
		var victim chess.PieceType
		if kind == chess.EnPassant {
			victim = chess.Pawn
		} else {
			victim = pos.Board.PieceAt(m.To()).Type()
		}
		return goodCaptureBase + mvvLva[victim][attacker.Type()]*1000
	}
	if kind.IsPromotion() {
		return goodCaptureBase - 1000 + int(kind.PromotedType())*100
	}

	if m == mo.killers[ply][0] {
		return killerScore1
	}
	if m == mo.killers[ply][1] {
		return killerScore2
	}

	side := pos.Turn.Active
	return mo.history[side][m.From()][m.To()]
}

// scoreMoves scores every move in ml for ordering at ply, given the
// transposition table's suggested move.
func (mo *MoveOrderer) scoreMoves(pos *chess.Position, ml *chess.MoveList, ply int, ttMove chess.Move) []int {
	scores := make([]int, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		scores[i] = mo.scoreMove(pos, ml.Get(i), ply, ttMove)
	}
	return scores
}

// pickMove selects the highest-scoring move from index onward and swaps it
// into place, so callers can lazily sort only as far as the search needs.
func pickMove(ml *chess.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < ml.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		ml.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// updateKillers records m as a new killer at ply, shifting the previous
// first killer into the second slot. Duplicates of the existing first
// killer are not re-stored.
func (mo *MoveOrderer) updateKillers(m chess.Move, ply int) {
	if ply >= eval.MaxPly || mo.killers[ply][0] == m {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// updateHistory applies the depthLeft² bonus on a beta-cutoff quiet move.
func (mo *MoveOrderer) updateHistory(side chess.Color, m chess.Move, depthLeft int) {
	bonus := depthLeft * depthLeft
	h := &mo.history[side][m.From()][m.To()]
	*h += bonus
	if *h > 400_000 {
		for f := range mo.history[side] {
			for t := range mo.history[side][f] {
				mo.history[side][f][t] /= 2
			}
		}
	}
}
