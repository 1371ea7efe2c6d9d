package search

import (
	"sync/atomic"

	"github.com/kestrelchess/engine/internal/chess"
	"github.com/kestrelchess/engine/internal/eval"
)

// Infinity bounds the negamax window; kept comfortably above MateScore so a
// forced mate never overflows it.
const Infinity = 30000

const (
	nullMoveMinDepth   = 3
	nullMoveReduction  = 2
	lmrMinDepth        = 3
	lmrMinMoveIndex    = 3
	quiescenceMaxDepth = 5
	forcedMoveHalfmove = 50
)

// PVTable stores the triangular principal-variation array built up during
// negamax.
type PVTable struct {
	length [eval.MaxPly]int
	moves  [eval.MaxPly][eval.MaxPly]chess.Move
}

// Info is reported to the caller's callback once per completed iterative
// deepening depth; nothing is reported while a depth is still in progress.
type Info struct {
	Depth int
	Score int
	Nodes uint64
	PV    []chess.Move
}

// InfoCallback is invoked as the search progresses; returning true requests
// an immediate stop.
type InfoCallback func(Info) (stop bool)

// PrincipalVariation is what ComputeBestMove returns: the best line found
// and its score, from the root side-to-move's perspective.
type PrincipalVariation struct {
	Moves []chess.Move
	Score int
}

// Searcher performs iterative-deepening alpha-beta search over a position,
// reusing a transposition table and move-ordering tables across searches.
type Searcher struct {
	pos     *chess.Position
	tt      *TranspositionTable
	orderer *MoveOrderer
	history chess.History

	nodes    uint64
	stopFlag atomic.Bool
	tm       TimeManager
	useClock bool

	pv PVTable

	undoStack [eval.MaxPly]chess.UndoInfo

	evaluator PositionEvaluator
}

// NewSearcher returns a Searcher backed by tt, with fresh move-ordering
// tables and the static evaluator. Use SetEvaluator to switch to NNUE.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{tt: tt, orderer: NewMoveOrderer(), evaluator: staticEvaluator{}}
}

// SetEvaluator swaps in a different position evaluator (e.g. a loaded
// NNUE network). Passing nil restores the static evaluator.
func (s *Searcher) SetEvaluator(e PositionEvaluator) {
	if e == nil {
		e = staticEvaluator{}
	}
	s.evaluator = e
}

// Stop requests the in-progress search halt as soon as it next checks.
func (s *Searcher) Stop() { s.stopFlag.Store(true) }

// Nodes reports the number of nodes visited by the most recent search.
func (s *Searcher) Nodes() uint64 { return s.nodes }

// NewGame resets persistent move-ordering state, for UCI's "ucinewgame".
func (s *Searcher) NewGame() {
	s.orderer.ClearHistory()
	s.tt.Clear()
	s.evaluator.Reset()
}

// ComputeBestMove runs iterative deepening from pos up to limits.Depth (or
// until limits' time budget expires), seeding repetition history from
// gameHashes (every position hash seen so far in the game, including pos
// itself), and reports progress through infoFn. It always returns the best
// line found at the last fully completed depth.
func (s *Searcher) ComputeBestMove(pos *chess.Position, limits Limits, gameHashes []uint64, infoFn InfoCallback) PrincipalVariation {
	s.pos = pos.Copy()
	s.nodes = 0
	s.stopFlag.Store(false)
	s.orderer.NewSearch()
	s.tt.NewGeneration()
	s.history.Seed(gameHashes)

	s.useClock = limits.MoveTime > 0 || limits.WTime > 0 || limits.BTime > 0 || limits.Infinite
	if s.useClock {
		s.tm.Init(limits, s.pos.Turn.Active == chess.White, s.pos.Turn.FullmoveNumber)
	}

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > eval.MaxPly-1 {
		maxDepth = eval.MaxPly - 1
	}

	var best PrincipalVariation
	score := 0

	for depth := 1; depth <= maxDepth; depth++ {
		var iterScore int
		if depth >= 2 {
			iterScore = s.searchWithAspiration(depth, score)
		} else {
			iterScore = s.negamax(depth, 0, -Infinity, Infinity, true)
		}

		if s.stopFlag.Load() {
			break
		}

		score = iterScore
		pv := s.extractPV()
		if len(pv) > 0 {
			best = PrincipalVariation{Moves: pv, Score: score}
		}

		if infoFn != nil {
			if infoFn(Info{Depth: depth, Score: score, Nodes: s.nodes, PV: pv}) {
				break
			}
		}

		if s.useClock && s.tm.PastOptimum() {
			break
		}
		if eval.IsMateScore(score) {
			break
		}
	}

	return best
}

// searchWithAspiration searches depth with a window centered on the
// previous iteration's score, widening in two steps before falling back to
// a full [-Infinity, Infinity] window.
func (s *Searcher) searchWithAspiration(depth, prevScore int) int {
	const window1, window2 = 25, 100

	alpha, beta := prevScore-window1, prevScore+window1
	for attempt := 0; attempt < 3; attempt++ {
		score := s.negamax(depth, 0, alpha, beta, true)
		if s.stopFlag.Load() {
			return score
		}
		if score <= alpha {
			alpha -= window2
			if attempt == 2 {
				alpha = -Infinity
			}
			continue
		}
		if score >= beta {
			beta += window2
			if attempt == 2 {
				beta = Infinity
			}
			continue
		}
		return score
	}
	return s.negamax(depth, 0, -Infinity, Infinity, true)
}

func (s *Searcher) extractPV() []chess.Move {
	pv := make([]chess.Move, s.pv.length[0])
	copy(pv, s.pv.moves[0][:s.pv.length[0]])
	return pv
}

// negamax performs fail-soft alpha-beta search of the current s.pos,
// isPV indicating whether this node is on the principal variation (disables
// null-move pruning, per the usual convention that PV nodes are never
// pruned on a mere null-window guess).
func (s *Searcher) negamax(depth, ply, alpha, beta int, isPV bool) int {
	if s.nodes&2047 == 0 {
		if s.stopFlag.Load() || (s.useClock && s.tm.PastMaximum()) {
			s.stopFlag.Store(true)
			return 0
		}
	}
	s.nodes++
	s.pv.length[ply] = ply

	// The parent has already tracked this node's hash, so a count of three
	// includes the current occurrence.
	if ply > 0 {
		if s.pos.Turn.HalfmoveClock >= 100 || s.pos.IsInsufficientMaterial() || s.history.Count(s.pos.Hash) >= 3 {
			return 0
		}
	}

	if depth <= 0 {
		return s.quiescence(ply, 0, alpha, beta)
	}

	var ttMove chess.Move = chess.NoMove
	ttRes := s.tt.Probe(s.pos.Hash)
	if ttRes.found {
		ttMove = ttRes.move
		if ttRes.depth >= depth && !isPV {
			score := adjustScoreFromTT(ttRes.score, ply)
			switch ttRes.bound {
			case BoundExact:
				return score
			case BoundLower:
				if score > alpha {
					alpha = score
				}
			case BoundUpper:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	inCheck := s.pos.InCheck()

	// Null-move pruning: skip our move entirely and see if the opponent is
	// still in trouble even with a free tempo. Unsafe in check, near mate
	// scores, at PV nodes, or with only pawns and a king left (zugzwang).
	if !isPV && !inCheck && depth >= nullMoveMinDepth && beta < Infinity-eval.MaxPly &&
		s.pos.HasNonPawnMaterial() {
		s.evaluator.Push()
		undo := s.pos.MakeNullMove()
		guard := s.history.Track(s.pos.Hash)
		score := -s.negamax(depth-1-nullMoveReduction, ply+1, -beta, -beta+1, false)
		guard.Release()
		s.pos.UnmakeNullMove(undo)
		s.evaluator.Pop()

		if s.stopFlag.Load() {
			return 0
		}
		if score >= beta {
			return beta
		}
	}

	moves := s.pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if inCheck {
			return -eval.MateScore + ply
		}
		return 0
	}

	// A forced reply (the only legal move) is extended by a ply, so a
	// series of only-moves doesn't starve the search of the position it
	// actually needs to resolve.
	if moves.Len() == 1 && s.pos.Turn.HalfmoveClock < forcedMoveHalfmove {
		depth++
	}

	scores := s.orderer.scoreMoves(s.pos, moves, ply, ttMove)

	bestScore := -Infinity
	bestMove := chess.NoMove
	bound := BoundUpper
	movesSearched := 0

	for i := 0; i < moves.Len(); i++ {
		pickMove(moves, scores, i)
		move := moves.Get(i)
		isQuiet := !move.IsCapture() && !move.IsPromotion()

		captured := s.capturedPiece(move)
		s.evaluator.Push()
		s.undoStack[ply] = s.pos.MakeMove(move)
		s.evaluator.Update(s.pos, move, captured)
		guard := s.history.Track(s.pos.Hash)
		movesSearched++

		var score int
		if movesSearched == 1 {
			score = -s.negamax(depth-1, ply+1, -beta, -alpha, isPV)
		} else {
			// Late move reduction: when not in check, search quiet later
			// moves at reduced depth first, and only pay for a full-depth
			// re-search if the reduced search suggests it might beat alpha.
			reduced := depth - 1
			if isQuiet && !inCheck && depth >= lmrMinDepth && movesSearched > lmrMinMoveIndex {
				reduced--
			}

			score = -s.negamax(reduced, ply+1, -alpha-1, -alpha, false)
			if score > alpha && (reduced < depth-1 || score < beta) {
				score = -s.negamax(depth-1, ply+1, -beta, -alpha, false)
			}
		}

		guard.Release()
		s.pos.UnmakeMove(move, s.undoStack[ply])
		s.evaluator.Pop()

		if s.stopFlag.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move

			if score > alpha {
				alpha = score
				bound = BoundExact

				s.pv.moves[ply][ply] = move
				copy(s.pv.moves[ply][ply+1:s.pv.length[ply+1]], s.pv.moves[ply+1][ply+1:s.pv.length[ply+1]])
				s.pv.length[ply] = s.pv.length[ply+1]
			}
		}

		if alpha >= beta {
			if isQuiet {
				s.orderer.updateKillers(move, ply)
				s.orderer.updateHistory(s.pos.Turn.Active.Other(), move, depth)
			}
			bound = BoundLower
			break
		}
	}

	s.tt.Store(s.pos.Hash, depth, adjustScoreToTT(bestScore, ply), bound, bestMove)
	return bestScore
}

// capturedPiece returns the piece move removes from the board, for the
// evaluator's incremental update, before move is applied to s.pos.
func (s *Searcher) capturedPiece(move chess.Move) chess.Piece {
	if move.Kind() == chess.EnPassant {
		return chess.NewPiece(chess.Pawn, s.pos.Turn.Active.Other())
	}
	if !move.IsCapture() {
		return chess.NoPiece
	}
	return s.pos.Board.PieceAt(move.To())
}

// quiescence extends the search along capture/promotion/check-evasion lines
// only, to avoid misjudging a position mid-exchange. qdepth counts plies
// from quiescence's own entry point (independent of ply, which keeps
// tracking root distance for the PV table, killers, and mate scoring) and
// is capped at quiescenceMaxDepth so a capture chase can't run away.
func (s *Searcher) quiescence(ply, qdepth, alpha, beta int) int {
	if s.nodes&2047 == 0 && s.stopFlag.Load() {
		return 0
	}
	s.nodes++

	if ply >= eval.MaxPly || qdepth >= quiescenceMaxDepth {
		return s.evaluator.Evaluate(s.pos)
	}

	inCheck := s.pos.InCheck()
	var standPat int
	if !inCheck {
		standPat = s.evaluator.Evaluate(s.pos)
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var moves *chess.MoveList
	if inCheck {
		moves = s.pos.GenerateLegalMoves()
		if moves.Len() == 0 {
			return -eval.MateScore + ply
		}
	} else {
		moves = s.pos.GenerateLegalCaptures()
	}

	scores := s.orderer.scoreMoves(s.pos, moves, ply, chess.NoMove)

	for i := 0; i < moves.Len(); i++ {
		pickMove(moves, scores, i)
		move := moves.Get(i)

		if !inCheck && !move.IsCapture() && !move.IsPromotion() {
			continue
		}

		// Delta pruning: a capture that can't plausibly close the gap to
		// alpha even with a generous margin isn't worth searching.
		if !inCheck {
			captured := s.captureValue(move)
			if standPat+captured+200 < alpha {
				continue
			}
		}

		captured := s.capturedPiece(move)
		s.evaluator.Push()
		undo := s.pos.MakeMove(move)
		s.evaluator.Update(s.pos, move, captured)
		guard := s.history.Track(s.pos.Hash)
		score := -s.quiescence(ply+1, qdepth+1, -beta, -alpha)
		guard.Release()
		s.pos.UnmakeMove(move, undo)
		s.evaluator.Pop()

		if s.stopFlag.Load() {
			return 0
		}

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

func (s *Searcher) captureValue(m chess.Move) int {
	var v int
	if m.Kind() == chess.EnPassant {
		v = chess.PieceValue[chess.Pawn]
	} else {
		v = s.pos.Board.PieceAt(m.To()).Value()
	}
	if m.IsPromotion() {
		v += chess.PieceValue[m.Kind().PromotedType()] - chess.PieceValue[chess.Pawn]
	}
	return v
}
