package eval

import "github.com/kestrelchess/engine/internal/chess"

var mobilityMgWeight = [6]int{0, 4, 5, 2, 1, 0}
var mobilityEgWeight = [6]int{0, 3, 4, 4, 2, 0}

// evaluateMobility scores the number of squares each piece attacks that
// aren't occupied by a friendly piece, weighted by piece type and phase.
func evaluateMobility(pos *chess.Position) (mg, eg int) {
	occupied := pos.Board.AllOccupied
	for c := chess.White; c <= chess.Black; c++ {
		sign := 1
		if c == chess.Black {
			sign = -1
		}
		own := pos.Board.Occupied[c]

		for _, pt := range [4]chess.PieceType{chess.Knight, chess.Bishop, chess.Rook, chess.Queen} {
			pieces := pos.Board.Pieces[c][pt]
			for pieces != 0 {
				sq := pieces.PopLSB()
				var attacks chess.SquareSet
				switch pt {
				case chess.Knight:
					attacks = chess.KnightAttacks(sq)
				case chess.Bishop:
					attacks = chess.BishopAttacks(sq, occupied)
				case chess.Rook:
					attacks = chess.RookAttacks(sq, occupied)
				case chess.Queen:
					attacks = chess.QueenAttacks(sq, occupied)
				}
				count := (attacks &^ own).PopCount()
				mg += sign * count * mobilityMgWeight[pt]
				eg += sign * count * mobilityEgWeight[pt]
			}
		}
	}
	return mg, eg
}

const bishopPairMg = 25
const bishopPairEg = 50

func evaluateBishopPair(pos *chess.Position) (mg, eg int) {
	if pos.Board.Pieces[chess.White][chess.Bishop].PopCount() >= 2 {
		mg += bishopPairMg
		eg += bishopPairEg
	}
	if pos.Board.Pieces[chess.Black][chess.Bishop].PopCount() >= 2 {
		mg -= bishopPairMg
		eg -= bishopPairEg
	}
	return mg, eg
}

const rookOpenFileMg, rookOpenFileEg = 20, 25
const rookSemiOpenFileMg, rookSemiOpenFileEg = 10, 15

func evaluateRooksOnOpenFiles(pos *chess.Position) (mg, eg int) {
	allPawns := pos.Board.Pieces[chess.White][chess.Pawn] | pos.Board.Pieces[chess.Black][chess.Pawn]
	for c := chess.White; c <= chess.Black; c++ {
		sign := 1
		if c == chess.Black {
			sign = -1
		}
		ownPawns := pos.Board.Pieces[c][chess.Pawn]
		rooks := pos.Board.Pieces[c][chess.Rook]
		for rooks != 0 {
			sq := rooks.PopLSB()
			file := chess.FileSet(sq.File())
			switch {
			case allPawns&file == 0:
				mg += sign * rookOpenFileMg
				eg += sign * rookOpenFileEg
			case ownPawns&file == 0:
				mg += sign * rookSemiOpenFileMg
				eg += sign * rookSemiOpenFileEg
			}
		}
	}
	return mg, eg
}

// passedPawnBonus is indexed by the pawn's 0-based rank from its own side:
// index 1 is rank 2 (the starting rank), index 6 is rank 7 (one step from
// promoting); a pawn never stands on index 0 or 7.
var passedPawnBonus = [8]int{0, 10, 20, 40, 70, 120, 200, 0}

func evaluatePassedPawns(pos *chess.Position) (mg, eg int) {
	for c := chess.White; c <= chess.Black; c++ {
		sign := 1
		if c == chess.Black {
			sign = -1
		}
		them := c.Other()
		pawns := pos.Board.Pieces[c][chess.Pawn]
		enemyPawns := pos.Board.Pieces[them][chess.Pawn]
		for pawns != 0 {
			sq := pawns.PopLSB()
			if !isPassed(sq, c, enemyPawns) {
				continue
			}
			rank := sq.Rank()
			if c == chess.Black {
				rank = 7 - rank
			}
			bonus := passedPawnBonus[rank]
			mg += sign * bonus / 2
			eg += sign * bonus
		}
	}
	return mg, eg
}

// isPassed reports whether a pawn of color c on sq has no enemy pawns
// ahead of it on its own file or the adjacent files.
func isPassed(sq chess.Square, c chess.Color, enemyPawns chess.SquareSet) bool {
	file := sq.File()
	var files chess.SquareSet
	files |= chess.FileSet(file)
	if file > 0 {
		files |= chess.FileSet(file - 1)
	}
	if file < 7 {
		files |= chess.FileSet(file + 1)
	}

	var ahead chess.SquareSet
	if c == chess.White {
		for r := sq.Rank() + 1; r < 8; r++ {
			ahead |= chess.RankSet(r)
		}
	} else {
		for r := sq.Rank() - 1; r >= 0; r-- {
			ahead |= chess.RankSet(r)
		}
	}
	return enemyPawns&files&ahead == 0
}

const (
	pawnShieldBonus   = 10
	pawnShieldMissing = -15
)

// evaluateKingSafety scores pawn-shield integrity in front of each king;
// middlegame-only since the term fades in relevance as pieces come off.
func evaluateKingSafety(pos *chess.Position) int {
	score := 0
	for c := chess.White; c <= chess.Black; c++ {
		sign := 1
		if c == chess.Black {
			sign = -1
		}
		ksq := pos.Board.KingSquare[c]
		file := ksq.File()
		rank := ksq.Rank()
		shieldRank := rank + 1
		if c == chess.Black {
			shieldRank = rank - 1
		}
		if shieldRank < 0 || shieldRank > 7 {
			continue
		}
		pawns := pos.Board.Pieces[c][chess.Pawn]
		for df := -1; df <= 1; df++ {
			f := file + df
			if f < 0 || f > 7 {
				continue
			}
			if pawns&chess.SquareBB(chess.NewSquare(f, shieldRank)) != 0 {
				score += sign * pawnShieldBonus
			} else {
				score += sign * pawnShieldMissing
			}
		}
	}
	return score
}
