package eval

import "github.com/kestrelchess/engine/internal/chess"

// SEE (Static Exchange Evaluation) estimates the net material gain of the
// capture sequence on m.To(), simulating alternating least-valuable-attacker
// recaptures until one side has nothing left to gain from continuing.
func SEE(pos *chess.Position, m chess.Move) int {
	from, to, kind := m.From(), m.To(), m.Kind()
	attacker := pos.Board.PieceAt(from)
	if attacker == chess.NoPiece {
		return 0
	}

	var gain int
	if kind == chess.EnPassant {
		gain = chess.PieceValue[chess.Pawn]
	} else {
		victim := pos.Board.PieceAt(to)
		if victim == chess.NoPiece {
			return 0
		}
		gain = chess.PieceValue[victim.Type()]
	}
	if kind.IsPromotion() {
		gain += chess.PieceValue[kind.PromotedType()] - chess.PieceValue[chess.Pawn]
	}

	return seeSwap(pos, to, from, attacker, gain)
}

func seeSwap(pos *chess.Position, target, excludeFrom chess.Square, firstAttacker chess.Piece, initialGain int) int {
	var gains [32]int
	d := 0
	gains[d] = initialGain

	occupied := pos.Board.AllOccupied &^ chess.SquareBB(excludeFrom)
	attackerValue := chess.PieceValue[firstAttacker.Type()]
	side := firstAttacker.Color().Other()

	for {
		d++
		gains[d] = attackerValue - gains[d-1]
		if maxInt(-gains[d-1], gains[d]) < 0 {
			break
		}

		sq, piece := leastValuableAttacker(pos, target, side, occupied)
		if sq == chess.NoSquare {
			break
		}
		occupied &^= chess.SquareBB(sq)
		attackerValue = chess.PieceValue[piece.Type()]
		side = side.Other()
	}

	for d--; d > 0; d-- {
		gains[d-1] = -maxInt(-gains[d-1], gains[d])
	}
	return gains[0]
}

// leastValuableAttacker finds the cheapest side-colored piece attacking
// target given occupied, in ascending value order (pawn first, king last).
func leastValuableAttacker(pos *chess.Position, target chess.Square, side chess.Color, occupied chess.SquareSet) (chess.Square, chess.Piece) {
	b := &pos.Board

	if attackers := b.Pieces[side][chess.Pawn] & chess.PawnAttacks(target, side.Other()) & occupied; attackers != 0 {
		return attackers.LSB(), chess.NewPiece(chess.Pawn, side)
	}
	if attackers := b.Pieces[side][chess.Knight] & chess.KnightAttacks(target) & occupied; attackers != 0 {
		return attackers.LSB(), chess.NewPiece(chess.Knight, side)
	}
	bishopAttacks := chess.BishopAttacks(target, occupied)
	if attackers := b.Pieces[side][chess.Bishop] & bishopAttacks & occupied; attackers != 0 {
		return attackers.LSB(), chess.NewPiece(chess.Bishop, side)
	}
	rookAttacks := chess.RookAttacks(target, occupied)
	if attackers := b.Pieces[side][chess.Rook] & rookAttacks & occupied; attackers != 0 {
		return attackers.LSB(), chess.NewPiece(chess.Rook, side)
	}
	if attackers := b.Pieces[side][chess.Queen] & (bishopAttacks | rookAttacks) & occupied; attackers != 0 {
		return attackers.LSB(), chess.NewPiece(chess.Queen, side)
	}
	if attackers := b.Pieces[side][chess.King] & chess.KingAttacks(target) & occupied; attackers != 0 {
		return attackers.LSB(), chess.NewPiece(chess.King, side)
	}
	return chess.NoSquare, chess.NoPiece
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
