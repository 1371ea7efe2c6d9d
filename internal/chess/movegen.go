package chess

// generatePseudoLegal appends every pseudo-legal move (may leave the king in
// check) to ml.
func (p *Position) generatePseudoLegal(ml *MoveList) {
	us := p.Turn.Active
	occupied := p.Board.AllOccupied
	own := p.Board.Occupied[us]
	enemies := p.Board.Occupied[us.Other()]

	p.generatePawnMoves(ml, us, enemies, occupied)

	knights := p.Board.Pieces[us][Knight]
	for knights != 0 {
		from := knights.PopLSB()
		addAttacks(ml, from, KnightAttacks(from)&^own, enemies)
	}
	bishops := p.Board.Pieces[us][Bishop]
	for bishops != 0 {
		from := bishops.PopLSB()
		addAttacks(ml, from, BishopAttacks(from, occupied)&^own, enemies)
	}
	rooks := p.Board.Pieces[us][Rook]
	for rooks != 0 {
		from := rooks.PopLSB()
		addAttacks(ml, from, RookAttacks(from, occupied)&^own, enemies)
	}
	queens := p.Board.Pieces[us][Queen]
	for queens != 0 {
		from := queens.PopLSB()
		addAttacks(ml, from, QueenAttacks(from, occupied)&^own, enemies)
	}

	ksq := p.Board.KingSquare[us]
	addAttacks(ml, ksq, KingAttacks(ksq)&^own, enemies)
	p.generateCastlingMoves(ml, us)
}

// addAttacks emits quiet/capture moves from from to every square in dests.
func addAttacks(ml *MoveList, from Square, dests, enemies SquareSet) {
	for dests != 0 {
		to := dests.PopLSB()
		kind := QuietMove
		if enemies&SquareBB(to) != 0 {
			kind = Capture
		}
		ml.Add(NewMove(from, to, kind))
	}
}

func (p *Position) generatePawnMoves(ml *MoveList, us Color, enemies, occupied SquareSet) {
	pawns := p.Board.Pieces[us][Pawn]
	empty := occupied.Complement()

	var push1, push2, attackL, attackR SquareSet
	var promotionRank SquareSet
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & RankMask[2]).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = RankMask[7]
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & RankMask[5]).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = RankMask[0]
		pushDir = -8
	}

	nonPromo := push1 &^ promotionRank
	for nonPromo != 0 {
		to := nonPromo.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir), to, QuietMove))
	}
	for push2 != 0 {
		to := push2.PopLSB()
		ml.Add(NewMove(Square(int(to)-2*pushDir), to, DoublePush))
	}

	nonPromoL := attackL &^ promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir+1), to, Capture))
	}
	nonPromoR := attackR &^ promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir-1), to, Capture))
	}

	promoPush := push1 & promotionRank
	for promoPush != 0 {
		to := promoPush.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir), to, false)
	}
	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir+1), to, true)
	}
	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir-1), to, true)
	}

	if p.Turn.EnPassant != NoSquare {
		epBB := SquareBB(p.Turn.EnPassant)
		var epAttackers SquareSet
		if us == White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
		}
		for epAttackers != 0 {
			from := epAttackers.PopLSB()
			ml.Add(NewMove(from, p.Turn.EnPassant, EnPassant))
		}
	}
}

func addPromotions(ml *MoveList, from, to Square, capture bool) {
	base := KnightPromotion
	if capture {
		base = KnightPromoCapture
	}
	ml.Add(NewMove(from, to, base+3)) // queen
	ml.Add(NewMove(from, to, base+2)) // rook
	ml.Add(NewMove(from, to, base+1)) // bishop
	ml.Add(NewMove(from, to, base))   // knight
}

func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()
	rank := 0
	if us == Black {
		rank = 7
	}
	ksq := NewSquare(4, rank)
	if p.Board.KingSquare[us] != ksq {
		return
	}

	kingSideMask := p.Turn.Castling&WhiteOO != 0
	queenSideMask := p.Turn.Castling&WhiteOOO != 0
	if us == Black {
		kingSideMask = p.Turn.Castling&BlackOO != 0
		queenSideMask = p.Turn.Castling&BlackOOO != 0
	}

	f, g := NewSquare(5, rank), NewSquare(6, rank)
	if kingSideMask && p.Board.AllOccupied&(SquareBB(f)|SquareBB(g)) == 0 &&
		!p.Board.IsAttacked(ksq, them) && !p.Board.IsAttacked(f, them) && !p.Board.IsAttacked(g, them) {
		ml.Add(NewMove(ksq, g, OO))
	}

	b, c, d := NewSquare(1, rank), NewSquare(2, rank), NewSquare(3, rank)
	if queenSideMask && p.Board.AllOccupied&(SquareBB(b)|SquareBB(c)|SquareBB(d)) == 0 &&
		!p.Board.IsAttacked(ksq, them) && !p.Board.IsAttacked(d, them) && !p.Board.IsAttacked(c, them) {
		ml.Add(NewMove(ksq, c, OOO))
	}
}

// generatePseudoLegalCaptures appends captures and promotions only (used by
// quiescence search).
func (p *Position) generatePseudoLegalCaptures(ml *MoveList) {
	us := p.Turn.Active
	occupied := p.Board.AllOccupied
	enemies := p.Board.Occupied[us.Other()]

	full := &MoveList{}
	p.generatePawnMoves(full, us, enemies, occupied)
	for i := 0; i < full.Len(); i++ {
		if m := full.Get(i); m.IsCapture() || m.IsPromotion() {
			ml.Add(m)
		}
	}

	for _, pt := range [4]PieceType{Knight, Bishop, Rook, Queen} {
		pieces := p.Board.Pieces[us][pt]
		for pieces != 0 {
			from := pieces.PopLSB()
			var attacks SquareSet
			switch pt {
			case Knight:
				attacks = KnightAttacks(from)
			case Bishop:
				attacks = BishopAttacks(from, occupied)
			case Rook:
				attacks = RookAttacks(from, occupied)
			case Queen:
				attacks = QueenAttacks(from, occupied)
			}
			attacks &= enemies
			for attacks != 0 {
				to := attacks.PopLSB()
				ml.Add(NewMove(from, to, Capture))
			}
		}
	}

	ksq := p.Board.KingSquare[us]
	kingCaps := KingAttacks(ksq) & enemies
	for kingCaps != 0 {
		to := kingCaps.PopLSB()
		ml.Add(NewMove(ksq, to, Capture))
	}
}

// IsLegal reports whether pseudo-legal move m is legal in p, given pinned,
// the set of p's own pieces pinned to its king (see Position.Pinned). This
// is the fast path: non-king, non-pinned, non-en-passant moves are legal
// unconditionally when the side to move is not in check.
func (p *Position) IsLegal(m Move, pinned SquareSet) bool {
	us := p.Turn.Active
	them := us.Other()
	from, to, kind := m.From(), m.To(), m.Kind()
	ksq := p.Board.KingSquare[us]

	if from == ksq {
		if kind == OO || kind == OOO {
			return true
		}
		occ := p.Board.AllOccupied &^ SquareBB(from)
		return p.Board.AttackersByColor(to, them, occ) == 0
	}

	if kind == EnPassant {
		capSq := epCapturedSquare(us, to)
		occ := p.Board.AllOccupied
		occ &^= SquareBB(from)
		occ &^= SquareBB(capSq)
		occ |= SquareBB(to)
		return p.Board.AttackersByColor(ksq, them, occ) == 0
	}

	if p.Checkers == 0 {
		if pinned&SquareBB(from) == 0 {
			return true
		}
		return Aligned(from, to, ksq)
	}

	if p.Checkers.PopCount() >= 2 {
		return false
	}
	checkerSq := p.Checkers.LSB()
	blockOrCapture := SquareBB(checkerSq) | Path(checkerSq, ksq)
	if blockOrCapture&SquareBB(to) == 0 {
		return false
	}
	if pinned&SquareBB(from) != 0 && !Aligned(from, to, ksq) {
		return false
	}
	return true
}

// GenerateLegalMoves returns every legal move in p.
func (p *Position) GenerateLegalMoves() *MoveList {
	pseudo := &MoveList{}
	p.generatePseudoLegal(pseudo)
	pinned := p.Pinned()

	ml := &MoveList{}
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		if p.IsLegal(m, pinned) {
			ml.Add(m)
		}
	}
	return ml
}

// GenerateLegalCaptures returns every legal capture and promotion in p
// (used by quiescence search).
func (p *Position) GenerateLegalCaptures() *MoveList {
	pseudo := &MoveList{}
	p.generatePseudoLegalCaptures(pseudo)
	pinned := p.Pinned()

	ml := &MoveList{}
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		if p.IsLegal(m, pinned) {
			ml.Add(m)
		}
	}
	return ml
}

// HasLegalMoves reports whether the side to move has at least one legal
// move, short-circuiting as soon as one is found.
func (p *Position) HasLegalMoves() bool {
	pseudo := &MoveList{}
	p.generatePseudoLegal(pseudo)
	pinned := p.Pinned()
	for i := 0; i < pseudo.Len(); i++ {
		if p.IsLegal(pseudo.Get(i), pinned) {
			return true
		}
	}
	return false
}

// IsCheckmate reports whether p is checkmate.
func (p *Position) IsCheckmate() bool { return p.InCheck() && !p.HasLegalMoves() }

// IsStalemate reports whether p is stalemate.
func (p *Position) IsStalemate() bool { return !p.InCheck() && !p.HasLegalMoves() }

// IsDrawByRule reports whether p is an immediate draw by stalemate, the
// fifty-move rule, or insufficient material (repetition draws require
// history tracked outside Position; see History in repetition.go).
func (p *Position) IsDrawByRule() bool {
	if p.Turn.HalfmoveClock >= 100 {
		return true
	}
	if p.IsInsufficientMaterial() {
		return true
	}
	return p.IsStalemate()
}
