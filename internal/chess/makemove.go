package chess

// SquarePair is one (from, to) leg of a BoardChange. From == To means the
// leg is a no-op placeholder (simple moves only use one of the two legs).
type SquarePair struct {
	From, To Square
}

// BoardChange is the undo token produced by prepareMove: captured piece,
// promotion delta, and up to two (from, to) pairs, so that castling,
// en-passant, and promotion are all representable as two disjoint simple
// piece movements plus an optional capture.
type BoardChange struct {
	Captured   Piece     // NoPiece if the move captures nothing
	CapturedSq Square    // square the captured piece sat on (may differ from Pair1.To for en passant)
	Promo      PieceType // NoPieceType unless this is a promotion
	Pair1      SquarePair
	Pair2      SquarePair
}

// prepareMove decomposes m into a BoardChange. board is read but not
// mutated.
func prepareMove(board *Board, m Move) BoardChange {
	from, to, kind := m.From(), m.To(), m.Kind()
	ch := BoardChange{
		Captured:   NoPiece,
		CapturedSq: NoSquare,
		Promo:      NoPieceType,
		Pair1:      SquarePair{from, to},
		Pair2:      SquarePair{to, to}, // no-op unless overwritten below
	}

	switch {
	case kind == OO || kind == OOO:
		rank := from.Rank()
		if kind == OO {
			ch.Pair2 = SquarePair{NewSquare(7, rank), NewSquare(5, rank)}
		} else {
			ch.Pair2 = SquarePair{NewSquare(0, rank), NewSquare(3, rank)}
		}
		return ch

	case kind == EnPassant:
		mover := board.PieceAt(from).Color()
		capSq := epCapturedSquare(mover, to)
		ch.Captured = board.PieceAt(capSq)
		ch.CapturedSq = capSq
		return ch

	case kind.IsPromotion():
		ch.Promo = kind.PromotedType()
		if kind.IsPromoCapture() {
			ch.Captured = board.PieceAt(to)
			ch.CapturedSq = to
		}
		return ch

	case kind == Capture:
		ch.Captured = board.PieceAt(to)
		ch.CapturedSq = to
		return ch

	default: // QuietMove, DoublePush
		return ch
	}
}

// makeMove executes change on board, in place.
func makeMove(board *Board, m Move, ch BoardChange) {
	if ch.Captured != NoPiece {
		board.removePiece(ch.CapturedSq)
	}

	board.movePiece(ch.Pair1.From, ch.Pair1.To)

	if ch.Promo != NoPieceType {
		mover := board.PieceAt(ch.Pair1.To).Color()
		bb := SquareBB(ch.Pair1.To)
		board.Pieces[mover][Pawn] &^= bb
		board.Pieces[mover][ch.Promo] |= bb
	} else if ch.Pair2.From != ch.Pair2.To {
		board.movePiece(ch.Pair2.From, ch.Pair2.To)
	}
	_ = m
}

// unmakeMove reverses change on board, restoring it bit-identically.
func unmakeMove(board *Board, m Move, ch BoardChange) {
	if ch.Promo != NoPieceType {
		mover := board.PieceAt(ch.Pair1.To).Color()
		bb := SquareBB(ch.Pair1.To)
		board.Pieces[mover][ch.Promo] &^= bb
		board.Pieces[mover][Pawn] |= bb
	} else if ch.Pair2.From != ch.Pair2.To {
		board.movePiece(ch.Pair2.To, ch.Pair2.From)
	}

	board.movePiece(ch.Pair1.To, ch.Pair1.From)

	if ch.Captured != NoPiece {
		board.setPiece(ch.Captured, ch.CapturedSq)
	}
	_ = m
}

// UndoInfo is the token a caller holds between Position.MakeMove and
// Position.UnmakeMove.
type UndoInfo struct {
	Change          BoardChange
	Turn            Turn
	Hash            uint64
	ClearedCastling CastlingMask
}

// MakeMove applies m to the position: it mutates Board via prepareMove/
// makeMove, advances Turn via applyTurn, and updates Hash incrementally via
// hashApplyMove, keeping the two in lock-step per the spec's Hash property.
func (p *Position) MakeMove(m Move) UndoInfo {
	mwp := WithPieces(p, m)
	change := prepareMove(&p.Board, m)

	turnBefore := p.Turn
	hashBefore := p.Hash

	makeMove(&p.Board, m, change)

	clearedMask := castlingClearedBy(p.Turn.Castling, m)
	p.Turn = applyTurn(p.Turn, mwp)
	p.Hash = hashApplyMove(hashBefore, turnBefore, mwp, clearedMask)
	p.UpdateCheckers()

	return UndoInfo{
		Change:          change,
		Turn:            turnBefore,
		Hash:            hashBefore,
		ClearedCastling: clearedMask,
	}
}

// UnmakeMove reverses a prior MakeMove given its UndoInfo.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	unmakeMove(&p.Board, m, undo.Change)
	p.Turn = undo.Turn
	p.Hash = undo.Hash
	p.UpdateCheckers()
}

// NullMoveUndo is the undo token for MakeNullMove/UnmakeNullMove.
type NullMoveUndo struct {
	EnPassant Square
	Hash      uint64
	Checkers  SquareSet
}

// MakeNullMove passes the turn without moving a piece (used by null-move
// pruning). A null move toggles side-to-move and clears en passant if set.
func (p *Position) MakeNullMove() NullMoveUndo {
	undo := NullMoveUndo{EnPassant: p.Turn.EnPassant, Hash: p.Hash, Checkers: p.Checkers}
	if p.Turn.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.Turn.EnPassant.File()]
	}
	p.Turn.EnPassant = NoSquare
	p.Turn.Active = p.Turn.Active.Other()
	p.Hash ^= zobristSideToMove
	p.UpdateCheckers()
	return undo
}

// UnmakeNullMove reverses MakeNullMove; two consecutive null moves restore
// the original Hash.
func (p *Position) UnmakeNullMove(undo NullMoveUndo) {
	p.Turn.Active = p.Turn.Active.Other()
	p.Turn.EnPassant = undo.EnPassant
	p.Hash = undo.Hash
	p.Checkers = undo.Checkers
}

// castlingClearedBy returns the subset of before that m clears: a king or
// rook leaving/arriving on a corner or king home square clears that side's
// right.
func castlingClearedBy(before CastlingMask, m Move) CastlingMask {
	var cleared CastlingMask
	from, to := m.From(), m.To()
	touch := func(sq Square, mask CastlingMask) {
		if (from == sq || to == sq) && before&mask != 0 {
			cleared |= mask
		}
	}
	touch(E1, WhiteOO|WhiteOOO)
	touch(H1, WhiteOO)
	touch(A1, WhiteOOO)
	touch(E8, BlackOO|BlackOOO)
	touch(H8, BlackOO)
	touch(A8, BlackOOO)
	return cleared
}

// applyTurn advances Turn across mwp per spec §4.4: en-passant defaults to
// none (set only on DoublePush), castling rights clear on king/rook
// movement, the halfmove clock resets on pawn moves and captures, and the
// fullmove number increments after black's move.
func applyTurn(t Turn, mwp MoveWithPieces) Turn {
	m := mwp.Move
	next := t
	next.EnPassant = NoSquare
	if m.Kind() == DoublePush {
		next.EnPassant = Square((int(m.From()) + int(m.To())) / 2)
	}
	next.Castling &^= castlingClearedBy(t.Castling, m)

	if mwp.Moving.Type() == Pawn || mwp.Captured != NoPiece {
		next.HalfmoveClock = 0
	} else {
		next.HalfmoveClock = t.HalfmoveClock + 1
	}
	if t.Active == Black {
		next.FullmoveNumber++
	}
	next.Active = t.Active.Other()
	return next
}
