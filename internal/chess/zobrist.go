package chess

// Zobrist keys are generated once at init time with a fixed-seed xorshift64*
// generator, so hashes are stable across runs and builds (useful for
// reproducing perft/search traces across machines).

var (
	zobristPiece      [2][6][64]uint64
	zobristEnPassant  [8]uint64
	zobristCastling   [4]uint64 // WhiteOO, WhiteOOO, BlackOO, BlackOOO
	zobristSideToMove uint64
)

func init() {
	seed := uint64(0x98F107A2BEEF1234)
	next := func() uint64 {
		seed ^= seed >> 12
		seed ^= seed << 25
		seed ^= seed >> 27
		return seed * 0x2545F4914F6CDD1D
	}

	for c := 0; c < 2; c++ {
		for pt := 0; pt < 6; pt++ {
			for sq := 0; sq < 64; sq++ {
				zobristPiece[c][pt][sq] = next()
			}
		}
	}
	for f := 0; f < 8; f++ {
		zobristEnPassant[f] = next()
	}
	for i := range zobristCastling {
		zobristCastling[i] = next()
	}
	zobristSideToMove = next()
}

func zobristPieceKey(p Piece, sq Square) uint64 {
	return zobristPiece[p.Color()][p.Type()][sq]
}

// castlingBitKeys returns the xor of the zobrist keys for every right set in
// mask.
func castlingBitKeys(mask CastlingMask) uint64 {
	var h uint64
	if mask&WhiteOO != 0 {
		h ^= zobristCastling[0]
	}
	if mask&WhiteOOO != 0 {
		h ^= zobristCastling[1]
	}
	if mask&BlackOO != 0 {
		h ^= zobristCastling[2]
	}
	if mask&BlackOOO != 0 {
		h ^= zobristCastling[3]
	}
	return h
}

// ComputeHash recomputes the Zobrist hash of pos from scratch. Used by
// ParseFEN and as a correctness check against the incrementally maintained
// Position.Hash.
func ComputeHash(pos *Position) uint64 {
	var h uint64
	for c := 0; c < 2; c++ {
		for pt := 0; pt < 6; pt++ {
			bb := pos.Board.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				h ^= zobristPiece[c][pt][sq]
			}
		}
	}
	if pos.Turn.EnPassant != NoSquare {
		h ^= zobristEnPassant[pos.Turn.EnPassant.File()]
	}
	h ^= castlingBitKeys(pos.Turn.Castling)
	if pos.Turn.Active == Black {
		h ^= zobristSideToMove
	}
	return h
}

// hashApplyMove updates hashBefore incrementally across mwp, given the Turn
// the position held before the move and the subset of castling rights the
// move clears. This must always equal ComputeHash(positionAfterMove).
func hashApplyMove(hashBefore uint64, turnBefore Turn, mwp MoveWithPieces, cleared CastlingMask) uint64 {
	h := hashBefore
	m := mwp.Move
	from, to, kind := m.From(), m.To(), m.Kind()
	us := mwp.Moving.Color()

	h ^= zobristPieceKey(mwp.Moving, from)
	if kind.IsPromotion() {
		h ^= zobristPieceKey(NewPiece(kind.PromotedType(), us), to)
	} else {
		h ^= zobristPieceKey(mwp.Moving, to)
	}

	if mwp.Captured != NoPiece {
		capSq := to
		if kind == EnPassant {
			capSq = epCapturedSquare(us, to)
		}
		h ^= zobristPieceKey(mwp.Captured, capSq)
	}

	if kind == OO || kind == OOO {
		rank := from.Rank()
		rook := NewPiece(Rook, us)
		if kind == OO {
			h ^= zobristPieceKey(rook, NewSquare(7, rank))
			h ^= zobristPieceKey(rook, NewSquare(5, rank))
		} else {
			h ^= zobristPieceKey(rook, NewSquare(0, rank))
			h ^= zobristPieceKey(rook, NewSquare(3, rank))
		}
	}

	if turnBefore.EnPassant != NoSquare {
		h ^= zobristEnPassant[turnBefore.EnPassant.File()]
	}
	if kind == DoublePush {
		epSq := Square((int(from) + int(to)) / 2)
		h ^= zobristEnPassant[epSq.File()]
	}

	h ^= castlingBitKeys(cleared)
	h ^= zobristSideToMove
	return h
}
