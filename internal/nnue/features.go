package nnue

import "github.com/kestrelchess/engine/internal/chess"

// pieceTypeIndex maps a non-king (PieceType, Color) pair, relative to a
// perspective (pc is already flipped for the black perspective by the
// caller), to its 0-9 slot within a king bucket: White P,N,B,R,Q = 0-4,
// Black P,N,B,R,Q = 5-9.
func pieceTypeIndex(pt chess.PieceType, perspectiveColor chess.Color) int {
	if pt == chess.King || pt > chess.Queen {
		return -1
	}
	idx := int(pt) - int(chess.Pawn)
	if perspectiveColor == chess.Black {
		idx += 5
	}
	return idx
}

// featureIndex computes the HalfKP feature index for a non-king piece from
// a perspective, using the +1-offset formula this repo's NNUE file format
// requires (see LoadNetwork): index = kingBucket*641 + 1 + typeIdx*64 + sq.
func featureIndex(perspective chess.Color, kingSq chess.Square, pt chess.PieceType, pieceColor chess.Color, pieceSq chess.Square) int {
	ks := kingSq
	sq := pieceSq
	relColor := pieceColor
	if perspective == chess.Black {
		ks = kingSq.Mirror()
		sq = pieceSq.Mirror()
		relColor = pieceColor.Other()
	}

	ti := pieceTypeIndex(pt, relColor)
	if ti < 0 {
		return -1
	}
	return int(ks)*perKingBlock + 1 + ti*PieceSquares + int(sq)
}

// activeFeatures returns every set HalfKP feature index for both
// perspectives of pos.
func activeFeatures(pos *chess.Position) (white, black []int) {
	white = make([]int, 0, 32)
	black = make([]int, 0, 32)

	whiteKing := pos.Board.KingSquare[chess.White]
	blackKing := pos.Board.KingSquare[chess.Black]

	for c := chess.White; c <= chess.Black; c++ {
		for pt := chess.Pawn; pt < chess.King; pt++ {
			pieces := pos.Board.Pieces[c][pt]
			for pieces != 0 {
				sq := pieces.PopLSB()
				if idx := featureIndex(chess.White, whiteKing, pt, c, sq); idx >= 0 {
					white = append(white, idx)
				}
				if idx := featureIndex(chess.Black, blackKing, pt, c, sq); idx >= 0 {
					black = append(black, idx)
				}
			}
		}
	}
	return white, black
}

// changedFeatures returns the features to remove and add on each
// perspective for a non-king move already applied to pos. Returns ok=false
// (and no features) when the moved piece is a king, signaling the caller
// to do a full refresh instead.
func changedFeatures(pos *chess.Position, m chess.Move, captured chess.Piece) (whiteAdd, whiteRem, blackAdd, blackRem []int, ok bool) {
	from, to := m.From(), m.To()
	moved := pos.Board.PieceAt(to)
	if moved == chess.NoPiece || moved.Type() == chess.King {
		return nil, nil, nil, nil, false
	}

	whiteKing := pos.Board.KingSquare[chess.White]
	blackKing := pos.Board.KingSquare[chess.Black]
	movedType, movedColor := moved.Type(), moved.Color()

	removeBoth := func(pt chess.PieceType, color chess.Color, sq chess.Square) {
		if idx := featureIndex(chess.White, whiteKing, pt, color, sq); idx >= 0 {
			whiteRem = append(whiteRem, idx)
		}
		if idx := featureIndex(chess.Black, blackKing, pt, color, sq); idx >= 0 {
			blackRem = append(blackRem, idx)
		}
	}
	addBoth := func(pt chess.PieceType, color chess.Color, sq chess.Square) {
		if idx := featureIndex(chess.White, whiteKing, pt, color, sq); idx >= 0 {
			whiteAdd = append(whiteAdd, idx)
		}
		if idx := featureIndex(chess.Black, blackKing, pt, color, sq); idx >= 0 {
			blackAdd = append(blackAdd, idx)
		}
	}

	// Pre-move type at "from" is the moved piece's un-promoted type: a
	// promotion still started as a pawn.
	fromType := movedType
	if m.IsPromotion() {
		fromType = chess.Pawn
	}
	removeBoth(fromType, movedColor, from)
	addBoth(movedType, movedColor, to)

	if captured != chess.NoPiece && captured.Type() != chess.King {
		capturedSq := to
		if m.IsEnPassant() {
			if movedColor == chess.White {
				capturedSq = to - 8
			} else {
				capturedSq = to + 8
			}
		}
		removeBoth(captured.Type(), captured.Color(), capturedSq)
	}

	return whiteAdd, whiteRem, blackAdd, blackRem, true
}
