package chess

import "fmt"

// MoveKind enumerates the 16 move kinds fixed by the move encoding. The low
// two bits of the four promotion kinds (and, identically, the four
// promotion-capture kinds) encode the promoted piece type; code elsewhere
// relies on this layout.
type MoveKind uint8

const (
	QuietMove MoveKind = iota
	DoublePush
	OO
	OOO
	Capture
	EnPassant
	unused6
	unused7
	KnightPromotion
	BishopPromotion
	RookPromotion
	QueenPromotion
	KnightPromoCapture
	BishopPromoCapture
	RookPromoCapture
	QueenPromoCapture
)

// promoPieceTypes maps the low two bits of a promotion MoveKind to the
// promoted PieceType, in the fixed order Knight, Bishop, Rook, Queen.
var promoPieceTypes = [4]PieceType{Knight, Bishop, Rook, Queen}

// IsPromotion reports whether k is one of the eight promotion kinds.
func (k MoveKind) IsPromotion() bool { return k >= KnightPromotion }

// IsPromoCapture reports whether k is a promotion that also captures.
func (k MoveKind) IsPromoCapture() bool { return k >= KnightPromoCapture }

// PromotedType returns the promoted piece type for a promotion MoveKind.
func (k MoveKind) PromotedType() PieceType { return promoPieceTypes[k&3] }

// IsCapture reports whether k captures a piece (Capture, EnPassant, or any
// promotion-capture kind).
func (k MoveKind) IsCapture() bool {
	return k == Capture || k == EnPassant || k.IsPromoCapture()
}

func (k MoveKind) String() string {
	switch k {
	case QuietMove:
		return "quiet"
	case DoublePush:
		return "double-push"
	case OO:
		return "O-O"
	case OOO:
		return "O-O-O"
	case Capture:
		return "capture"
	case EnPassant:
		return "en-passant"
	default:
		if k.IsPromotion() {
			s := "promotion(" + k.PromotedType().String() + ")"
			if k.IsPromoCapture() {
				return "capture-" + s
			}
			return s
		}
		return "unused"
	}
}

// Move packs {from, to, kind} into 16 bits: bits 0-5 from, bits 6-11 to,
// bits 12-15 kind (exactly the 16 values of MoveKind).
type Move uint16

// NoMove is the invalid/null move.
const NoMove Move = 0xFFFF

// NewMove builds a move from its three fields.
func NewMove(from, to Square, kind MoveKind) Move {
	return Move(from) | Move(to)<<6 | Move(kind)<<12
}

func (m Move) From() Square   { return Square(m & 0x3F) }
func (m Move) To() Square     { return Square((m >> 6) & 0x3F) }
func (m Move) Kind() MoveKind { return MoveKind(m >> 12) }

func (m Move) IsPromotion() bool    { return m.Kind().IsPromotion() }
func (m Move) IsCapture() bool      { return m.Kind().IsCapture() }
func (m Move) IsEnPassant() bool    { return m.Kind() == EnPassant }
func (m Move) IsCastling() bool     { return m.Kind() == OO || m.Kind() == OOO }
func (m Move) IsDoublePush() bool   { return m.Kind() == DoublePush }

func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string("nbrq"[m.Kind().PromotedType()-Knight])
	}
	return s
}

// ParseMove parses a UCI move string ("e2e4", "e7e8q") against pos, inferring
// the MoveKind from board state (which pawn/king move this is).
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	piece := pos.Board.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}
	captured := pos.Board.PieceAt(to) != NoPiece
	pt := piece.Type()

	if len(s) >= 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		kind := KnightPromotion + MoveKind(promo-Knight)
		if captured {
			kind = KnightPromoCapture + MoveKind(promo-Knight)
		}
		return NewMove(from, to, kind), nil
	}

	if pt == King && abs(int(to)-int(from)) == 2 {
		if to.File() == 6 {
			return NewMove(from, to, OO), nil
		}
		return NewMove(from, to, OOO), nil
	}
	if pt == Pawn && to == pos.Turn.EnPassant && from.File() != to.File() {
		return NewMove(from, to, EnPassant), nil
	}
	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		return NewMove(from, to, DoublePush), nil
	}
	if captured {
		return NewMove(from, to, Capture), nil
	}
	return NewMove(from, to, QuietMove), nil
}

// MoveWithPieces pairs a Move with the moving piece and the captured piece
// (or NoPiece). The captured-piece field equals Board[to] for Capture,
// Board[ep-square] for EnPassant, and NoPiece otherwise.
type MoveWithPieces struct {
	Move     Move
	Moving   Piece
	Captured Piece
}

// WithPieces derives a MoveWithPieces from a Move and the position it is
// about to be applied to (i.e. before the move is made).
func WithPieces(pos *Position, m Move) MoveWithPieces {
	moving := pos.Board.PieceAt(m.From())
	var captured Piece
	switch {
	case m.Kind() == EnPassant:
		captured = pos.Board.PieceAt(epCapturedSquare(pos.Turn.Active, m.To()))
	case m.Kind().IsCapture():
		captured = pos.Board.PieceAt(m.To())
	default:
		captured = NoPiece
	}
	return MoveWithPieces{Move: m, Moving: moving, Captured: captured}
}

// epCapturedSquare returns the square of the pawn captured en passant, given
// the mover's color and the destination square of the capturing pawn.
func epCapturedSquare(mover Color, to Square) Square {
	if mover == White {
		return to - 8
	}
	return to + 8
}

// MoveList is a fixed-size, allocation-free list of moves.
type MoveList struct {
	moves [256]Move
	count int
}

func (ml *MoveList) Add(m Move)        { ml.moves[ml.count] = m; ml.count++ }
func (ml *MoveList) Len() int          { return ml.count }
func (ml *MoveList) Get(i int) Move    { return ml.moves[i] }
func (ml *MoveList) Set(i int, m Move) { ml.moves[i] = m }
func (ml *MoveList) Swap(i, j int)     { ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i] }
func (ml *MoveList) Clear()            { ml.count = 0 }
func (ml *MoveList) Slice() []Move     { return ml.moves[:ml.count] }

func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}
