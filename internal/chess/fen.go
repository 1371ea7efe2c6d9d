package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN of the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string into a Position. The halfmove clock and
// fullmove number fields are optional and default to 0 and 1.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(strings.TrimSpace(fen))
	if len(fields) < 4 {
		return nil, fmt.Errorf("chess: invalid FEN %q: need at least 4 fields", fen)
	}

	var board Board
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("chess: invalid FEN %q: expected 8 ranks, got %d", fen, len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, c := range rankStr {
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			if file >= 8 {
				return nil, fmt.Errorf("chess: invalid FEN %q: rank %d overflows", fen, rank+1)
			}
			piece, err := PieceFromChar(byte(c))
			if err != nil {
				return nil, fmt.Errorf("chess: invalid FEN %q: %w", fen, err)
			}
			board.setPiece(piece, NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("chess: invalid FEN %q: rank %d has %d files", fen, rank+1, file)
		}
	}

	var turn Turn
	switch fields[1] {
	case "w":
		turn.Active = White
	case "b":
		turn.Active = Black
	default:
		return nil, fmt.Errorf("chess: invalid FEN %q: bad side to move %q", fen, fields[1])
	}

	turn.Castling = NoCastling
	if fields[2] != "-" {
		for _, c := range fields[2] {
			switch c {
			case 'K':
				turn.Castling |= WhiteOO
			case 'Q':
				turn.Castling |= WhiteOOO
			case 'k':
				turn.Castling |= BlackOO
			case 'q':
				turn.Castling |= BlackOOO
			default:
				return nil, fmt.Errorf("chess: invalid FEN %q: bad castling field %q", fen, fields[2])
			}
		}
	}

	turn.EnPassant = NoSquare
	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("chess: invalid FEN %q: bad en passant field: %w", fen, err)
		}
		turn.EnPassant = sq
	}

	turn.HalfmoveClock = 0
	if len(fields) >= 5 {
		n, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("chess: invalid FEN %q: bad halfmove clock: %w", fen, err)
		}
		turn.HalfmoveClock = n
	}
	turn.FullmoveNumber = 1
	if len(fields) >= 6 {
		n, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, fmt.Errorf("chess: invalid FEN %q: bad fullmove number: %w", fen, err)
		}
		turn.FullmoveNumber = n
	}

	pos := &Position{Board: board, Turn: turn}
	pos.Hash = ComputeHash(pos)
	pos.UpdateCheckers()
	return pos, nil
}

// ToFEN renders pos as a FEN string.
func ToFEN(pos *Position) string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := pos.Board.PieceAt(NewSquare(file, rank))
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(p.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if pos.Turn.Active == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(pos.Turn.Castling.String())

	sb.WriteByte(' ')
	sb.WriteString(pos.Turn.EnPassant.String())

	fmt.Fprintf(&sb, " %d %d", pos.Turn.HalfmoveClock, pos.Turn.FullmoveNumber)
	return sb.String()
}
