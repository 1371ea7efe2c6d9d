// Package chess implements bitboard-based chess position representation,
// move generation, make/unmake, and incremental Zobrist hashing.
package chess

import "fmt"

// Square is a board index 0..63. File = sq & 7, rank = sq >> 3. Uses
// little-endian rank-file mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// File returns the file of the square (0=a .. 7=h).
func (sq Square) File() int { return int(sq) & 7 }

// Rank returns the rank of the square (0=rank1 .. 7=rank8).
func (sq Square) Rank() int { return int(sq) >> 3 }

func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// NewSquare builds a square from 0-indexed file and rank.
func NewSquare(file, rank int) Square { return Square(rank*8 + file) }

// ParseSquare parses algebraic notation (e.g. "e4").
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}
	return NewSquare(file, rank), nil
}

// IsValid reports whether sq is one of the 64 board squares.
func (sq Square) IsValid() bool { return sq < NoSquare }

// Mirror flips the square vertically (white <-> black perspective).
func (sq Square) Mirror() Square { return sq ^ 56 }

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
