package eval

import (
	"testing"

	"github.com/kestrelchess/engine/internal/chess"
)

func mustParseFEN(t *testing.T, fen string) *chess.Position {
	t.Helper()
	pos, err := chess.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func findMove(t *testing.T, pos *chess.Position, uci string) chess.Move {
	t.Helper()
	m, err := chess.ParseMove(uci, pos)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", uci, err)
	}
	return m
}

func TestSEEWinningPawnCapturesKnight(t *testing.T) {
	// White pawn on e4 can take a hanging knight on d5, nothing recaptures.
	pos := mustParseFEN(t, "4k3/8/8/3n4/4P3/8/8/4K3 w - - 0 1")
	m := findMove(t, pos, "e4d5")
	if got := SEE(pos, m); got != chess.PieceValue[chess.Knight] {
		t.Errorf("SEE(exd5) = %d, want %d", got, chess.PieceValue[chess.Knight])
	}
}

func TestSEELosingQueenTradeForPawn(t *testing.T) {
	// White queen captures a pawn defended by a rook: net loss of queen for pawn.
	pos := mustParseFEN(t, "4k3/8/8/3r4/8/8/3p4/3QK3 w - - 0 1")
	m := findMove(t, pos, "d1d2")
	got := SEE(pos, m)
	want := chess.PieceValue[chess.Pawn] - chess.PieceValue[chess.Queen]
	if got != want {
		t.Errorf("SEE(Qxd2) = %d, want %d", got, want)
	}
}

func TestSEERookCapturesUndefendedRook(t *testing.T) {
	// Rook takes rook and nothing recaptures on d5: the whole rook is won.
	pos := mustParseFEN(t, "4k3/8/8/3r4/8/8/3R4/3RK3 w - - 0 1")
	m := findMove(t, pos, "d2d5")
	if got := SEE(pos, m); got != chess.PieceValue[chess.Rook] {
		t.Errorf("SEE(Rxd5) = %d, want %d (no second defender on d5)", got, chess.PieceValue[chess.Rook])
	}
}

func TestSEENonCaptureIsZero(t *testing.T) {
	pos := chess.NewPosition()
	m := findMove(t, pos, "e2e4")
	if got := SEE(pos, m); got != 0 {
		t.Errorf("SEE(quiet move) = %d, want 0", got)
	}
}

func TestSEENonCapturingPromotionIsZero(t *testing.T) {
	// Matches the swap algorithm's capture-only contract: a promotion with
	// nothing on the destination square never enters the exchange at all.
	pos := mustParseFEN(t, "4k3/3P4/8/8/8/8/8/4K3 w - - 0 1")
	m := findMove(t, pos, "d7d8q")
	if got := SEE(pos, m); got != 0 {
		t.Errorf("SEE(d8=Q, non-capturing) = %d, want 0", got)
	}
}

func TestSEEPromotionCaptureAddsPromotedValue(t *testing.T) {
	pos := mustParseFEN(t, "2n5/3P4/8/8/8/8/8/4K2k w - - 0 1")
	m := findMove(t, pos, "d7c8q")
	want := chess.PieceValue[chess.Knight] + chess.PieceValue[chess.Queen] - chess.PieceValue[chess.Pawn]
	if got := SEE(pos, m); got != want {
		t.Errorf("SEE(dxc8=Q) = %d, want %d", got, want)
	}
}
