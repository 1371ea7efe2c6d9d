package perft

import (
	"testing"
	"time"

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

func TestPerftStartingPosition(t *testing.T) {
	want := []uint64{1, 20, 400, 8902, 197281, 4865609, 119060324}

	for depth, expected := range want {
		if testing.Short() && depth > 4 {
			continue
		}
		pos := chess.NewPosition()
		if got := Perft(pos, depth); got != expected {
			t.Errorf("Perft(start, %d) = %d, want %d", depth, got, expected)
		}
	}
}

func TestRunAgreesWithPerftAtStartingPosition(t *testing.T) {
	for depth := 0; depth <= 5; depth++ {
		pos := chess.NewPosition()
		want := Perft(pos, depth)

		pos2 := chess.NewPosition()
		got := Run(pos2, depth)

		if got.Uint64() != want || got.Hi != 0 {
			t.Errorf("Run(start, %d) = %s, want %d", depth, got, want)
		}
	}
}

func TestParallelRunAgreesWithRun(t *testing.T) {
	pos := chess.NewPosition()
	const depth = 4

	want := Run(pos.Copy(), depth)
	got := ParallelRun(pos.Copy(), depth, nil, 0)

	if got != want {
		t.Errorf("ParallelRun(start, %d) = %s, want %s", depth, got, want)
	}
}

func TestParallelRunReportsProgress(t *testing.T) {
	pos := chess.NewPosition()
	const depth = 4

	reports := 0
	var lastNodes uint64
	ParallelRun(pos, depth, func(nodes uint64) {
		reports++
		lastNodes = nodes
	}, time.Millisecond)

	if reports == 0 {
		t.Fatal("expected at least the final progress report")
	}
	_ = lastNodes
}

func TestPerftKiwipete(t *testing.T) {
	pos := mustParseFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	const depth, want = 3, 97862

	if got := Perft(pos, depth); got != want {
		t.Errorf("Perft(kiwipete, %d) = %d, want %d", depth, got, want)
	}
}

func TestPerftEndgameRookPosition(t *testing.T) {
	pos := mustParseFEN(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	const depth, want = 3, 2812

	if got := Perft(pos, depth); got != want {
		t.Errorf("Perft(endgame, %d) = %d, want %d", depth, got, want)
	}
}

func TestRunAgreesWithPerftOnPosition4(t *testing.T) {
	pos := mustParseFEN(t, "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1")
	const depth = 3

	first := Perft(pos.Copy(), depth)
	second := Run(pos.Copy(), depth)

	if second.Uint64() != first {
		t.Errorf("Run and Perft disagree: %d vs %s", first, second)
	}
}
