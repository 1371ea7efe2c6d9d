package eval

import (
	"testing"

	"github.com/kestrelchess/engine/internal/chess"
)

func TestEvaluateStartingPositionIsSymmetric(t *testing.T) {
	pos := chess.NewPosition()
	score := Evaluate(pos)
	if score != tempoBonus {
		t.Errorf("starting position score = %d, want tempo bonus only (%d)", score, tempoBonus)
	}
}

func TestEvaluateMaterialAdvantage(t *testing.T) {
	pos, err := chess.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKB1R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	score := Evaluate(pos)
	if score >= 0 {
		t.Errorf("missing knight should score negative for White to move, got %d", score)
	}
}

func TestEvaluateFavorsSideToMove(t *testing.T) {
	pos, err := chess.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKB1R b KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	score := Evaluate(pos)
	if score <= 0 {
		t.Errorf("extra knight for Black to move should score positive, got %d", score)
	}
}

func TestIsMateScore(t *testing.T) {
	cases := []struct {
		score int
		want  bool
	}{
		{0, false},
		{100, false},
		{MateScore, true},
		{-MateScore, true},
		{MateScore - 5, true},
		{MateScore - MaxPly - 1, false},
	}
	for _, c := range cases {
		if got := IsMateScore(c.score); got != c.want {
			t.Errorf("IsMateScore(%d) = %v, want %v", c.score, got, c.want)
		}
	}
}

func TestIsEndgameDetectsLowMaterial(t *testing.T) {
	start := chess.NewPosition()
	if IsEndgame(start) {
		t.Error("starting position should not be classified as endgame")
	}

	kingsOnly, err := chess.ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !IsEndgame(kingsOnly) {
		t.Error("bare-kings position should be classified as endgame")
	}
}

func TestEvaluateBishopPairBonus(t *testing.T) {
	withPair, err := chess.ParseFEN("4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	onePair, err := chess.ParseFEN("4k3/8/8/8/8/8/8/3BK3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if Evaluate(withPair) <= Evaluate(onePair) {
		t.Error("two bishops should score higher than one, all else equal")
	}
}
