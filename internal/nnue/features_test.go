package nnue

import (
	"testing"

	"github.com/kestrelchess/engine/internal/chess"
)

func TestFeatureIndexRange(t *testing.T) {
	pos := chess.NewPosition()
	white, black := activeFeatures(pos)
	if len(white) == 0 || len(black) == 0 {
		t.Fatal("expected active features for the starting position")
	}
	for _, idx := range append(append([]int{}, white...), black...) {
		if idx < 0 || idx >= InputDimensions {
			t.Errorf("feature index %d out of range [0,%d)", idx, InputDimensions)
		}
	}
}

func TestFeatureIndexPerspectivesSeeSamePieceCount(t *testing.T) {
	pos := chess.NewPosition()
	white, black := activeFeatures(pos)
	if len(white) != len(black) {
		t.Fatalf("perspectives should see the same piece count: white=%d black=%d", len(white), len(black))
	}
}

func TestChangedFeaturesKingMoveSignalsRefresh(t *testing.T) {
	pos, err := chess.ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m := chess.NewMove(chess.E1, chess.F1, chess.QuietMove)
	undo := pos.MakeMove(m)
	defer pos.UnmakeMove(m, undo)

	_, _, _, _, ok := changedFeatures(pos, m, chess.NoPiece)
	if ok {
		t.Error("a king move must signal ok=false so the caller does a full refresh")
	}
}

func TestChangedFeaturesQuietPawnMove(t *testing.T) {
	pos := chess.NewPosition()
	m := chess.NewMove(chess.E2, chess.E4, chess.DoublePush)
	undo := pos.MakeMove(m)
	defer pos.UnmakeMove(m, undo)

	whiteAdd, whiteRem, blackAdd, blackRem, ok := changedFeatures(pos, m, chess.NoPiece)
	if !ok {
		t.Fatal("a quiet pawn move should produce an incremental delta")
	}
	if len(whiteAdd) != 1 || len(whiteRem) != 1 || len(blackAdd) != 1 || len(blackRem) != 1 {
		t.Errorf("expected exactly one add/remove per perspective, got white +%d/-%d black +%d/-%d",
			len(whiteAdd), len(whiteRem), len(blackAdd), len(blackRem))
	}
}
