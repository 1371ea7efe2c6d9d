package search

import (
	"testing"

	"github.com/kestrelchess/engine/internal/eval"
)

func TestTranspositionTableProbeMisses(t *testing.T) {
	tt := NewTranspositionTable(1)
	if res := tt.Probe(0x1234); res.found {
		t.Fatal("expected a miss on an empty table")
	}
}

func TestTranspositionTableGenerationReplacesShallower(t *testing.T) {
	tt := NewTranspositionTable(1)
	const hash = uint64(0xabc0000000000001)

	tt.Store(hash, 4, 10, BoundExact, 0)
	tt.Store(hash, 2, 99, BoundExact, 0)
	if res := tt.Probe(hash); res.depth != 4 || res.score != 10 {
		t.Errorf("shallower same-generation store should not replace, got %+v", res)
	}

	tt.NewGeneration()
	tt.Store(hash, 1, 55, BoundUpper, 0)
	if res := tt.Probe(hash); res.depth != 1 || res.score != 55 {
		t.Errorf("a new generation should always replace, got %+v", res)
	}
}

func TestAdjustScoreRoundTripsThroughTT(t *testing.T) {
	const ply = 3
	mateIn5 := eval.MateScore - 5
	stored := adjustScoreToTT(mateIn5, ply)
	got := adjustScoreFromTT(stored, ply)
	if got != mateIn5 {
		t.Errorf("round trip through TT adjustment = %d, want %d", got, mateIn5)
	}
}

func TestHashFullReflectsOccupancy(t *testing.T) {
	tt := NewTranspositionTable(1)
	if full := tt.HashFull(); full != 0 {
		t.Errorf("empty table HashFull() = %d, want 0", full)
	}
	for i := uint64(0); i < 500; i++ {
		tt.Store(i, 1, 0, BoundExact, 0)
	}
	if full := tt.HashFull(); full == 0 {
		t.Error("expected HashFull() to report nonzero occupancy after stores")
	}
}
