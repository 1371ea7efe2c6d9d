package search

import (
	"testing"

	"github.com/kestrelchess/engine/internal/chess"
)

func TestScoreMovePrefersTTMoveAboveAll(t *testing.T) {
	pos := chess.NewPosition()
	mo := NewMoveOrderer()

	moves := pos.GenerateLegalMoves()
	ttMove := moves.Get(0)

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		got := mo.scoreMove(pos, m, 0, ttMove)
		if m == ttMove {
			if got != ttMoveScore {
				t.Errorf("TT move scored %d, want %d", got, ttMoveScore)
			}
		} else if got >= ttMoveScore {
			t.Errorf("non-TT move %s scored %d, expected less than %d", m, got, ttMoveScore)
		}
	}
}

func TestUpdateKillersShiftsPreviousIntoSecondSlot(t *testing.T) {
	mo := NewMoveOrderer()
	a := chess.NewMove(chess.E2, chess.E4, chess.DoublePush)
	b := chess.NewMove(chess.D2, chess.D4, chess.DoublePush)

	mo.updateKillers(a, 0)
	mo.updateKillers(b, 0)

	if mo.killers[0][0] != b || mo.killers[0][1] != a {
		t.Errorf("killers[0] = %v, want [%v %v]", mo.killers[0], b, a)
	}
}

func TestUpdateKillersIgnoresDuplicateFirstKiller(t *testing.T) {
	mo := NewMoveOrderer()
	a := chess.NewMove(chess.E2, chess.E4, chess.DoublePush)

	mo.updateKillers(a, 0)
	mo.updateKillers(a, 0)

	if mo.killers[0][1] != chess.NoMove {
		t.Errorf("second killer slot = %v, want NoMove", mo.killers[0][1])
	}
}

func TestUpdateHistoryAccumulatesDepthSquaredBonus(t *testing.T) {
	mo := NewMoveOrderer()
	m := chess.NewMove(chess.G1, chess.F3, chess.QuietMove)

	mo.updateHistory(chess.White, m, 4)
	if got := mo.history[chess.White][chess.G1][chess.F3]; got != 16 {
		t.Errorf("history after one depth=4 cutoff = %d, want 16", got)
	}
}

func TestNewSearchHalvesHistoryButKeepsItNonzero(t *testing.T) {
	mo := NewMoveOrderer()
	m := chess.NewMove(chess.G1, chess.F3, chess.QuietMove)
	mo.updateHistory(chess.White, m, 10)

	before := mo.history[chess.White][chess.G1][chess.F3]
	mo.NewSearch()
	after := mo.history[chess.White][chess.G1][chess.F3]

	if after != before/2 {
		t.Errorf("history after NewSearch = %d, want %d", after, before/2)
	}
}

func TestClearHistoryWipesEverything(t *testing.T) {
	mo := NewMoveOrderer()
	m := chess.NewMove(chess.G1, chess.F3, chess.QuietMove)
	mo.updateHistory(chess.White, m, 10)

	mo.ClearHistory()
	if got := mo.history[chess.White][chess.G1][chess.F3]; got != 0 {
		t.Errorf("history after ClearHistory = %d, want 0", got)
	}
}

func TestPickMoveSelectsHighestRemainingScore(t *testing.T) {
	pos := chess.NewPosition()
	ml := pos.GenerateLegalMoves()
	scores := make([]int, ml.Len())
	// Force the last move to be the highest scoring.
	best := ml.Len() - 1
	scores[best] = 1000

	pickMove(ml, scores, 0)
	if scores[0] != 1000 {
		t.Errorf("pickMove(0) left score %d at index 0, want 1000", scores[0])
	}
}
