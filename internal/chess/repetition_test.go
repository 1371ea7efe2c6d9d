package chess

import "testing"

func TestHistoryTrackReleaseBalances(t *testing.T) {
	var h History
	func() {
		defer h.Track(1).Release()
		defer h.Track(2).Release()
		if h.Count(1) != 1 || h.Count(2) != 1 {
			t.Fatalf("expected both hashes tracked")
		}
	}()
	if h.len != 0 {
		t.Fatalf("expected history empty after releases, len=%d", h.len)
	}
}

func TestHistoryRepetitionDraw(t *testing.T) {
	// IsRepetitionDraw(hash) asks "if the side to move now reaches hash,
	// is that the third occurrence?" — so it is checked before tracking
	// the position currently being evaluated.
	var h History
	h.Track(42)
	if h.IsRepetitionDraw(42) {
		t.Fatalf("one prior occurrence should not yet be a repetition draw")
	}
	h.Track(42)
	if !h.IsRepetitionDraw(42) {
		t.Fatalf("two prior occurrences means the current one is the third: repetition draw")
	}
}

func TestHistorySeed(t *testing.T) {
	var h History
	h.Seed([]uint64{1, 2, 3})
	if h.Count(2) != 1 {
		t.Fatalf("expected seeded hash present")
	}
	h.Reset()
	if h.Count(2) != 0 {
		t.Fatalf("expected history cleared after Reset")
	}
}
