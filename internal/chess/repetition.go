package chess

// History tracks the hash of every position reachable in the current search
// line (game history plus the moves played so far along the current
// branch), for threefold-repetition detection. It never heap-allocates on
// the hot path.
type History struct {
	hashes [1024]uint64
	len    int
}

// Guard is the token returned by Track; releasing it pops the tracked hash.
// Pair Track with a deferred Release so every recursive call that pushes a
// hash is guaranteed to pop it on every return path:
//
//	defer history.Track(pos.Hash).Release()
type Guard struct {
	h *History
}

// Release pops the hash pushed by the Track call that produced g.
func (g Guard) Release() {
	g.h.len--
}

// Track pushes hash onto the history and returns a Guard to pop it.
func (h *History) Track(hash uint64) Guard {
	h.hashes[h.len] = hash
	h.len++
	return Guard{h}
}

// Seed preloads game history (moves played before the search root) so that
// repetitions spanning the root are detected.
func (h *History) Seed(hashes []uint64) {
	h.len = copy(h.hashes[:], hashes)
}

// Reset clears the history.
func (h *History) Reset() { h.len = 0 }

// Count returns how many times hash already appears in the tracked history
// (not counting a not-yet-pushed current position).
func (h *History) Count(hash uint64) int {
	n := 0
	for i := 0; i < h.len; i++ {
		if h.hashes[i] == hash {
			n++
		}
	}
	return n
}

// IsRepetitionDraw reports whether hash has already occurred twice in the
// tracked history, meaning the current occurrence is the third (claimable
// draw by threefold repetition).
func (h *History) IsRepetitionDraw(hash uint64) bool {
	return h.Count(hash) >= 2
}
