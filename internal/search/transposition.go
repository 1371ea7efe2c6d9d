// Package search implements iterative-deepening alpha-beta search over
// internal/chess positions: aspiration windows, a transposition table, move
// ordering, null-move pruning, late move reductions, and quiescence.
package search

import (
	"github.com/kestrelchess/engine/internal/chess"
	"github.com/kestrelchess/engine/internal/eval"
)

// Bound classifies what a stored score actually represents relative to the
// window it was searched with.
type Bound uint8

const (
	BoundExact Bound = iota
	BoundLower       // fail-high: score is a lower bound
	BoundUpper       // fail-low: score is an upper bound
)

// ttEntry is one slot of the transposition table.
type ttEntry struct {
	key   uint32
	move  chess.Move
	score int16
	depth int8
	bound Bound
	gen   uint8
}

// TranspositionTable is an open-addressed, power-of-two-sized hash table
// keyed by hash mod size, with one entry per slot (always-replace subject
// to the generation/depth policy in Store).
type TranspositionTable struct {
	entries []ttEntry
	mask    uint64
	gen     uint8
}

// NewTranspositionTable allocates a table sized to approximately sizeMB
// megabytes, rounded down to a power of two entry count.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	const approxEntrySize = 16
	count := uint64(sizeMB) * 1024 * 1024 / approxEntrySize
	count = roundDownPow2(count)
	if count == 0 {
		count = 1
	}
	return &TranspositionTable{entries: make([]ttEntry, count), mask: count - 1}
}

func roundDownPow2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// NewGeneration bumps the table's generation counter; called once at the
// start of every ComputeBestMove call.
func (tt *TranspositionTable) NewGeneration() { tt.gen++ }

// Clear wipes every entry.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = ttEntry{}
	}
	tt.gen = 0
}

// ttResult is what Probe reports back to the caller.
type ttResult struct {
	move  chess.Move
	score int
	depth int
	bound Bound
	found bool
}

// Probe looks up hash, verifying the stored key against hash's upper bits.
func (tt *TranspositionTable) Probe(hash uint64) ttResult {
	e := &tt.entries[hash&tt.mask]
	if e.key != uint32(hash>>32) || e.depth == 0 {
		return ttResult{}
	}
	return ttResult{move: e.move, score: int(e.score), depth: int(e.depth), bound: e.bound, found: true}
}

// Store records a search result, preferring deeper or same-generation
// entries: an entry from an older generation is always overwritten; within
// the current generation, only a deeper (or equal-depth exact) result
// replaces it.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, bound Bound, move chess.Move) {
	e := &tt.entries[hash&tt.mask]
	if e.gen == tt.gen && (depth < int(e.depth) || (depth == int(e.depth) && bound != BoundExact)) {
		return
	}
	e.key = uint32(hash >> 32)
	e.move = move
	e.score = int16(score)
	e.depth = int8(depth)
	e.bound = bound
	e.gen = tt.gen
}

// HashFull samples the first 1000 entries and returns the permille that
// belong to the current generation, for the UCI "hashfull" info field.
func (tt *TranspositionTable) HashFull() int {
	sample := 1000
	if uint64(sample) > uint64(len(tt.entries)) {
		sample = len(tt.entries)
	}
	if sample == 0 {
		return 0
	}
	used := 0
	for i := 0; i < sample; i++ {
		if tt.entries[i].depth > 0 && tt.entries[i].gen == tt.gen {
			used++
		}
	}
	return used * 1000 / sample
}

// adjustScoreFromTT converts a mate score stored relative to the node it
// was found at back into one relative to the root, by ply distance.
func adjustScoreFromTT(score, ply int) int {
	if score > eval.MateScore-eval.MaxPly {
		return score - ply
	}
	if score < -eval.MateScore+eval.MaxPly {
		return score + ply
	}
	return score
}

// adjustScoreToTT is adjustScoreFromTT's inverse, applied before storing.
func adjustScoreToTT(score, ply int) int {
	if score > eval.MateScore-eval.MaxPly {
		return score + ply
	}
	if score < -eval.MateScore+eval.MaxPly {
		return score - ply
	}
	return score
}
