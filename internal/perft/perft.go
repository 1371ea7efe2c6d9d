package perft

import "github.com/kestrelchess/engine/internal/chess"

// Perft counts leaf positions at exactly depth plies below pos by brute
// recursion, with no caching. It is the reference implementation used to
// validate the cached/parallel Run against: both must agree exactly, since
// perft's count does not depend on move-generation order.
func Perft(pos *chess.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		nodes += Perft(pos, depth-1)
		pos.UnmakeMove(m, undo)
	}
	return nodes
}

// Run counts leaf positions at exactly depth plies below pos, consulting
// the depth-2 and general caches along the way. It runs single-threaded;
// see ParallelRun for the multi-worker variant.
func Run(pos *chess.Position, depth int) Count {
	return runCached(pos, depth, newDepth2Cache(), newGeneralCache())
}

func runCached(pos *chess.Position, depth int, d2 *depth2Cache, gc *generalCache) Count {
	if depth == 0 {
		return Count{Lo: 1}
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return Count{Lo: uint64(moves.Len())}
	}

	if depth == 2 {
		if v, ok := d2.get(pos.Hash); ok {
			return Count{Lo: uint64(v)}
		}
		var nodes uint64
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			undo := pos.MakeMove(m)
			nodes += Perft(pos, 1)
			pos.UnmakeMove(m, undo)
		}
		d2.put(pos.Hash, uint32(nodes))
		return Count{Lo: nodes}
	}

	if c, ok := gc.get(pos.Hash, depth); ok {
		return c
	}

	var total Count
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		total = total.Plus(runCached(pos, depth-1, d2, gc))
		pos.UnmakeMove(m, undo)
	}

	gc.put(pos.Hash, depth, total)
	return total
}
