package perft

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kestrelchess/engine/internal/chess"
)

// taskListThreshold is the minimum task-list size the root is expanded to
// before handing work to the worker pool (depth^3 is, per the spec, of the
// same order as 100 for the depths perft is run at).
const taskListThreshold = 100

var (
	globalDepth2Cache  = newDepth2Cache()
	globalGeneralCache = newGeneralCache()
)

// ProgressFunc is invoked periodically during ParallelRun with the total
// node count visited so far.
type ProgressFunc func(nodes uint64)

// perftTask is one unit of root-expanded work: the move sequence (from the
// original root) that reaches the task's subtree, and the perft depth
// still to search from there.
type perftTask struct {
	moves []chess.Move
	depth int
}

// buildTaskList expands pos's move tree breadth-first, one node at a time,
// until the list holds at least threshold tasks (or the tree runs out of
// plies to expand).
func buildTaskList(pos *chess.Position, depth, threshold int) []perftTask {
	tasks := []perftTask{{depth: depth}}

	for len(tasks) < threshold {
		idx := -1
		for i, t := range tasks {
			if t.depth > 1 && (idx == -1 || t.depth > tasks[idx].depth) {
				idx = i
			}
		}
		if idx == -1 {
			break
		}

		t := tasks[idx]
		p := replay(pos, t.moves)
		moves := p.GenerateLegalMoves()

		children := make([]perftTask, 0, moves.Len())
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			childMoves := make([]chess.Move, len(t.moves)+1)
			copy(childMoves, t.moves)
			childMoves[len(t.moves)] = m
			children = append(children, perftTask{moves: childMoves, depth: t.depth - 1})
		}

		tasks = append(tasks[:idx:idx], append(children, tasks[idx+1:]...)...)
	}

	return tasks
}

func replay(pos *chess.Position, moves []chess.Move) *chess.Position {
	p := pos.Copy()
	for _, m := range moves {
		p.MakeMove(m)
	}
	return p
}

// ParallelRun counts leaf positions at exactly depth plies below pos using
// a fixed worker pool sized max(4, runtime.NumCPU()), each worker pulling
// from a shared task list via an atomic index. report, if non-nil and
// interval is positive, is invoked from a separate goroutine roughly every
// interval with the running node total, and once more with the final count
// after every worker finishes. Below depth 3 the task-list machinery isn't
// worth its own overhead, so ParallelRun just delegates to Run and report
// is not called.
func ParallelRun(pos *chess.Position, depth int, report ProgressFunc, interval time.Duration) Count {
	if depth < 3 {
		return Run(pos, depth)
	}

	tasks := buildTaskList(pos, depth, taskListThreshold)

	workerCount := 4
	if n := runtime.NumCPU(); n > workerCount {
		workerCount = n
	}
	if workerCount > len(tasks) {
		workerCount = len(tasks)
	}

	var nextTask atomic.Int64
	var nodes atomic.Uint64
	results := make([]Count, len(tasks))

	var progressDone chan struct{}
	var progressWG sync.WaitGroup
	if report != nil && interval > 0 {
		progressDone = make(chan struct{})
		progressWG.Add(1)
		go func() {
			defer progressWG.Done()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					report(nodes.Load())
				case <-progressDone:
					return
				}
			}
		}()
	}

	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(nextTask.Add(1)) - 1
				if i >= len(tasks) {
					return
				}
				t := tasks[i]
				p := replay(pos, t.moves)
				c := runCached(p, t.depth, globalDepth2Cache, globalGeneralCache)
				results[i] = c
				nodes.Add(c.Uint64())
			}
		}()
	}
	wg.Wait()

	if progressDone != nil {
		close(progressDone)
		progressWG.Wait()
		report(nodes.Load())
	}

	var total Count
	for _, c := range results {
		total = total.Plus(c)
	}
	return total
}
