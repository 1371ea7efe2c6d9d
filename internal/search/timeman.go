package search

import "time"

// Limits mirrors the UCI "go" parameters a caller can supply.
type Limits struct {
	WTime, BTime time.Duration
	WInc, BInc   time.Duration
	MovesToGo    int
	MoveTime     time.Duration
	Depth        int
	Nodes        uint64
	Infinite     bool
}

// TimeManager turns Limits into a concrete optimum/maximum budget for one
// search call.
type TimeManager struct {
	optimum time.Duration
	maximum time.Duration
	start   time.Time
}

// Init starts the clock and computes the optimum/maximum budget for the
// side to move (white when white is true, else black), at the given fullmove number.
func (tm *TimeManager) Init(limits Limits, white bool, fullmove int) {
	tm.start = time.Now()

	if limits.MoveTime > 0 {
		tm.optimum, tm.maximum = limits.MoveTime, limits.MoveTime
		return
	}

	timeLeft, inc := limits.WTime, limits.WInc
	if !white {
		timeLeft, inc = limits.BTime, limits.BInc
	}

	if limits.Infinite || (timeLeft == 0 && inc == 0) {
		tm.optimum, tm.maximum = time.Hour, time.Hour
		return
	}

	mtg := computeMovesToGoEffective(limits.MovesToGo, fullmove)
	base := timeLeft/time.Duration(mtg) + inc*8/10

	tm.optimum = base
	tm.maximum = base * 5
	if cap := timeLeft * 8 / 10; tm.maximum > cap {
		tm.maximum = cap
	}
	if safety := timeLeft * 95 / 100; tm.maximum > safety {
		tm.maximum = safety
	}
	if tm.optimum < 10*time.Millisecond {
		tm.optimum = 10 * time.Millisecond
	}
	if tm.maximum < 50*time.Millisecond {
		tm.maximum = 50 * time.Millisecond
	}
}

// computeMovesToGoEffective implements the spec's movesToGo fallback:
// max(movesToGo, 10 + max(0, 20 - 10 - fullmove)).
func computeMovesToGoEffective(movesToGo, fullmove int) int {
	fallback := 10 + max(0, 10-fullmove)
	if movesToGo > fallback {
		return movesToGo
	}
	return fallback
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Elapsed reports time since Init.
func (tm *TimeManager) Elapsed() time.Duration { return time.Since(tm.start) }

// PastOptimum reports whether the optimum budget has been used; iterative
// deepening should not start a new depth once this is true.
func (tm *TimeManager) PastOptimum() bool { return tm.Elapsed() >= tm.optimum }

// PastMaximum reports whether the hard budget has been used; search must
// abort immediately once this is true.
func (tm *TimeManager) PastMaximum() bool { return tm.Elapsed() >= tm.maximum }
